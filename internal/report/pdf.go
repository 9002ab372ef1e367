package report

import (
	"os"

	"github.com/jung-kurt/gofpdf"

	"github.com/hyperifyio/brandscan/internal/palette"
)

const (
	swatchWidth  = 25.0
	swatchHeight = 8.0
	rowStep      = 12.0
)

// WritePDF renders the one-page branding summary to outPath. A color that
// fails to parse renders as the black fallback swatch instead of aborting
// the document.
func WritePDF(s Summary, outPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()

	// Centered logo when a downloaded file is present.
	if s.LogoPath != "" {
		if _, err := os.Stat(s.LogoPath); err == nil {
			pdf.ImageOptions(s.LogoPath, (pageW-35)/2, 12, 35, 35, false,
				gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}, 0, "")
			pdf.SetY(52)
		}
	}
	if pdf.GetY() < 20 {
		pdf.SetY(20)
	}

	pdf.SetFont("Helvetica", "B", 16)
	title := s.Domain
	if title == "" {
		title = s.PageTitle
	}
	pdf.CellFormat(0, 10, "Branding Summary: "+title, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	writeSwatchSection(pdf, "Primary Colors", s.PrimaryColors)
	writeSwatchSection(pdf, "Button Colors", s.ButtonColors)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Recommended Accent Color", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	if s.Recommended == nil {
		pdf.MultiCell(0, 5, "No recommendation: no usable colors were found on the page.", "", "L", false)
	} else {
		writeSwatchRow(pdf, s.Recommended.Color)
		pdf.MultiCell(0, 5, s.Recommended.Reason, "", "L", false)
	}

	return pdf.OutputFileAndClose(outPath)
}

func writeSwatchSection(pdf *gofpdf.Fpdf, heading string, colors []palette.Color) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, heading, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	if len(colors) == 0 {
		pdf.MultiCell(0, 5, "None found.", "", "L", false)
		pdf.Ln(2)
		return
	}
	for _, c := range colors {
		writeSwatchRow(pdf, c)
	}
	pdf.Ln(2)
}

func writeSwatchRow(pdf *gofpdf.Fpdf, c palette.Color) {
	r, g, b, err := c.RGB()
	if err != nil {
		// fallback swatch rather than a broken document
		r, g, b = 0, 0, 0
	}
	x, y := pdf.GetX(), pdf.GetY()
	pdf.SetFillColor(r, g, b)
	pdf.Rect(x, y, swatchWidth, swatchHeight, "FD")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(x+swatchWidth+4, y+1)
	pdf.CellFormat(0, 6, string(c), "", 0, "L", false, 0, "")
	pdf.SetXY(x, y+rowStep)
}
