package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/hyperifyio/brandscan/internal/palette"
)

// WriteMarkdown renders the branding summary as a Markdown document, the
// shareable sidecar next to the PDF.
func WriteMarkdown(w io.Writer, s Summary) error {
	md := markdown.NewMarkdown(w)

	md.H1("Branding Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Domain", codeOrDash(s.Domain)},
			{"Page Title", orDash(s.PageTitle)},
			{"Logo", orDash(s.LogoPath)},
			{"Generated", s.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
		},
	})
	md.PlainText("")

	writeColorTable(md, "Primary Colors", s.PrimaryColors)
	writeColorTable(md, "Button Colors", s.ButtonColors)

	md.H2("Recommended Accent Color")
	if s.Recommended == nil {
		md.PlainText("No recommendation: no usable colors were found on the page.")
	} else {
		md.Table(markdown.TableSet{
			Header: []string{"Color", "Why"},
			Rows:   [][]string{{"`" + string(s.Recommended.Color) + "`", s.Recommended.Reason}},
		})
	}
	md.PlainText("")

	return md.Build()
}

func writeColorTable(md *markdown.Markdown, heading string, colors []palette.Color) {
	md.H2(heading)
	if len(colors) == 0 {
		md.PlainText("None found.")
		md.PlainText("")
		return
	}
	rows := make([][]string, 0, len(colors))
	for i, c := range colors {
		rows = append(rows, []string{strconv.Itoa(i + 1), "`" + string(c) + "`"})
	}
	md.Table(markdown.TableSet{Header: []string{"Rank", "Hex"}, Rows: rows})
	md.PlainText("")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func codeOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return "`" + s + "`"
}
