// Package report renders the branding summary document in PDF and
// Markdown forms.
package report

import (
	"time"

	"github.com/hyperifyio/brandscan/internal/palette"
)

// Summary is everything the renderers need for one branding page.
type Summary struct {
	Domain    string
	PageTitle string
	// LogoPath points at a downloaded logo image; empty when the download
	// failed or was skipped.
	LogoPath      string
	PrimaryColors []palette.Color
	ButtonColors  []palette.Color
	// Recommended is nil when the primary palette was empty and no
	// recommendation could be computed.
	Recommended *palette.Recommendation
	GeneratedAt time.Time
}
