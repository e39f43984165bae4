package svg

import (
	"encoding/xml"
	"strings"
)

const (
	fontHeightRatio = 0.25
	fontWidthRatio  = 0.85
	fontCharWidth   = 0.55
	fontSizeMin     = 10.0
	fontSizeMax     = 48.0
)

// FontSize picks a label size that fits the region.
func FontSize(r Region) float64 {
	n := max(1, len(r.Name))
	byHeight := r.H * fontHeightRatio
	byWidth := (r.W * fontWidthRatio) / (float64(n) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, min(byHeight, byWidth)))
}

// TruncateLabel shortens the name so it fits the region at FontSize.
func TruncateLabel(r Region) string {
	charWidth := FontSize(r) * fontCharWidth
	maxChars := max(3, int(r.W*fontWidthRatio/charWidth))
	if len(r.Name) <= maxChars {
		return r.Name
	}
	return r.Name[:maxChars-2] + ".."
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
