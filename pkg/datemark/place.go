package datemark

import (
	"fmt"
	"image"
)

// Anchor names where the label goes.
type Anchor string

const (
	TopLeft     Anchor = "top-left"
	TopRight    Anchor = "top-right"
	BottomLeft  Anchor = "bottom-left"
	BottomRight Anchor = "bottom-right"
	Center      Anchor = "center"
)

// Anchors lists every valid anchor.
var Anchors = []Anchor{TopLeft, TopRight, BottomLeft, BottomRight, Center}

// Margin is the gap in pixels between the label and the image edge.
var Margin = 20

// ParseAnchor returns the anchor named s.
func ParseAnchor(s string) (Anchor, error) {
	for _, a := range Anchors {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("invalid position %q (choose from %v)", s, Anchors)
}

// Place returns the top-left point of a w x h text box inside an imgW x imgH image.
// Unknown anchors are treated as BottomRight.
func Place(imgW, imgH, w, h int, a Anchor) image.Point {
	switch a {
	case TopLeft:
		return image.Pt(Margin, Margin)
	case TopRight:
		return image.Pt(imgW-w-Margin, Margin)
	case BottomLeft:
		return image.Pt(Margin, imgH-h-Margin)
	case Center:
		return image.Pt((imgW-w)/2, (imgH-h)/2)
	default:
		return image.Pt(imgW-w-Margin, imgH-h-Margin)
	}
}
