package datemark

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/imgio"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/tiff"
	"k8s.io/klog/v2"
)

// Style controls how a label is drawn.
type Style struct {
	FontSize int
	Color    string
	Anchor   Anchor
}

// DefaultStyle is 24px white text in the bottom-right corner.
func DefaultStyle() Style {
	return Style{FontSize: 24, Color: "white", Anchor: BottomRight}
}

// Renderer draws labels onto images. The font and color are resolved once.
type Renderer struct {
	style   Style
	face    font.Face
	fill    color.Color
	fillErr error
}

// NewRenderer resolves the font and color for s. It never fails: a missing
// font falls back to an estimated layout, and a bad color fails each Render.
func NewRenderer(s Style) *Renderer {
	r := &Renderer{style: s, face: loadFace(s.FontSize)}
	r.fill, r.fillErr = ParseColor(s.Color)
	return r
}

// Close releases the font face.
func (r *Renderer) Close() error {
	if r.face == nil {
		return nil
	}
	return r.face.Close()
}

// Render opens path and returns a copy with label drawn on it.
func (r *Renderer) Render(path string, label string) (dst *image.RGBA, err error) {
	defer func() {
		if p := recover(); p != nil {
			dst, err = nil, fmt.Errorf("render %s: panic: %v", path, p)
		}
	}()

	if r.fillErr != nil {
		return nil, r.fillErr
	}

	src, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imgio.Open: %w", err)
	}

	dst = clone.AsRGBA(src)
	b := dst.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("empty image: %v", b)
	}

	face, w, h, offset := r.layout(label)
	pt := Place(b.Dx(), b.Dy(), w, h, r.style.Anchor).Add(b.Min)
	klog.V(1).Infof("drawing %q (%dx%d) at %v in %v", label, w, h, pt, b)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(r.fill),
		Face: face,
		Dot:  fixed.P(pt.X, pt.Y).Add(offset),
	}
	d.DrawString(label)
	return dst, nil
}

// layout returns the face to draw with, the text box size, and the offset
// from the box's top-left corner to the drawing origin.
func (r *Renderer) layout(label string) (font.Face, int, int, fixed.Point26_6) {
	if r.face == nil {
		w, h := estimateBox(label, r.style.FontSize)
		return basicfont.Face7x13, w, h, fixed.P(0, basicfont.Face7x13.Ascent)
	}

	bounds, _ := font.BoundString(r.face, label)
	w := (bounds.Max.X - bounds.Min.X).Ceil()
	h := (bounds.Max.Y - bounds.Min.Y).Ceil()
	return r.face, w, h, fixed.Point26_6{X: -bounds.Min.X, Y: -bounds.Min.Y}
}
