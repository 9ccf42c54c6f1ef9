package datemark

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ParseColor understands CSS color names, #rgb, #rrggbb, #rrggbbaa,
// rgb(r,g,b), rgba(r,g,b,a) and hsl(h,s%,l%).
func ParseColor(s string) (color.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}

	switch {
	case strings.HasPrefix(s, "#"):
		return parseHex(s)
	case strings.HasPrefix(s, "rgb"):
		return parseRGB(s)
	case strings.HasPrefix(s, "hsl("):
		return parseHSL(s)
	}
	return nil, fmt.Errorf("unknown color %q", s)
}

func parseHex(s string) (color.Color, error) {
	if len(s) == 9 {
		bs, err := hex.DecodeString(s[1:])
		if err != nil {
			return nil, fmt.Errorf("color %q: %w", s, err)
		}
		return color.NRGBA{R: bs[0], G: bs[1], B: bs[2], A: bs[3]}, nil
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return nil, fmt.Errorf("color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

func parseRGB(s string) (color.Color, error) {
	args, err := colorArgs(s, "rgb", "rgba")
	if err != nil {
		return nil, err
	}

	vs := []uint8{0, 0, 0, 0xff}
	for i, a := range args {
		n, err := strconv.Atoi(strings.TrimSuffix(a, "%"))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("color %q: bad component %q", s, a)
		}
		if strings.HasSuffix(a, "%") {
			n = n * 255 / 100
		}
		if n > 255 {
			return nil, fmt.Errorf("color %q: component %q out of range", s, a)
		}
		vs[i] = uint8(n)
	}
	return color.NRGBA{R: vs[0], G: vs[1], B: vs[2], A: vs[3]}, nil
}

func parseHSL(s string) (color.Color, error) {
	args, err := colorArgs(s, "hsl", "")
	if err != nil {
		return nil, err
	}

	fs := make([]float64, 3)
	for i, a := range args {
		f, err := strconv.ParseFloat(strings.TrimSuffix(a, "%"), 64)
		if err != nil {
			return nil, fmt.Errorf("color %q: bad component %q", s, a)
		}
		fs[i] = f
	}
	r, g, b := colorful.Hsl(fs[0], fs[1]/100, fs[2]/100).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// colorArgs splits "fn(a, b, c)" into its arguments. fn4, when set, is the
// four-argument form of fn.
func colorArgs(s string, fn string, fn4 string) ([]string, error) {
	name, rest, ok := strings.Cut(s, "(")
	if !ok || !strings.HasSuffix(rest, ")") {
		return nil, fmt.Errorf("color %q: missing parentheses", s)
	}

	args := strings.Split(strings.TrimSuffix(rest, ")"), ",")
	for i := range args {
		args[i] = strings.TrimSpace(args[i])
	}

	switch {
	case name == fn && len(args) == 3:
	case fn4 != "" && name == fn4 && len(args) == 4:
	default:
		return nil, fmt.Errorf("color %q: unexpected %d components for %s", s, len(args), name)
	}
	return args, nil
}
