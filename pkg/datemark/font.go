package datemark

import (
	"os"
	"runtime"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"k8s.io/klog/v2"
)

// systemFont is tried first; builtinFont is the fallback that ships with the binary.
var (
	systemFont  = systemFontPath(runtime.GOOS)
	builtinFont = goregular.TTF
)

func systemFontPath(goos string) string {
	switch goos {
	case "darwin":
		return "/System/Library/Fonts/Arial.ttf"
	case "windows":
		return "C:/Windows/Fonts/arial.ttf"
	default:
		return "/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf"
	}
}

// loadFace returns a face of the given pixel size, or nil if no font could be loaded.
func loadFace(size int) font.Face {
	bs, err := os.ReadFile(systemFont)
	if err == nil {
		f, err := newFace(bs, size)
		if err == nil {
			klog.V(1).Infof("using font %s", systemFont)
			return f
		}
		klog.V(1).Infof("unable to load %s: %v", systemFont, err)
	} else {
		klog.V(1).Infof("system font unavailable: %v", err)
	}

	f, err := newFace(builtinFont, size)
	if err != nil {
		klog.V(1).Infof("unable to load builtin font: %v", err)
		return nil
	}
	return f
}

func newFace(bs []byte, size int) (font.Face, error) {
	f, err := opentype.Parse(bs)
	if err != nil {
		return nil, err
	}
	// 72 DPI makes one point one pixel.
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// estimateBox guesses the size of s when no font is available to measure it.
func estimateBox(s string, size int) (int, int) {
	return len([]rune(s)) * size / 2, size
}
