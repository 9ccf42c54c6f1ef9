package datemark

import (
	"fmt"
	"image"
	"image/gif"
	"io"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"
	"golang.org/x/image/tiff"
	"k8s.io/klog/v2"
)

func gifEncoder(w io.Writer, img image.Image) error {
	return gif.Encode(w, img, nil)
}

func tiffEncoder(w io.Writer, img image.Image) error {
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
}

// encoder returns the encoder for a file extension (lower-case, with dot).
func encoder(ext string, quality int) (imgio.Encoder, error) {
	switch ext {
	case ".jpg", ".jpeg":
		return imgio.JPEGEncoder(clampQuality(quality)), nil
	case ".png":
		return imgio.PNGEncoder(), nil
	case ".bmp":
		return imgio.BMPEncoder(), nil
	case ".gif":
		return gifEncoder, nil
	case ".tif", ".tiff":
		return tiffEncoder, nil
	}
	return nil, fmt.Errorf("no encoder for %q", ext)
}

func clampQuality(q int) int {
	switch {
	case q < 1:
		return 1
	case q > 100:
		return 100
	}
	return q
}

// save writes img to path in the format implied by ext. The image is encoded
// to a temporary file beside path and renamed into place, so a failed encode
// never leaves a partial file at path.
func save(path string, ext string, img image.Image, quality int) (err error) {
	enc, err := encoder(ext, quality)
	if err != nil {
		return err
	}
	klog.V(1).Infof("saving %s (%v)", path, img.Bounds())

	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer func() {
		if err != nil {
			os.Remove(f.Name())
		}
	}()

	if err := enc(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	// CreateTemp uses 0600; outputs get the usual file mode.
	if err := os.Chmod(f.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
