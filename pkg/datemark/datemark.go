// Package datemark stamps the EXIF capture date onto copies of photos.
package datemark

import (
	"fmt"
	"path/filepath"
)

// OutDirSuffix is appended to the scanned directory name to form the output directory.
var OutDirSuffix = "_watermark"

// DefaultQuality matches the JPEG quality most photo tools save with.
var DefaultQuality = 75

// Config holds configuration for datemark.
type Config struct {
	// Path is a single image or a directory of images.
	Path  string
	Style Style

	// Quality is the JPEG quality used for .jpg and .jpeg outputs.
	Quality int

	DryRun      bool
	CopySkipped bool

	// Reader reads embedded metadata; nil means ExifReader.
	Reader MetadataReader
}

// DefaultConfig returns a Config with the stock style and quality.
func DefaultConfig() *Config {
	return &Config{
		Style:   DefaultStyle(),
		Quality: DefaultQuality,
	}
}

// OutputDir returns the output directory for a scan base: a sibling named <base>_watermark.
func OutputDir(base string) (string, error) {
	abs, err := filepath.Abs(base)
	if err != nil {
		return "", fmt.Errorf("abs: %w", err)
	}
	return filepath.Join(filepath.Dir(abs), filepath.Base(abs)+OutDirSuffix), nil
}
