package datemark

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/karrick/godirwalk"
	"k8s.io/klog/v2"
)

var (
	// ErrNotExist is returned by Find when the input path does not exist.
	ErrNotExist = errors.New("path does not exist")
	// ErrNoImages is returned by Find when a directory holds no supported images.
	ErrNoImages = errors.New("no supported images found")
)

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".tiff": true,
	".tif":  true,
	".bmp":  true,
	".gif":  true,
}

// Scan is the set of images to process and the directory they were found in.
type Scan struct {
	Base   string
	Images []Image
}

// Find returns the images named by path: the file itself, or the supported
// images directly inside a directory, sorted by name.
func Find(path string) (*Scan, error) {
	st, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrNotExist, err)
		}
		return nil, fmt.Errorf("stat: %w", err)
	}

	if !st.IsDir() {
		klog.V(1).Infof("found single file %s", path)
		return &Scan{Base: filepath.Dir(path), Images: []Image{newImage(path)}}, nil
	}

	des, err := godirwalk.ReadDirents(path, nil)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	sort.Sort(des)

	s := &Scan{Base: path}
	for _, de := range des {
		p := filepath.Join(path, de.Name())
		if !isRegular(p, de) {
			continue
		}
		if !imageExts[strings.ToLower(filepath.Ext(p))] {
			klog.V(2).Infof("ignoring %s", p)
			continue
		}
		klog.V(1).Infof("found %s", p)
		s.Images = append(s.Images, newImage(p))
	}

	if len(s.Images) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoImages, path)
	}
	return s, nil
}

func isRegular(path string, de *godirwalk.Dirent) bool {
	if de.IsRegular() {
		return true
	}
	if !de.IsSymlink() {
		return false
	}
	st, err := os.Stat(path)
	if err != nil {
		klog.Warningf("unable to follow symlink %s: %v", path, err)
		return false
	}
	return st.Mode().IsRegular()
}

func newImage(path string) Image {
	return Image{
		InPath: path,
		Name:   filepath.Base(path),
		Ext:    strings.ToLower(filepath.Ext(path)),
	}
}
