package datemark

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/barasher/go-exiftool"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
	"k8s.io/klog/v2"
)

// MetadataReader reads the embedded metadata of an image file.
type MetadataReader interface {
	Read(path string) (Tags, error)
}

// ExifReader decodes EXIF blocks in-process.
type ExifReader struct{}

// Read decodes the EXIF block of path.
func (ExifReader) Read(path string) (Tags, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.EqualFold(filepath.Ext(path), ".png") {
		bs, err := pngExif(f)
		if err != nil {
			return nil, fmt.Errorf("png: %w", err)
		}
		r = bytes.NewReader(bs)
	}

	x, err := exif.Decode(r)
	if err != nil {
		if x == nil || exif.IsCriticalError(err) {
			return nil, fmt.Errorf("decode: %w", err)
		}
		klog.V(1).Infof("partial exif in %s: %v", path, err)
	}

	w := tagWalker{}
	if err := x.Walk(w); err != nil {
		return nil, fmt.Errorf("walk: %w", err)
	}
	return Tags(w), nil
}

var (
	pngMagic     = []byte("\x89PNG\r\n\x1a\n")
	errNoPNGExif = errors.New("no eXIf chunk")
)

// maxPNGExif bounds the eXIf allocation; EXIF blocks are capped at 64KiB in JPEG.
const maxPNGExif = 1 << 20

// pngExif returns the raw TIFF payload of the eXIf chunk of a PNG stream.
func pngExif(r io.Reader) ([]byte, error) {
	magic := make([]byte, len(pngMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("read signature: %w", err)
	}
	if !bytes.Equal(magic, pngMagic) {
		return nil, errors.New("not a PNG stream")
	}

	// Each chunk: 4-byte length, 4-byte type, data, 4-byte CRC.
	hdr := make([]byte, 8)
	for {
		if _, err := io.ReadFull(r, hdr); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, errNoPNGExif
			}
			return nil, fmt.Errorf("read chunk: %w", err)
		}
		n := int64(binary.BigEndian.Uint32(hdr[:4]))
		switch string(hdr[4:]) {
		case "eXIf":
			if n > maxPNGExif {
				return nil, fmt.Errorf("eXIf chunk too large: %d bytes", n)
			}
			bs := make([]byte, n)
			if _, err := io.ReadFull(r, bs); err != nil {
				return nil, fmt.Errorf("read eXIf: %w", err)
			}
			return bs, nil
		case "IEND":
			return nil, errNoPNGExif
		}
		if _, err := io.CopyN(io.Discard, r, n+4); err != nil {
			return nil, fmt.Errorf("skip %s: %w", hdr[4:], err)
		}
	}
}

type tagWalker Tags

func (w tagWalker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	if tag.Format() == tiff.StringVal {
		s, err := tag.StringVal()
		if err == nil {
			w[string(name)] = s
			return nil
		}
	}
	w[string(name)] = tag.String()
	return nil
}

// exiftool reports some EXIF fields under its own names.
var exiftoolNames = map[string]string{
	"ModifyDate": "DateTime",
	"CreateDate": "DateTimeDigitized",
}

// ExiftoolReader reads metadata through a long-running exiftool process.
type ExiftoolReader struct {
	et *exiftool.Exiftool
}

// NewExiftoolReader starts exiftool. Callers must Close the reader.
func NewExiftoolReader() (*ExiftoolReader, error) {
	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, fmt.Errorf("exiftool: %w", err)
	}
	return &ExiftoolReader{et: et}, nil
}

// Read extracts every field exiftool knows about for path.
func (r *ExiftoolReader) Read(path string) (Tags, error) {
	fis := r.et.ExtractMetadata(path)
	if len(fis) == 0 {
		return nil, fmt.Errorf("no metadata returned for %q", path)
	}
	fi := fis[0]
	if fi.Err != nil {
		return nil, fmt.Errorf("extract fail for %q: %w", path, fi.Err)
	}

	ts := Tags{}
	for k, v := range fi.Fields {
		klog.V(2).Infof("%q=%v", k, v)
		if n, ok := exiftoolNames[k]; ok {
			k = n
		}
		ts[k] = fmt.Sprint(v)
	}
	return ts, nil
}

// Close stops the exiftool process.
func (r *ExiftoolReader) Close() error {
	return r.et.Close()
}

// readTags reads metadata without ever failing: errors and decoder panics
// are logged and reported as missing metadata.
func readTags(r MetadataReader, path string) (ts Tags) {
	defer func() {
		if p := recover(); p != nil {
			klog.Warningf("metadata decoder panicked on %s: %v", path, p)
			ts = nil
		}
	}()

	ts, err := r.Read(path)
	if err != nil {
		klog.Warningf("unable to read metadata for %s: %v", path, err)
		return nil
	}
	if len(ts) == 0 {
		return nil
	}
	return ts
}
