package datemark

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

const (
	tagDateTime          = 0x0132
	tagExifIFD           = 0x8769
	tagDateTimeOriginal  = 0x9003
	tagDateTimeDigitized = 0x9004
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

// writeJPEG writes a black JPEG, with an EXIF block when ifd0 or sub are non-empty.
func writeJPEG(t *testing.T, path string, w, h int, ifd0, sub map[uint16]string) {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, solid(w, h, color.Black), nil); err != nil {
		t.Fatalf("jpeg.Encode: %v", err)
	}
	bs := buf.Bytes()

	if len(ifd0) > 0 || len(sub) > 0 {
		payload := append([]byte("Exif\x00\x00"), buildTIFF(ifd0, sub)...)
		n := len(payload) + 2
		seg := append([]byte{0xff, 0xe1, byte(n >> 8), byte(n)}, payload...)
		out := append([]byte{}, bs[:2]...)
		out = append(out, seg...)
		bs = append(out, bs[2:]...)
	}
	writeFile(t, path, bs)
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, solid(w, h, color.Black)); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	writeFile(t, path, buf.Bytes())
}

// writePNGExif writes a black PNG carrying tiff as its eXIf chunk.
func writePNGExif(t *testing.T, path string, w, h int, tiff []byte) {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, solid(w, h, color.Black)); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	bs := buf.Bytes()

	chunk := binary.BigEndian.AppendUint32(nil, uint32(len(tiff)))
	body := append([]byte("eXIf"), tiff...)
	chunk = append(chunk, body...)
	chunk = binary.BigEndian.AppendUint32(chunk, crc32.ChecksumIEEE(body))

	// Signature (8 bytes) and IHDR (25 bytes) come first.
	out := append([]byte{}, bs[:33]...)
	out = append(out, chunk...)
	writeFile(t, path, append(out, bs[33:]...))
}

func writeFile(t *testing.T, path string, bs []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, bs, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

type ifdEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	value uint32
}

// buildTIFF returns a little-endian TIFF block holding ASCII tags in IFD0
// and, if sub is non-empty, in an EXIF sub-IFD.
func buildTIFF(ifd0, sub map[uint16]string) []byte {
	le := binary.LittleEndian

	n0 := len(ifd0)
	if len(sub) > 0 {
		n0++
	}
	subOff := 8 + 2 + 12*n0 + 4
	dataOff := subOff
	if len(sub) > 0 {
		dataOff += 2 + 12*len(sub) + 4
	}

	var data []byte
	ascii := func(tags map[uint16]string) []ifdEntry {
		var es []ifdEntry
		for tag, v := range tags {
			b := append([]byte(v), 0)
			e := ifdEntry{tag: tag, typ: 2, count: uint32(len(b))}
			if len(b) <= 4 {
				var inline [4]byte
				copy(inline[:], b)
				e.value = le.Uint32(inline[:])
			} else {
				e.value = uint32(dataOff + len(data))
				data = append(data, b...)
				if len(data)%2 == 1 {
					data = append(data, 0)
				}
			}
			es = append(es, e)
		}
		return es
	}

	e0 := ascii(ifd0)
	if len(sub) > 0 {
		e0 = append(e0, ifdEntry{tag: tagExifIFD, typ: 4, count: 1, value: uint32(subOff)})
	}
	es := ascii(sub)

	out := []byte("II")
	out = le.AppendUint16(out, 42)
	out = le.AppendUint32(out, 8)
	out = appendIFD(out, e0)
	if len(sub) > 0 {
		out = appendIFD(out, es)
	}
	return append(out, data...)
}

func appendIFD(b []byte, es []ifdEntry) []byte {
	le := binary.LittleEndian
	sort.Slice(es, func(i, j int) bool { return es[i].tag < es[j].tag })
	b = le.AppendUint16(b, uint16(len(es)))
	for _, e := range es {
		b = le.AppendUint16(b, e.tag)
		b = le.AppendUint16(b, e.typ)
		b = le.AppendUint32(b, e.count)
		b = le.AppendUint32(b, e.value)
	}
	return le.AppendUint32(b, 0)
}

// useBuiltinFont makes rendering independent of the fonts installed on the host.
func useBuiltinFont(t *testing.T) {
	t.Helper()
	old := systemFont
	systemFont = filepath.Join(t.TempDir(), "missing.ttf")
	t.Cleanup(func() { systemFont = old })
}

// fakeReader returns canned tags keyed by file name.
type fakeReader map[string]Tags

func (f fakeReader) Read(path string) (Tags, error) {
	ts, ok := f[filepath.Base(path)]
	if !ok {
		return nil, os.ErrNotExist
	}
	return ts, nil
}

type panicReader struct{}

func (panicReader) Read(string) (Tags, error) {
	panic("corrupt block")
}

func dirNames(t *testing.T, dir string) []string {
	t.Helper()
	des, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	var names []string
	for _, de := range des {
		names = append(names, de.Name())
	}
	return names
}
