package datemark

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/otiai10/copy"
	"k8s.io/klog/v2"
)

// Run stamps every image found at c.Path and writes the results to the
// output directory. Progress is written to w. Only discovery and output
// directory failures are returned as errors; per-image problems are
// recorded in the Summary.
func Run(c *Config, w io.Writer) (*Summary, error) {
	s, err := Find(c.Path)
	if err != nil {
		return nil, err
	}

	r := report{w: w}
	r.found(len(s.Images))

	outDir, err := OutputDir(s.Base)
	if err != nil {
		return nil, err
	}

	if !c.DryRun {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir: %w", err)
		}
	}
	r.outDir(outDir)
	klog.Infof("stamping %d images: %s -> %s", len(s.Images), s.Base, outDir)

	mr := c.Reader
	if mr == nil {
		mr = ExifReader{}
	}

	rd := NewRenderer(c.Style)
	defer rd.Close()

	sum := &Summary{Found: len(s.Images), OutDir: outDir}
	for _, i := range s.Images {
		r.start(i)
		res := process(c, mr, rd, r, i, outDir)
		r.result(res, c.DryRun)

		if !res.Skipped() {
			sum.Processed++
		} else {
			sum.Skipped++
			if c.CopySkipped && !c.DryRun {
				copyOriginal(r, i, outDir)
			}
		}
		sum.Results = append(sum.Results, res)
	}

	r.done(sum)
	klog.Infof("done: %d processed, %d skipped", sum.Processed, sum.Skipped)
	return sum, nil
}

// process takes one image from metadata to saved output.
func process(c *Config, mr MetadataReader, rd *Renderer, r report, i Image, outDir string) Result {
	res := Result{Image: i}

	ts := readTags(mr, i.InPath)
	if ts == nil {
		res.Outcome = NoMetadata
		return res
	}

	l, err := Label(ts)
	if err != nil {
		res.Err = err
		res.Outcome = NoMetadata
		if errors.Is(err, ErrBadDate) {
			klog.Warningf("%s: %v", i.InPath, err)
			res.Outcome = ParseFailed
		}
		return res
	}
	res.Label = l
	r.label(l)

	img, err := rd.Render(i.InPath, l)
	if err != nil {
		klog.Errorf("unable to render %s: %v", i.InPath, err)
		res.Err = err
		res.Outcome = RenderFailed
		return res
	}

	res.OutPath = filepath.Join(outDir, i.Name)
	if c.DryRun {
		return res
	}

	if err := save(res.OutPath, i.Ext, img, c.Quality); err != nil {
		klog.Errorf("unable to save %s: %v", res.OutPath, err)
		res.Err = err
		res.Outcome = SaveFailed
		return res
	}
	return res
}

func copyOriginal(r report, i Image, outDir string) {
	dst := filepath.Join(outDir, i.Name)
	if err := copy.Copy(i.InPath, dst); err != nil {
		klog.Errorf("unable to copy %s: %v", i.InPath, err)
		return
	}
	r.copied(dst)
}
