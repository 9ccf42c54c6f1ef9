// datemark stamps the EXIF capture date onto copies of photos.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"k8s.io/klog/v2"

	"github.com/tstromberg/datemark/pkg/datemark"
)

// anchorValue is a flag.Value that only accepts known positions.
type anchorValue struct {
	a *datemark.Anchor
}

func (v anchorValue) String() string {
	if v.a == nil {
		return ""
	}
	return string(*v.a)
}

func (v anchorValue) Set(s string) error {
	a, err := datemark.ParseAnchor(s)
	if err != nil {
		return err
	}
	*v.a = a
	return nil
}

// colorValue is a flag.Value that rejects colors that cannot be drawn.
type colorValue struct {
	s *string
}

func (v colorValue) String() string {
	if v.s == nil {
		return ""
	}
	return *v.s
}

func (v colorValue) Set(s string) error {
	if _, err := datemark.ParseColor(s); err != nil {
		return err
	}
	*v.s = s
	return nil
}

// options holds flags that select collaborators rather than Config fields.
type options struct {
	exiftool bool
}

func bindFlags(fs *flag.FlagSet, c *datemark.Config) *options {
	o := &options{}
	fs.IntVar(&c.Style.FontSize, "font-size", c.Style.FontSize, "font size in pixels")
	fs.Var(colorValue{&c.Style.Color}, "color", "text color: a name, #rrggbb, rgb(r,g,b) or hsl(h,s%,l%)")
	fs.Var(anchorValue{&c.Style.Anchor}, "position", fmt.Sprintf("text position, one of %v", datemark.Anchors))
	fs.IntVar(&c.Quality, "quality", c.Quality, "JPEG quality for .jpg outputs (1-100)")
	fs.BoolVar(&c.DryRun, "n", false, "dry-run mode, don't write anything")
	fs.BoolVar(&c.CopySkipped, "copy-skipped", false, "copy images without a capture date to the output directory unchanged")
	fs.BoolVar(&o.exiftool, "exiftool", false, "read metadata with exiftool instead of the built-in EXIF decoder")
	return o
}

// parseArgs parses args with fs, accepting flags on either side of the
// positional arguments, which are returned in order. A literal "--" ends
// flag parsing.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var pos []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return pos, nil
		}
		// fs.Parse drops the "--" terminator, so compare what it consumed.
		if n := len(args) - len(rest); n > 0 && args[n-1] == "--" {
			return append(pos, rest...), nil
		}
		pos = append(pos, rest[0])
		args = rest[1:]
	}
}

func main() {
	klog.InitFlags(nil)
	c := datemark.DefaultConfig()
	o := bindFlags(flag.CommandLine, c)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <image_path>\n", os.Args[0])
		flag.PrintDefaults()
	}

	// flag.CommandLine exits on parse errors.
	args, _ := parseArgs(flag.CommandLine, os.Args[1:])
	if len(args) != 1 {
		flag.Usage()
		os.Exit(2)
	}
	c.Path = args[0]

	var et *datemark.ExiftoolReader
	if o.exiftool {
		var err error
		et, err = datemark.NewExiftoolReader()
		if err != nil {
			klog.Exitf("exiftool failed: %v", err)
		}
		c.Reader = et
	}

	_, err := datemark.Run(c, os.Stdout)

	// klog.Exitf skips deferred calls, so exiftool is closed explicitly.
	if et != nil {
		if cerr := et.Close(); cerr != nil {
			klog.Errorf("failed to close exiftool: %v", cerr)
		}
	}

	if err != nil {
		exit(c.Path, err)
	}
}

// exit reports a run-level failure and terminates with status 1.
func exit(path string, err error) {
	switch {
	case errors.Is(err, datemark.ErrNotExist):
		klog.Exitf("错误: 路径 %s 不存在", path)
	case errors.Is(err, datemark.ErrNoImages):
		klog.Exitf("错误: 未找到支持的图片文件")
	default:
		klog.Exitf("run failed: %v", err)
	}
}
