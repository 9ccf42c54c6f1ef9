package datemark

import (
	"errors"
	"fmt"
	"strings"

	"k8s.io/klog/v2"
)

var (
	// ErrNoDate means none of the date tags were present.
	ErrNoDate = errors.New("no date tag")
	// ErrBadDate means date tags were present but none could be parsed.
	ErrBadDate = errors.New("unparseable date tag")
)

// DateTags are checked in order; the first one that parses wins.
var DateTags = []string{"DateTime", "DateTimeOriginal", "DateTimeDigitized"}

// Label returns the capture date from ts formatted as 2023年08月15日.
func Label(ts Tags) (string, error) {
	var last error
	for _, name := range DateTags {
		v := ts[name]
		if v == "" {
			continue
		}
		l, err := formatDate(v)
		if err != nil {
			klog.V(1).Infof("%s: %v", name, err)
			last = err
			continue
		}
		return l, nil
	}

	if last != nil {
		return "", fmt.Errorf("%w: %w", ErrBadDate, last)
	}
	return "", ErrNoDate
}

// formatDate converts an EXIF "YYYY:MM:DD HH:MM:SS" value into a label.
func formatDate(v string) (string, error) {
	date, _, _ := strings.Cut(v, " ")
	parts := strings.Split(date, ":")
	if len(parts) != 3 {
		return "", fmt.Errorf("date %q: want YYYY:MM:DD", v)
	}
	return fmt.Sprintf("%s年%s月%s日", parts[0], parts[1], parts[2]), nil
}
