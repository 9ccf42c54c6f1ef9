package datemark

// Image is a discovered input file.
type Image struct {
	InPath string
	Name   string
	// Ext is lower-cased and includes the leading dot.
	Ext string
}

// Tags maps metadata tag names (DateTime, DateTimeOriginal, ...) to their values.
type Tags map[string]string

// Outcome is the result of processing a single image.
type Outcome int

const (
	Labeled Outcome = iota
	NoMetadata
	ParseFailed
	RenderFailed
	SaveFailed
)

func (o Outcome) String() string {
	switch o {
	case Labeled:
		return "labeled"
	case NoMetadata:
		return "no-metadata"
	case ParseFailed:
		return "parse-failed"
	case RenderFailed:
		return "render-failed"
	case SaveFailed:
		return "save-failed"
	}
	return "unknown"
}

// Result describes what happened to one image.
type Result struct {
	Image   Image
	Outcome Outcome
	Label   string
	// OutPath is where the output is (or in dry-run mode, would be) written.
	OutPath string
	Err     error
}

// Skipped reports whether the image was left without an output.
func (r Result) Skipped() bool {
	return r.Outcome != Labeled
}

// Summary is the outcome of a run.
type Summary struct {
	Found     int
	OutDir    string
	Processed int
	Skipped   int
	Results   []Result
}
