package builder

import (
	"io"
	"runtime"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/docgraph/pkg/errors"
)

// Parsing limits. A file whose stat-reported size exceeds LargeFileThreshold
// is parsed from its first ParseLimit bytes only; links and headings past
// that point are not seen.
const (
	LargeFileThreshold = 1 << 20   // 1 MiB
	ParseLimit         = 100 << 10 // 100 KiB
	YieldEvery         = 5
)

// Progress phases.
const (
	PhaseScanning = "scanning"
	PhaseParsing  = "parsing"
)

// Progress is reported to Options.OnProgress as the build advances.
//
// During scanning Total is 0 and Current counts directories listed so far.
// During parsing Current is the 1-based index into the selected slice and
// Total is the slice length.
type Progress struct {
	Phase              string
	Current            int
	Total              int
	CurrentFile        string
	InternalLinksFound int
	ExternalLinksFound int
}

// Yielder is the build's single suspension point, invoked after every
// YieldEvery parsed files.
type Yielder interface {
	Yield()
}

// YieldFunc adapts a function to Yielder.
type YieldFunc func()

// Yield calls f.
func (f YieldFunc) Yield() { f() }

// GoschedYielder yields the processor to other goroutines.
var GoschedYielder Yielder = YieldFunc(runtime.Gosched)

// Options configures a build.
type Options struct {
	// RootPath is the directory to scan. Required.
	RootPath string

	// IncludeExternalLinks adds external-link nodes and edges to the returned
	// node and edge lists. External data is collected either way.
	IncludeExternalLinks bool

	// MaxNodes limits how many documents are parsed. Zero means no limit.
	MaxNodes int

	// Offset is the index of the first document to parse. It only applies
	// when MaxNodes is set.
	Offset int

	OnProgress func(Progress)
	Yielder    Yielder
	Logger     *log.Logger
}

// ValidateAndSetDefaults checks the options and fills in defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if err := errors.ValidateRootPath(o.RootPath); err != nil {
		return err
	}
	if o.MaxNodes < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max nodes must not be negative, got %d", o.MaxNodes)
	}
	if o.Offset < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "offset must not be negative, got %d", o.Offset)
	}
	if o.Yielder == nil {
		o.Yielder = GoschedYielder
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// HasLimit reports whether the build is paginated.
func (o Options) HasLimit() bool { return o.MaxNodes > 0 }
