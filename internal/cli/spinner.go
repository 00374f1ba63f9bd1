package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/matzehuels/docgraph/pkg/builder"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const (
	spinnerInterval = 80 * time.Millisecond
	// maxFileColumn keeps long document paths from wrapping the status line.
	maxFileColumn = 48
)

// Spinner is a one-line status indicator for long pipeline stages. Its text
// can be replaced while it runs, typically from build progress callbacks.
type Spinner struct {
	out io.Writer

	mu      sync.Mutex
	message string
	width   int // widest message shown, in runes

	ctx      context.Context
	cancel   context.CancelFunc
	started  bool
	stopOnce sync.Once
	stopped  chan struct{}
}

// newSpinner creates a spinner on stderr that stops when ctx is cancelled.
func newSpinner(ctx context.Context, message string) *Spinner {
	return newSpinnerTo(ctx, os.Stderr, message)
}

func newSpinnerTo(ctx context.Context, out io.Writer, message string) *Spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		out:     out,
		message: message,
		width:   utf8.RuneCountInString(message),
		ctx:     sctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

// Start begins drawing frames until Stop or cancellation.
func (s *Spinner) Start() {
	s.started = true
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "\r%s %s\033[K", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
}

// Update replaces the text shown next to the spinner.
func (s *Spinner) Update(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
	s.width = max(s.width, utf8.RuneCountInString(message))
}

// Report shows a build progress event. It is safe to pass as
// pipeline.Options.OnProgress.
func (s *Spinner) Report(p builder.Progress) {
	s.Update(phaseText(p))
}

// Stop halts the animation and clears the line. Further calls do nothing.
func (s *Spinner) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		if s.started {
			<-s.stopped
		}
	})
}

// Fail stops the spinner and prints message as an error.
func (s *Spinner) Fail(message string) {
	s.Stop()
	printError("%s", message)
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", s.width+2))
}

// phaseText describes where a build is: directories listed while scanning,
// then the file being parsed and the links found so far.
func phaseText(p builder.Progress) string {
	if p.Phase == builder.PhaseScanning {
		return fmt.Sprintf("Scanning... %d directories", p.Current)
	}
	text := fmt.Sprintf("Parsing %d/%d %s", p.Current, p.Total, truncate(p.CurrentFile, maxFileColumn))
	if links := p.InternalLinksFound + p.ExternalLinksFound; links > 0 {
		text += fmt.Sprintf(" · %d links", links)
	}
	return text
}
