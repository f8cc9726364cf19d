package cli

import (
	"context"
	"sync"
	"time"

	"github.com/petems/listen-transcriber/internal/output"
	"github.com/petems/listen-transcriber/internal/session"
)

// statusPrinter writes status changes to the terminal when verbose
type statusPrinter struct {
	f       *output.Formatter
	verbose bool

	mu   sync.Mutex
	last string
}

func newStatusPrinter(f *output.Formatter, verbose bool) *statusPrinter {
	return &statusPrinter{f: f, verbose: verbose}
}

func (p *statusPrinter) SetIdle()       {}
func (p *statusPrinter) SetRecording()  {}
func (p *statusPrinter) SetProcessing() {}
func (p *statusPrinter) SetError()      {}

func (p *statusPrinter) SetStatus(s session.State) {
	if !p.verbose {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if s.Status == p.last {
		return
	}
	p.last = s.Status
	p.f.Status(s.Status)
}

// openSession builds a session for a command; the returned func closes it
func openSession(deps *Dependencies, f *output.Formatter) (Session, func()) {
	s := deps.NewSession(newStatusPrinter(f, deps.Verbose))
	return s, func() {
		ctx, cancel := context.WithTimeout(context.Background(), deps.Config.StopTimeout()+5*time.Second)
		defer cancel()
		if err := s.Close(ctx); err != nil {
			deps.Logger.Error().Err(err).Msg("Session close error")
		}
	}
}
