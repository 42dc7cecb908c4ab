// Package trigger drives recalculation from user events. A Session owns the
// current input, the display sink, the chart and a debouncer, and serializes
// every recompute.
package trigger

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/text/language"

	"github.com/komsit37/trailcalc/pkg/tc/estimate"
	"github.com/komsit37/trailcalc/pkg/tc/present"
	"github.com/komsit37/trailcalc/pkg/tc/render"
	"github.com/komsit37/trailcalc/pkg/tc/sanitize"
	"github.com/komsit37/trailcalc/pkg/tc/types"
)

// EventKind is the kind of user interaction being reported.
type EventKind int

const (
	// PurposeChanged recomputes immediately.
	PurposeChanged EventKind = iota
	// MultipleInput is a live multiple edit; recompute is debounced.
	MultipleInput
	// MultipleCommitted is a finished multiple edit; recompute is immediate.
	MultipleCommitted
	// TrailInput is a keystroke in the trail field; the field is regrouped
	// at once and recompute is debounced.
	TrailInput
)

func (k EventKind) String() string {
	switch k {
	case PurposeChanged:
		return "purpose"
	case MultipleInput:
		return "multiple-input"
	case MultipleCommitted:
		return "multiple-commit"
	case TrailInput:
		return "trail-input"
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event is one user interaction. Value holds the field text (or the purpose
// name); Caret is the cursor position for TrailInput.
type Event struct {
	Kind  EventKind
	Value string
	Caret int
}

// Config holds the collaborators and tunables of a Session.
type Config struct {
	Formatter *present.Formatter
	Grouper   *sanitize.Grouper
	Sink      present.Sink
	Chart     render.ChartRenderer
	Delay     time.Duration
	Estimate  estimate.Options
	// Initial field values; empty values use defaults.
	Initial types.RawInput
	Purpose types.Purpose
	// OnRecompute, if set, is called after every recompute with the new
	// figures. It runs with the session locked and must not call back into it.
	OnRecompute func(types.Figures)
}

// Session is the state machine that turns events into recomputes.
type Session struct {
	mu       sync.Mutex
	cfg      Config
	raw      types.RawInput
	purpose  types.Purpose
	debounce *Debouncer
	last     types.Figures
	runs     int
	closed   bool
}

func NewSession(cfg Config) *Session {
	if cfg.Formatter == nil {
		cfg.Formatter = present.NewFormatter("en", "USD")
	}
	if cfg.Grouper == nil {
		cfg.Grouper = sanitize.NewGrouper(language.English)
	}
	s := &Session{
		cfg:      cfg,
		raw:      cfg.Initial,
		purpose:  cfg.Purpose,
		debounce: NewDebouncer(cfg.Delay),
	}
	s.raw.Trail = cfg.Grouper.Format(s.raw.Trail)
	return s
}

// Start performs the initial recompute from the default field values.
func (s *Session) Start() types.Figures {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recomputeLocked()
}

// OnUserEvent applies ev and returns the trail field as it should now be
// displayed.
func (s *Session) OnUserEvent(ev Event) sanitize.Field {
	s.mu.Lock()
	defer s.mu.Unlock()

	slog.Debug("user event", "kind", ev.Kind.String(), "value", ev.Value)
	switch ev.Kind {
	case PurposeChanged:
		p, err := types.ParsePurpose(ev.Value)
		if err != nil {
			slog.Debug("ignore purpose", "err", err)
			break
		}
		s.purpose = p
		s.recomputeLocked()
	case MultipleInput:
		s.raw.Multiple = ev.Value
		s.scheduleLocked()
	case MultipleCommitted:
		s.raw.Multiple = ev.Value
		s.recomputeLocked()
	case TrailInput:
		field := s.cfg.Grouper.Reformat(ev.Value, ev.Caret)
		s.raw.Trail = field.Text
		s.scheduleLocked()
		return field
	}
	return sanitize.Field{Text: s.raw.Trail, Caret: len([]rune(s.raw.Trail))}
}

// Figures returns the figures of the most recent recompute.
func (s *Session) Figures() types.Figures {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Recomputes returns how many recomputes have run.
func (s *Session) Recomputes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}

// Flush runs a pending debounced recompute now. It reports whether one was
// pending.
func (s *Session) Flush() bool {
	if !s.debounce.Stop() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.recomputeLocked()
	return true
}

// Close cancels any pending recompute and tears down the chart.
func (s *Session) Close() error {
	s.debounce.Stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if c, ok := s.cfg.Chart.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

func (s *Session) scheduleLocked() {
	var gen uint64
	gen = s.debounce.Call(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		// a newer event or a Flush may have taken over while we waited
		if s.closed || !s.debounce.Current(gen) {
			return
		}
		s.recomputeLocked()
	})
}

func (s *Session) recomputeLocked() types.Figures {
	fig := estimate.FromRaw(s.raw, s.purpose, s.cfg.Estimate)
	s.last = fig
	s.runs++

	s.cfg.Formatter.Apply(s.cfg.Sink, fig)
	if s.cfg.Chart != nil {
		if err := s.cfg.Chart.Render(present.NewDataset(fig)); err != nil {
			slog.Warn("chart render failed", "err", err)
		}
	}
	if s.cfg.OnRecompute != nil {
		s.cfg.OnRecompute(fig)
	}
	return fig
}
