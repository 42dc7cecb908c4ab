package trigger

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/komsit37/trailcalc/pkg/tc/present"
	"github.com/komsit37/trailcalc/pkg/tc/types"
)

const testDelay = 20 * time.Millisecond

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestDebouncerRunsOnlyLastCall(t *testing.T) {
	d := NewDebouncer(testDelay)
	var (
		mu    sync.Mutex
		calls []int
	)
	for i := 1; i <= 5; i++ {
		i := i
		d.Call(func() {
			mu.Lock()
			calls = append(calls, i)
			mu.Unlock()
		})
	}
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(calls) > 0
	})
	time.Sleep(3 * testDelay)

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 1 || calls[0] != 5 {
		t.Errorf("calls = %v, want [5]", calls)
	}
	if d.Pending() {
		t.Errorf("debouncer still pending after run")
	}
}

func TestDebouncerStop(t *testing.T) {
	d := NewDebouncer(testDelay)
	var n atomic.Int32
	d.Call(func() { n.Add(1) })
	if !d.Pending() {
		t.Fatal("expected pending run")
	}
	if !d.Stop() {
		t.Fatal("Stop should report a cancelled run")
	}
	if d.Stop() {
		t.Fatal("second Stop should report nothing pending")
	}
	time.Sleep(3 * testDelay)
	if n.Load() != 0 {
		t.Errorf("stopped call ran %d times", n.Load())
	}
}

func TestDebouncerCurrent(t *testing.T) {
	d := NewDebouncer(time.Hour)
	first := d.Call(func() {})
	second := d.Call(func() {})
	if d.Current(first) {
		t.Errorf("first generation should be superseded")
	}
	if !d.Current(second) {
		t.Errorf("second generation should be current")
	}
	d.Stop()
	if d.Current(second) {
		t.Errorf("Stop should retire the pending generation")
	}
}

func TestDebouncerDefaultDelay(t *testing.T) {
	if d := NewDebouncer(0); d.delay != DefaultDelay {
		t.Errorf("delay = %v, want %v", d.delay, DefaultDelay)
	}
}

// fakeChart records every dataset it is asked to draw.
type fakeChart struct {
	mu     sync.Mutex
	drawn  []present.Dataset
	closed int
}

func (c *fakeChart) Render(ds present.Dataset) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drawn = append(c.drawn, ds)
	return nil
}

func (c *fakeChart) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed++
	return nil
}

func (c *fakeChart) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.drawn)
}

func newTestSession(initial types.RawInput) (*Session, *present.MapSink, *fakeChart) {
	sink := present.NewMapSink()
	chart := &fakeChart{}
	s := NewSession(Config{
		Sink:    sink,
		Chart:   chart,
		Delay:   testDelay,
		Initial: initial,
	})
	return s, sink, chart
}

func TestSessionStartComputesDefaults(t *testing.T) {
	s, sink, chart := newTestSession(types.RawInput{Trail: "10000"})
	defer s.Close()

	fig := s.Start()
	if !fig.BookValue.Equal(decimal.NewFromInt(360000)) {
		t.Errorf("book = %s, want 360000 with default multiple", fig.BookValue)
	}
	if got, _ := sink.Get(present.TargetAccess); got != "$252,000" {
		t.Errorf("access target = %q", got)
	}
	if chart.count() != 1 {
		t.Errorf("charts drawn = %d, want 1", chart.count())
	}
}

func TestSessionPurposeChangeIsImmediate(t *testing.T) {
	s, sink, chart := newTestSession(types.RawInput{Trail: "10000", Multiple: "3"})
	defer s.Close()
	s.Start()

	s.OnUserEvent(Event{Kind: PurposeChanged, Value: "working-capital"})
	if s.Recomputes() != 2 {
		t.Fatalf("recomputes = %d, want 2", s.Recomputes())
	}
	if got, _ := sink.Get(present.TargetAccessPercent); got != "50%" {
		t.Errorf("percent = %q, want 50%%", got)
	}
	if chart.count() != 2 {
		t.Errorf("charts drawn = %d, want 2", chart.count())
	}
	last := chart.drawn[1]
	if last.Bars[1].Label != present.LabelWorkingCapital {
		t.Errorf("access bar label = %q", last.Bars[1].Label)
	}

	// unknown purposes are ignored
	s.OnUserEvent(Event{Kind: PurposeChanged, Value: "bogus"})
	if s.Recomputes() != 2 {
		t.Errorf("bogus purpose triggered a recompute")
	}
}

func TestSessionTrailInputReformatsAndDebounces(t *testing.T) {
	s, sink, _ := newTestSession(types.RawInput{Multiple: "3"})
	defer s.Close()
	s.Start()

	field := s.OnUserEvent(Event{Kind: TrailInput, Value: "1000", Caret: 4})
	if field.Text != "1,000" || field.Caret != 5 {
		t.Errorf("field = %+v, want 1,000 caret 5", field)
	}
	field = s.OnUserEvent(Event{Kind: TrailInput, Value: "1,0000", Caret: 6})
	if field.Text != "10,000" || field.Caret != 6 {
		t.Errorf("field = %+v, want 10,000 caret 6", field)
	}
	if s.Recomputes() != 1 {
		t.Fatalf("trail input recomputed synchronously")
	}

	waitFor(t, func() bool { return s.Recomputes() == 2 })
	time.Sleep(3 * testDelay)
	if s.Recomputes() != 2 {
		t.Errorf("recomputes = %d, want exactly 2", s.Recomputes())
	}
	if got, _ := sink.Get(present.TargetMonthly); got != "$10,000" {
		t.Errorf("monthly = %q, want $10,000", got)
	}
}

func TestSessionMultipleBurstDebounced(t *testing.T) {
	s, _, _ := newTestSession(types.RawInput{Trail: "10000"})
	defer s.Close()
	s.Start()

	for _, v := range []string{"3.1", "3.2", "3.3", "3.4", "4"} {
		s.OnUserEvent(Event{Kind: MultipleInput, Value: v})
	}
	waitFor(t, func() bool { return s.Recomputes() == 2 })
	time.Sleep(3 * testDelay)
	if s.Recomputes() != 2 {
		t.Fatalf("recomputes = %d, want 2", s.Recomputes())
	}
	if got := s.Figures().Multiple; !got.Equal(decimal.NewFromInt(4)) {
		t.Errorf("multiple = %s, want the last value 4", got)
	}
}

func TestSessionSupersededCallbackSkipsRecompute(t *testing.T) {
	s, _, chart := newTestSession(types.RawInput{Trail: "10000"})
	defer s.Close()
	s.Start()

	s.OnUserEvent(Event{Kind: MultipleInput, Value: "2"})
	// hold the session so the fired callback blocks on it, then schedule a
	// newer edit before letting go
	s.mu.Lock()
	waitFor(t, func() bool { return !s.debounce.Pending() })
	s.raw.Multiple = "4"
	s.scheduleLocked()
	s.mu.Unlock()

	waitFor(t, func() bool { return s.Recomputes() == 2 })
	time.Sleep(3 * testDelay)
	if s.Recomputes() != 2 || chart.count() != 2 {
		t.Fatalf("recomputes = %d, charts = %d, want 2 each", s.Recomputes(), chart.count())
	}
	if got := s.Figures().Multiple; !got.Equal(decimal.NewFromInt(4)) {
		t.Errorf("multiple = %s, want 4", got)
	}
}

func TestSessionCommittedMultipleIsImmediate(t *testing.T) {
	s, sink, _ := newTestSession(types.RawInput{Trail: "10000"})
	defer s.Close()
	s.Start()

	s.OnUserEvent(Event{Kind: MultipleCommitted, Value: "5"})
	if s.Recomputes() != 2 {
		t.Fatalf("recomputes = %d, want 2", s.Recomputes())
	}
	if got, _ := sink.Get(present.TargetBook); got != "$600,000" {
		t.Errorf("book = %q, want $600,000", got)
	}
}

func TestSessionCommitLeavesPendingTimer(t *testing.T) {
	s, _, _ := newTestSession(types.RawInput{Trail: "10000"})
	defer s.Close()
	s.Start()

	s.OnUserEvent(Event{Kind: TrailInput, Value: "20000", Caret: 5})
	s.OnUserEvent(Event{Kind: MultipleCommitted, Value: "2"})
	if s.Recomputes() != 2 {
		t.Fatalf("recomputes = %d, want 2", s.Recomputes())
	}
	waitFor(t, func() bool { return s.Recomputes() == 3 })
	if got := s.Figures().BookValue; !got.Equal(decimal.NewFromInt(480000)) {
		t.Errorf("book = %s, want 480000", got)
	}
}

func TestSessionFlushAndClose(t *testing.T) {
	s, _, chart := newTestSession(types.RawInput{Trail: "10000"})
	s.Start()

	if s.Flush() {
		t.Errorf("Flush with nothing pending reported true")
	}
	s.OnUserEvent(Event{Kind: MultipleInput, Value: "2"})
	if !s.Flush() {
		t.Fatalf("Flush should run the pending recompute")
	}
	if s.Recomputes() != 2 {
		t.Fatalf("recomputes = %d, want 2", s.Recomputes())
	}

	s.OnUserEvent(Event{Kind: MultipleInput, Value: "9"})
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	time.Sleep(3 * testDelay)
	if s.Recomputes() != 2 {
		t.Errorf("recompute ran after Close")
	}
	if chart.closed != 1 {
		t.Errorf("chart closed %d times, want 1", chart.closed)
	}
}

func TestEventKindString(t *testing.T) {
	if TrailInput.String() != "trail-input" || EventKind(42).String() != "event(42)" {
		t.Errorf("unexpected names %q %q", TrailInput, EventKind(42))
	}
}
