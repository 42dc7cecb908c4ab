package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/komsit37/trailcalc/pkg/tc/present"
)

// labels are the captions shown next to each display target.
var labels = map[present.Target]string{
	present.TargetMultiple:        "Multiple",
	present.TargetMonthly:         "Monthly Trail",
	present.TargetAnnual:          "Annual Trail",
	present.TargetSummaryMultiple: "× Multiple",
	present.TargetBook:            "Book Value",
	present.TargetAccess:          "Access Amount",
	present.TargetAccessPercent:   "Access %",
	present.TargetAccessLabel:     "Purpose",
}

// TableSink collects display targets and renders them as a two column table.
type TableSink struct {
	*present.MapSink
	targets []present.Target
}

// NewTableSink creates a sink with the given targets, or every target when
// none are given.
func NewTableSink(targets ...present.Target) *TableSink {
	if len(targets) == 0 {
		targets = present.Targets
	}
	return &TableSink{MapSink: present.NewMapSink(targets...), targets: targets}
}

// Render writes the current values in target order.
func (s *TableSink) Render(w io.Writer) {
	tw := newTableWriter(w)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	for _, t := range s.targets {
		v, _ := s.Get(t)
		tw.AppendRow(table.Row{labels[t], v})
	}
	tw.Render()
}

// Screen draws frames made of the figures table followed by the chart.
// Sessions write to Sink before calling Render, so the table is current.
// With Live set, each frame first erases everything the Screen wrote since
// the previous frame began, notes and counted input lines included.
type Screen struct {
	W     io.Writer
	Sink  *TableSink
	Chart *BarChart
	Live  bool

	mu     sync.Mutex
	drawn  int
	status string
}

// Render implements ChartRenderer.
func (s *Screen) Render(ds present.Dataset) error {
	var buf bytes.Buffer
	s.Sink.Render(&buf)
	for _, l := range s.Chart.lines(ds) {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Live && s.status != "" {
		buf.WriteString(s.status)
		buf.WriteByte('\n')
	}
	s.erase()
	s.drawn = countLines(buf.Bytes())
	_, err := s.W.Write(buf.Bytes())
	return err
}

// Note prints a message below the current frame. With Live set the last note
// is also redrawn at the bottom of each later frame.
func (s *Screen) Note(format string, args ...any) {
	msg := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = msg
	s.drawn += strings.Count(msg, "\n") + 1
	fmt.Fprintln(s.W, msg)
}

// Typed records n lines echoed by the terminal itself, such as user input,
// so the next erase covers them.
func (s *Screen) Typed(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawn += n
}

// Close forgets the current frame. The last frame stays on screen.
func (s *Screen) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawn = 0
	return nil
}

func (s *Screen) erase() {
	if s.Live && s.drawn > 0 {
		fmt.Fprintf(s.W, eraseFmt, s.drawn)
	}
	s.drawn = 0
}

func countLines(b []byte) int {
	n := bytes.Count(b, []byte{'\n'})
	if len(b) > 0 && b[len(b)-1] != '\n' {
		n++
	}
	return n
}
