package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/komsit37/trailcalc/pkg/tc/render"
	"github.com/komsit37/trailcalc/pkg/tc/trigger"
	"github.com/komsit37/trailcalc/pkg/tc/types"
)

const interactiveHelp = `commands:
  trail <text> [caret]   type into the trail field (debounced)
  multiple <value>       drag the multiple (debounced)
  commit <value>         release the multiple (immediate)
  purpose <acq|wc>       switch purpose (immediate)
  flush                  run a pending recompute now
  help                   show this help
  quit                   exit`

func newInteractiveCmd() *cobra.Command {
	var (
		trail    string
		multiple string
		purpose  string
	)
	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Drive the estimator from line-based input events",
		Long:  "Reads one event per line from stdin and redraws the figures and chart.\n\n" + interactiveHelp,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := types.ParsePurpose(purpose)
			if err != nil {
				return err
			}
			cfg := loadSettings()
			if !cfg.Color {
				text.DisableColors()
			}
			in, out := cmd.InOrStdin(), cmd.OutOrStdout()
			return runInteractive(in, out, cfg, types.RawInput{Trail: trail, Multiple: multiple}, p, liveTerminal(in, out))
		},
	}
	f := cmd.Flags()
	f.StringVarP(&trail, "trail", "t", "", "initial monthly trail")
	f.StringVarP(&multiple, "multiple", "m", "", "initial multiple")
	f.StringVarP(&purpose, "purpose", "p", "acquisition", "initial purpose")
	return cmd
}

// liveTerminal reports whether frames can be redrawn in place: both ends
// must be the terminal so typed lines can be counted and erased.
func liveTerminal(in io.Reader, out io.Writer) bool {
	fin, ok := in.(*os.File)
	if !ok {
		return false
	}
	fout, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isTerminal(fin) && isTerminal(fout)
}

// runInteractive drives a Session from line-based input. Every write goes
// through the Screen so echoes and redraws never interleave.
func runInteractive(in io.Reader, out io.Writer, cfg settings, initial types.RawInput, p types.Purpose, live bool) error {
	fm := cfg.formatter()
	sink := render.NewTableSink()
	chart := render.NewBarChart(out, fm)
	chart.Width = chartWidth()
	chart.Color = cfg.Color
	screen := &render.Screen{W: out, Sink: sink, Chart: chart, Live: live}

	sess := trigger.NewSession(trigger.Config{
		Formatter: fm,
		Sink:      sink,
		Chart:     screen,
		Delay:     cfg.Debounce,
		Estimate:  cfg.estimateOptions(),
		Initial:   initial,
		Purpose:   p,
	})
	defer sess.Close()
	sess.Start()

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if live {
			screen.Typed(1)
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		cmd, ev, err := parseLine(line)
		if err != nil {
			screen.Note("%v", err)
			continue
		}
		switch cmd {
		case "quit":
			sess.Flush()
			return nil
		case "help":
			screen.Note("%s", interactiveHelp)
		case "flush":
			sess.Flush()
		default:
			field := sess.OnUserEvent(ev)
			if ev.Kind == trigger.TrailInput {
				screen.Note("trail: %s (caret %d)", field.Text, field.Caret)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	sess.Flush()
	return nil
}

// parseLine turns an input line into a control command or an event.
// For events the returned command is "event".
func parseLine(line string) (string, trigger.Event, error) {
	verb, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)
	switch strings.ToLower(verb) {
	case "q", "quit", "exit":
		return "quit", trigger.Event{}, nil
	case "h", "help", "?":
		return "help", trigger.Event{}, nil
	case "flush":
		return "flush", trigger.Event{}, nil
	case "t", "trail":
		value, caretText, hasCaret := strings.Cut(rest, " ")
		caret := utf8.RuneCountInString(value)
		if hasCaret {
			n, err := strconv.Atoi(strings.TrimSpace(caretText))
			if err != nil {
				return "", trigger.Event{}, fmt.Errorf("bad caret %q", caretText)
			}
			caret = n
		}
		return "event", trigger.Event{Kind: trigger.TrailInput, Value: value, Caret: caret}, nil
	case "m", "multiple":
		return "event", trigger.Event{Kind: trigger.MultipleInput, Value: rest}, nil
	case "c", "commit":
		return "event", trigger.Event{Kind: trigger.MultipleCommitted, Value: rest}, nil
	case "p", "purpose":
		if _, err := types.ParsePurpose(rest); err != nil {
			return "", trigger.Event{}, err
		}
		return "event", trigger.Event{Kind: trigger.PurposeChanged, Value: rest}, nil
	}
	return "", trigger.Event{}, fmt.Errorf("unknown command %q (try help)", verb)
}
