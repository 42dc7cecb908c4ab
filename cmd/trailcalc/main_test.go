package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/komsit37/trailcalc/pkg/tc/trigger"
	"github.com/komsit37/trailcalc/pkg/tc/types"
)

func testSettings(output string) settings {
	return settings{
		Currency:        "USD",
		Locale:          "en",
		DefaultMultiple: 3,
		Debounce:        10 * time.Millisecond,
		Color:           false,
		Output:          output,
	}
}

func TestParseLine(t *testing.T) {
	cases := []struct {
		line    string
		cmd     string
		ev      trigger.Event
		wantErr bool
	}{
		{line: "quit", cmd: "quit"},
		{line: "?", cmd: "help"},
		{line: "flush", cmd: "flush"},
		{line: "trail 1,2345", cmd: "event", ev: trigger.Event{Kind: trigger.TrailInput, Value: "1,2345", Caret: 6}},
		{line: "t 12345 2", cmd: "event", ev: trigger.Event{Kind: trigger.TrailInput, Value: "12345", Caret: 2}},
		{line: "m 3.5", cmd: "event", ev: trigger.Event{Kind: trigger.MultipleInput, Value: "3.5"}},
		{line: "commit 4", cmd: "event", ev: trigger.Event{Kind: trigger.MultipleCommitted, Value: "4"}},
		{line: "purpose wc", cmd: "event", ev: trigger.Event{Kind: trigger.PurposeChanged, Value: "wc"}},
		{line: "purpose lbo", wantErr: true},
		{line: "trail 1 x", wantErr: true},
		{line: "dance", wantErr: true},
	}
	for _, c := range cases {
		cmd, ev, err := parseLine(c.line)
		if (err != nil) != c.wantErr {
			t.Errorf("parseLine(%q) err = %v, wantErr %v", c.line, err, c.wantErr)
			continue
		}
		if cmd != c.cmd || ev != c.ev {
			t.Errorf("parseLine(%q) = %q %+v, want %q %+v", c.line, cmd, ev, c.cmd, c.ev)
		}
	}
}

func TestRunInteractive(t *testing.T) {
	text.DisableColors()
	in := strings.NewReader("trail 1000\ntrail 1,0000\ncommit 3\npurpose wc\nbogus\nquit\n")
	var out bytes.Buffer
	if err := runInteractive(in, &out, testSettings("table"), types.RawInput{}, types.Acquisition, false); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	for _, want := range []string{
		"trail: 1,000 (caret 5)",
		"trail: 10,000 (caret 6)",
		"$360,000",
		"$180,000",
		"Working Capital (50%)",
		`unknown command "bogus"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRunInteractiveLiveRedrawsInPlace(t *testing.T) {
	text.DisableColors()
	in := strings.NewReader("commit 4\nquit\n")
	var out bytes.Buffer
	if err := runInteractive(in, &out, testSettings("table"), types.RawInput{Trail: "10000"}, types.Acquisition, true); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	first, second, ok := strings.Cut(got, "\x1b[")
	if !ok {
		t.Fatalf("live output never erased:\n%q", got)
	}
	if !strings.Contains(first, "$360,000") || strings.Contains(first, "$480,000") {
		t.Errorf("first frame wrong:\n%s", first)
	}
	// initial frame plus the typed command line
	wantUp := fmt.Sprintf("%dA\x1b[J", strings.Count(first, "\n")+1)
	if !strings.HasPrefix(second, wantUp) {
		t.Errorf("erase = %q, want prefix %q", second, wantUp)
	}
	if !strings.Contains(second, "$480,000") {
		t.Errorf("redraw missing new book value:\n%s", second)
	}
}

func TestRunEstimateTable(t *testing.T) {
	text.DisableColors()
	var out bytes.Buffer
	sc := types.Scenario{Name: "estimate", Input: types.RawInput{Trail: "10,000", Multiple: "3"}}
	if err := runEstimate(context.Background(), &out, testSettings("table"), sc, true); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Monthly Trail", "$10,000", "$120,000", "$360,000", "$252,000", "Acquisition (70%)"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRunEstimateJSON(t *testing.T) {
	var out bytes.Buffer
	sc := types.Scenario{Name: "estimate", Input: types.RawInput{Trail: "10000"}, Purpose: types.WorkingCapital}
	if err := runEstimate(context.Background(), &out, testSettings("json"), sc, false); err != nil {
		t.Fatal(err)
	}
	var got []struct {
		Items []struct {
			AccessAmount string `json:"access_amount"`
			AccessLabel  string `json:"access_label"`
		} `json:"items"`
	}
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out.String())
	}
	if len(got) != 1 || len(got[0].Items) != 1 {
		t.Fatalf("unexpected shape: %s", out.String())
	}
	if it := got[0].Items[0]; it.AccessAmount != "180000" || it.AccessLabel != "Working Capital" {
		t.Errorf("item = %+v", it)
	}
}

func TestRunEstimateUnknownOutput(t *testing.T) {
	sc := types.Scenario{Input: types.RawInput{Trail: "1"}}
	if err := runEstimate(context.Background(), &bytes.Buffer{}, testSettings("xml"), sc, false); err == nil {
		t.Errorf("expected error for unknown output")
	}
}

func TestRootCommandEstimate(t *testing.T) {
	t.Setenv("TRAILCALC_CURRENCY", "USD")
	text.DisableColors()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--config", "", "--env-file", "", "--color=false", "estimate", "-t", "10,000", "-p", "wc", "--no-chart", "-o", "lines"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	want := "estimate: $360,000 book -> $180,000 working capital (50%)\n"
	if out.String() != want {
		t.Errorf("got %q, want %q", out.String(), want)
	}
}
