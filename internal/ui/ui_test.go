package ui

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/law-makers/plexport/internal/engine"
)

type recordingAlerter struct {
	messages []string
}

func (r *recordingAlerter) Alert(ctx context.Context, message string) {
	r.messages = append(r.messages, message)
}

func TestTerminalAlerter(t *testing.T) {
	SetColor(true)
	defer SetColor(false)

	var buf bytes.Buffer
	TerminalAlerter{W: &buf}.Alert(context.Background(), engine.AlertMessage)

	out := buf.String()
	if !strings.Contains(out, engine.AlertMessage) {
		t.Errorf("Expected alert message, got %q", out)
	}
	if !strings.HasPrefix(out, "\033[31m") {
		t.Errorf("Expected red output, got %q", out)
	}
}

func TestAlerters_FanOutSkipsNil(t *testing.T) {
	a, b := &recordingAlerter{}, &recordingAlerter{}
	Alerters(a, nil, b).Alert(context.Background(), "x")

	if len(a.messages) != 1 || len(b.messages) != 1 {
		t.Errorf("Expected both alerters to fire once, got %d and %d", len(a.messages), len(b.messages))
	}
}

func TestOnce(t *testing.T) {
	rec := &recordingAlerter{}
	once := Once(rec)
	once.Alert(context.Background(), "first")
	once.Alert(context.Background(), "second")

	if len(rec.messages) != 1 || rec.messages[0] != "first" {
		t.Errorf("Expected only the first alert, got %v", rec.messages)
	}
}

func TestProgress_Disabled(t *testing.T) {
	p := NewProgress(nil, false)
	p.Observe(engine.Progress{Cycle: 1, HighWater: 10, Collected: 10})
	p.Finish()
}

func TestProgress_Enabled(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, true)
	p.Observe(engine.Progress{Cycle: 1, HighWater: 10, Collected: 10, State: engine.StateExtracting})
	p.Observe(engine.Progress{Cycle: 2, HighWater: 10, Collected: 10, Stagnation: 1, State: engine.StateExtracting})
	p.Finish()
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		ev   engine.Progress
		want string
	}{
		{engine.Progress{State: engine.StatePositioning}, "Positioning grid"},
		{engine.Progress{HighWater: 42, State: engine.StateExtracting}, "Scraped up to #42"},
		{engine.Progress{HighWater: 42, Stagnation: 2, State: engine.StateWaiting}, "Scraped up to #42 (waiting 2)"},
		{engine.Progress{Cycle: 7, HighWater: 42, State: engine.StateDone}, "Done after 7 cycles, up to #42"},
	}
	for _, tt := range tests {
		if got := describe(tt.ev); got != tt.want {
			t.Errorf("describe(%+v) = %q, want %q", tt.ev, got, tt.want)
		}
	}
}

func TestStartSpinner_Disabled(t *testing.T) {
	stop := StartSpinner(nil, "Opening", false)
	stop()
}

func TestSetColor_Off(t *testing.T) {
	SetColor(false)
	if got := Bold("x") + Error("y") + Warn("z"); got != "xyz" {
		t.Errorf("Expected plain text without color, got %q", got)
	}
}
