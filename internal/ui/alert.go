package ui

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/law-makers/plexport/internal/engine"
)

// TerminalAlerter prints alerts in red on w
type TerminalAlerter struct {
	W io.Writer
}

// Alert implements engine.Alerter
func (a TerminalAlerter) Alert(ctx context.Context, message string) {
	fmt.Fprintln(a.W, Error("✗ "+message))
}

type multiAlerter []engine.Alerter

func (m multiAlerter) Alert(ctx context.Context, message string) {
	for _, a := range m {
		a.Alert(ctx, message)
	}
}

// Alerters fans one alert out to every non-nil alerter
func Alerters(alerters ...engine.Alerter) engine.Alerter {
	var out multiAlerter
	for _, a := range alerters {
		if a != nil {
			out = append(out, a)
		}
	}
	return out
}

// Once wraps an alerter so only the first alert is delivered
func Once(a engine.Alerter) engine.Alerter {
	return &onceAlerter{next: a}
}

type onceAlerter struct {
	once sync.Once
	next engine.Alerter
}

func (o *onceAlerter) Alert(ctx context.Context, message string) {
	o.once.Do(func() { o.next.Alert(ctx, message) })
}
