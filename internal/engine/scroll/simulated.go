package scroll

import (
	"context"
	"fmt"
	"html"
	"math"
	"strings"
	"sync"
)

// SimTrack is one row of a SimulatedViewport
type SimTrack struct {
	ID    string
	Title string
}

// SimulatedViewport is an in-memory virtualized list used by tests.
// Only the rows intersecting the visible window (plus Buffer rows on each side)
// are rendered, and a scroll only takes effect on rendered rows after LagPolls
// further reads of Rows.
type SimulatedViewport struct {
	Tracks       []SimTrack
	RowHeight    float64
	ClientHeight float64
	Buffer       int
	LagPolls     int
	// ScrollHeight overrides the content height when > 0
	ScrollHeight float64
	// NoGrid makes Locate fail with ErrGridNotFound
	NoGrid bool
	// FirstIndex is the ordinal shown on the first row
	FirstIndex int

	mu          sync.Mutex
	top         float64
	renderedTop float64
	lag         int
	scrolls     int
}

// NewSimulatedViewport creates a simulator with n tracks named /track/T<i>
func NewSimulatedViewport(n int, rowHeight, clientHeight float64) *SimulatedViewport {
	tracks := make([]SimTrack, n)
	for i := range tracks {
		tracks[i] = SimTrack{ID: fmt.Sprintf("/track/T%d", i+1), Title: fmt.Sprintf("Track %d", i+1)}
	}
	return &SimulatedViewport{
		Tracks:       tracks,
		RowHeight:    rowHeight,
		ClientHeight: clientHeight,
		FirstIndex:   1,
	}
}

// Locate implements Viewport
func (s *SimulatedViewport) Locate(ctx context.Context) (string, error) {
	if s.NoGrid {
		return "", ErrGridNotFound
	}
	return "simulated", nil
}

// Metrics implements Viewport
func (s *SimulatedViewport) Metrics(ctx context.Context) (Metrics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Metrics{ScrollTop: s.top, ClientHeight: s.ClientHeight, ScrollHeight: s.scrollHeight()}, nil
}

// ScrollTo implements Viewport
func (s *SimulatedViewport) ScrollTo(ctx context.Context, top float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	maxTop := math.Max(0, s.scrollHeight()-s.ClientHeight)
	s.top = math.Min(math.Max(0, top), maxTop)
	s.lag = s.LagPolls
	if s.lag == 0 {
		s.renderedTop = s.top
	}
	s.scrolls++
	return nil
}

// Rows implements Viewport
func (s *SimulatedViewport) Rows(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lag > 0 {
		s.lag--
	} else {
		s.renderedTop = s.top
	}

	if s.RowHeight <= 0 || len(s.Tracks) == 0 {
		return "", nil
	}
	first := int(math.Floor(s.renderedTop/s.RowHeight)) - s.Buffer
	last := int(math.Ceil((s.renderedTop+s.ClientHeight)/s.RowHeight)) + s.Buffer
	if first < 0 {
		first = 0
	}
	if last > len(s.Tracks) {
		last = len(s.Tracks)
	}

	var b strings.Builder
	for i := first; i < last; i++ {
		t := s.Tracks[i]
		fmt.Fprintf(&b, `<div role="row"><div role="gridcell">%d</div><div role="gridcell"><a href="%s">%s</a></div></div>`,
			s.FirstIndex+i, html.EscapeString(t.ID), html.EscapeString(t.Title))
	}
	return b.String(), nil
}

// Scrolls returns how many times ScrollTo was called
func (s *SimulatedViewport) Scrolls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scrolls
}

// AtEnd reports whether the scroll offset has reached its maximum
func (s *SimulatedViewport) AtEnd() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.top >= s.scrollHeight()-s.ClientHeight
}

func (s *SimulatedViewport) scrollHeight() float64 {
	if s.ScrollHeight > 0 {
		return s.ScrollHeight
	}
	return float64(len(s.Tracks)) * s.RowHeight
}
