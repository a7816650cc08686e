package engine

import (
	"sort"

	"github.com/law-makers/plexport/internal/engine/extract"
	"github.com/law-makers/plexport/pkg/models"
)

// State is a step of the scroll-extract-converge loop
type State int

const (
	StatePositioning State = iota
	StateExtracting
	StateScrolling
	StateWaiting
	StateDone
)

func (s State) String() string {
	switch s {
	case StatePositioning:
		return "positioning"
	case StateExtracting:
		return "extracting"
	case StateScrolling:
		return "scrolling"
	case StateWaiting:
		return "waiting"
	case StateDone:
		return "done"
	}
	return "unknown"
}

// RunState is the controller's working memory for one run.
// The collected set only grows and the high-water mark never decreases.
type RunState struct {
	records    map[string]models.TrackRecord
	order      []string
	HighWater  int
	Stagnation int
}

func newRunState() *RunState {
	return &RunState{records: make(map[string]models.TrackRecord)}
}

// Known reports whether an identity has been collected
func (s *RunState) Known(id string) bool {
	_, ok := s.records[id]
	return ok
}

// Len returns the number of collected records
func (s *RunState) Len() int {
	return len(s.records)
}

// Merge adds unseen records from a batch and updates the stagnation
// bookkeeping. It reports whether the batch raised the high-water mark.
func (s *RunState) Merge(batch extract.Batch) bool {
	for _, rec := range batch.Records {
		if s.Known(rec.ID) {
			continue
		}
		s.records[rec.ID] = rec
		s.order = append(s.order, rec.ID)
	}

	if batch.MaxIndex > s.HighWater {
		s.HighWater = batch.MaxIndex
		s.Stagnation = 0
		return true
	}
	s.Stagnation++
	return false
}

// Sorted returns the collected records ordered by index; equal indices keep
// insertion order.
func (s *RunState) Sorted() []models.TrackRecord {
	out := make([]models.TrackRecord, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Index < out[j].Index
	})
	return out
}
