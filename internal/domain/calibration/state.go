// Package calibration keeps the online calibration offset, its append-only
// event log and the metrics derived from that log.
package calibration

import (
	"sync"

	"github.com/okian/venturecast/internal/domain/model"
)

// State is the mutable calibration state shared by the scorer and the
// calibrator: one log-odds offset and the ordered events that produced it.
// Only Calibrator writes to it. Readers always see offset and events from
// the same step.
type State struct {
	mu     sync.RWMutex
	offset float64
	events []model.CalibrationEvent
}

// NewState returns a state with a zero offset and no events.
func NewState() *State {
	return &State{}
}

// Snapshot is a consistent copy of the state.
type Snapshot struct {
	Offset float64
	Events []model.CalibrationEvent
}

// Offset returns the current calibration offset.
func (s *State) Offset() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.offset
}

// Len returns the number of recorded events.
func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// Snapshot copies the offset and the event log under one read lock.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]model.CalibrationEvent, len(s.events))
	copy(events, s.events)
	return Snapshot{Offset: s.offset, Events: events}
}
