package service

import (
	"sync/atomic"
	"time"

	"band_monitor/internal/models"
)

type State struct {
	ready     atomic.Bool
	startedAt time.Time

	wsConnected  atomic.Bool
	lastTickUnix atomic.Int64 // unix seconds
	position     atomic.Int32
	lastSignal   atomic.Value // models.Action
}

func NewState() *State {
	s := &State{startedAt: time.Now()}
	s.ready.Store(false)
	s.lastSignal.Store(models.ActionNone)
	return s
}

func (s *State) SetReady(v bool) { s.ready.Store(v) }
func (s *State) Ready() bool     { return s.ready.Load() }

func (s *State) SetWSConnected(v bool) { s.wsConnected.Store(v) }
func (s *State) WSConnected() bool     { return s.wsConnected.Load() }

func (s *State) TouchTick(t time.Time) { s.lastTickUnix.Store(t.Unix()) }
func (s *State) LastTick() time.Time {
	u := s.lastTickUnix.Load()
	if u == 0 {
		return time.Time{}
	}
	return time.Unix(u, 0)
}

func (s *State) SetPosition(p models.Position) { s.position.Store(int32(p)) }
func (s *State) Position() models.Position     { return models.Position(s.position.Load()) }

func (s *State) SetLastSignal(a models.Action) { s.lastSignal.Store(a) }
func (s *State) LastSignal() models.Action     { return s.lastSignal.Load().(models.Action) }

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }
