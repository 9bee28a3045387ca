package daemon

import (
	"reroute/internal/config"
	"reroute/internal/model"
	"sync"
	"time"
)

// RouterState counts reroute outcomes for the status endpoint. It is written
// by the event loop and read by HTTP handlers.
type RouterState struct {
	mu        sync.RWMutex
	route     config.Route
	startedAt time.Time
	rerouted  int
	skipped   int
	failed    int
	lastMove  *time.Time
	lastError string
}

func NewRouterState(route config.Route) *RouterState {
	return &RouterState{
		route:     route,
		startedAt: time.Now(),
	}
}

func (s *RouterState) Record(result model.RerouteResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case result.Skipped:
		s.skipped++
	case result.Err != nil:
		s.failed++
		s.lastError = result.Err.Error()
	default:
		s.rerouted++
		now := time.Now()
		s.lastMove = &now
	}
}

func (s *RouterState) Snapshot() model.RouterSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return model.RouterSnapshot{
		Source:    s.route.Source,
		Dest:      s.route.Dest,
		StartedAt: s.startedAt,
		Rerouted:  s.rerouted,
		Skipped:   s.skipped,
		Failed:    s.failed,
		LastMove:  s.lastMove,
		LastError: s.lastError,
	}
}
