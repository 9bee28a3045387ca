package reroute

import (
	"fmt"

	"reroute/internal/model"
)

// State is the correlator state: Idle, or AwaitingArrival for the name of the
// last departure that has not been resolved yet. Only one departure is
// tracked; a newer one replaces it.
type State struct {
	pending  string
	cookie   uint32
	awaiting bool
}

func Idle() State {
	return State{}
}

func AwaitingArrival(name string, cookie uint32) State {
	return State{pending: name, cookie: cookie, awaiting: true}
}

// Pending returns the unresolved departure name, if any.
func (s State) Pending() (string, bool) {
	return s.pending, s.awaiting
}

// Matches reports whether a MoveInto resolves the pending departure as an
// in-tree rename. Names are compared unless trustCookies is set and both
// sides carry a cookie.
func (s State) Matches(event model.Event, trustCookies bool) bool {
	if !s.awaiting {
		return false
	}

	if trustCookies && s.cookie != 0 && event.Cookie != 0 {
		return s.cookie == event.Cookie
	}

	return s.pending == event.Name
}

func (s State) String() string {
	if !s.awaiting {
		return "Idle"
	}
	return fmt.Sprintf("AwaitingArrival(%s)", s.pending)
}
