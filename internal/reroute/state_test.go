package reroute

import (
	"testing"

	"reroute/internal/model"
)

func TestIdleMatchesNothing(t *testing.T) {
	s := Idle()
	if name, ok := s.Pending(); ok || name != "" {
		t.Fatalf("idle state reports pending %q", name)
	}
	if s.Matches(moveInto("a", 1), true) {
		t.Fatal("idle state must not match")
	}
	if s.String() != "Idle" {
		t.Fatalf("unexpected string: %s", s)
	}
}

func TestAwaitingArrivalMatching(t *testing.T) {
	cases := []struct {
		name         string
		state        State
		event        model.Event
		trustCookies bool
		want         bool
	}{
		{"same name", AwaitingArrival("a.txt", 10), moveInto("a.txt", 11), false, true},
		{"other name", AwaitingArrival("a.txt", 10), moveInto("b.txt", 10), false, false},
		{"cookie match wins", AwaitingArrival("a.txt", 10), moveInto("b.txt", 10), true, true},
		{"cookie mismatch wins", AwaitingArrival("a.txt", 10), moveInto("a.txt", 11), true, false},
		{"zero cookie falls back to name", AwaitingArrival("a.txt", 0), moveInto("a.txt", 11), true, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.state.Matches(tc.event, tc.trustCookies); got != tc.want {
				t.Fatalf("Matches = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAwaitingArrivalString(t *testing.T) {
	s := AwaitingArrival("movie.mkv", 3)
	if s.String() != "AwaitingArrival(movie.mkv)" {
		t.Fatalf("unexpected string: %s", s)
	}
	if name, ok := s.Pending(); !ok || name != "movie.mkv" {
		t.Fatalf("unexpected pending: %q %v", name, ok)
	}
}
