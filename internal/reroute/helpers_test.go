package reroute

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"reroute/internal/config"
	"reroute/internal/model"
)

var errDrained = errors.New("source drained")

// scriptedSource replays fixed batches and then fails the read.
type scriptedSource struct {
	batches [][]model.Event
}

func (s *scriptedSource) Read() ([]model.Event, error) {
	if len(s.batches) == 0 {
		return nil, errDrained
	}

	batch := s.batches[0]
	s.batches = s.batches[1:]
	return batch, nil
}

func (s *scriptedSource) Close() error { return nil }

// instantTimer fires immediately and remembers every requested delay.
type instantTimer struct {
	starts  []time.Duration
	onStart func()
	c       chan time.Time
}

func (t *instantTimer) Start(d time.Duration) {
	t.starts = append(t.starts, d)
	if t.onStart != nil {
		t.onStart()
	}
	t.c = make(chan time.Time, 1)
	t.c <- time.Now()
}

func (t *instantTimer) Stop() {}

func (t *instantTimer) C() <-chan time.Time { return t.c }

type fixture struct {
	router  *Router
	route   config.Route
	timer   *instantTimer
	results []model.RerouteResult
	errs    []error
	moves   [][2]string
}

func acceptAll(model.Event) bool { return true }

func rejectTmp(event model.Event) bool { return filepath.Ext(event.Name) != ".tmp" }

func newFixture(t *testing.T, filter Filter, trustCookies bool) *fixture {
	t.Helper()

	f := &fixture{
		route: config.Route{Source: t.TempDir(), Dest: t.TempDir()},
		timer: &instantTimer{},
	}

	router, err := New(f.route, filter, func(err error) {
		f.errs = append(f.errs, err)
	}, Options{
		Retry: RetryPolicy{
			Attempts: DefaultRetry.Attempts,
			Delay:    DefaultRetry.Delay,
			Timer:    f.timer,
		},
		TrustCookies: trustCookies,
		Recorders: []Recorder{RecorderFunc(func(result model.RerouteResult) {
			f.results = append(f.results, result)
		})},
		OnMove: func(src, dst string) {
			f.moves = append(f.moves, [2]string{src, dst})
		},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	f.router = router
	return f
}

func (f *fixture) handle(t *testing.T, events ...model.Event) []error {
	t.Helper()

	var errs []error
	for _, event := range events {
		if err := f.router.Handle(context.Background(), event); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (f *fixture) src(name string) string { return filepath.Join(f.route.Source, name) }

func (f *fixture) dst(name string) string { return filepath.Join(f.route.Dest, name) }

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected %s to exist: %v", path, err)
	}
	return string(data)
}

func assertMissing(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Lstat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected %s to be absent, got %v", path, err)
	}
}

func created(name string) model.Event {
	return model.Event{Kind: model.EventFileCreated, Name: name}
}

func moveAway(name string, cookie uint32) model.Event {
	return model.Event{Kind: model.EventMoveAway, Name: name, Cookie: cookie}
}

func moveInto(name string, cookie uint32) model.Event {
	return model.Event{Kind: model.EventMoveInto, Name: name, Cookie: cookie}
}
