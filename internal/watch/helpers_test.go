package watch

import (
	"testing"
	"time"

	"reroute/internal/model"
)

// readAtLeast collects events until n have arrived or the deadline passes.
func readAtLeast(t *testing.T, src Source, n int) []model.Event {
	t.Helper()

	type result struct {
		events []model.Event
		err    error
	}

	done := make(chan result, 1)
	go func() {
		var all []model.Event
		for len(all) < n {
			batch, err := src.Read()
			if err != nil {
				done <- result{all, err}
				return
			}
			all = append(all, batch...)
		}
		done <- result{all, nil}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			t.Fatalf("read failed after %d events: %v", len(r.events), r.err)
		}
		return r.events
	case <-time.After(5 * time.Second):
		_ = src.Close()
		t.Fatalf("timed out waiting for %d events", n)
		return nil
	}
}
