package watch

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"reroute/internal/model"
)

func TestNotifyFileAndDirectoryCreate(t *testing.T) {
	dir := t.TempDir()
	src, err := NewNotify(dir, 16)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	if err := os.WriteFile(filepath.Join(dir, "invoice.pdf"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "photos"), 0o755); err != nil {
		t.Fatal(err)
	}

	seen := map[string]model.Event{}
	for len(seen) < 2 {
		for _, ev := range readAtLeast(t, src, 1) {
			if ev.Kind == model.EventFileCreated || ev.Kind == model.EventDirCreated {
				seen[ev.Name] = ev
			}
		}
	}

	if ev := seen["invoice.pdf"]; ev.Kind != model.EventFileCreated || ev.IsDir {
		t.Fatalf("unexpected file event: %+v", ev)
	}
	if ev := seen["photos"]; ev.Kind != model.EventDirCreated || !ev.IsDir {
		t.Fatalf("unexpected directory event: %+v", ev)
	}
}

func TestNotifyRenameReportsMoveAway(t *testing.T) {
	dir := t.TempDir()
	from := filepath.Join(dir, "draft.txt")
	if err := os.WriteFile(from, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	src, err := NewNotify(dir, 16)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	if err := os.Rename(from, filepath.Join(t.TempDir(), "draft.txt")); err != nil {
		t.Fatal(err)
	}

	events := readAtLeast(t, src, 1)
	if events[0].Kind != model.EventMoveAway || events[0].Name != "draft.txt" {
		t.Fatalf("unexpected event: %+v", events[0])
	}
}

func TestNotifyRejectsMissingDirectory(t *testing.T) {
	if _, err := NewNotify(filepath.Join(t.TempDir(), "missing"), 16); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestNotifyCloseUnblocksRead(t *testing.T) {
	src, err := NewNotify(t.TempDir(), 16)
	if err != nil {
		t.Fatal(err)
	}

	errCh := make(chan error, 1)
	go func() {
		_, err := src.Read()
		errCh <- err
	}()

	time.Sleep(50 * time.Millisecond)
	_ = src.Close()

	select {
	case err := <-errCh:
		if !errors.Is(err, ErrClosed) {
			t.Fatalf("expected ErrClosed, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Read did not return after Close")
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open("kqueue", t.TempDir(), 16); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
