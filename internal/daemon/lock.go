package daemon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// ErrAlreadyWatched means another process holds the lock for the same source.
var ErrAlreadyWatched = errors.New("source directory is already watched by another reroute process")

// LockPath derives a stable lock file name for source. The lock lives outside
// the source directory so taking it does not itself produce an event.
func LockPath(source string) string {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+source))
	return filepath.Join(os.TempDir(), "reroute-"+id.String()+".lock")
}

// AcquireLock takes the per-source lock without blocking.
func AcquireLock(source string) (*flock.Flock, error) {
	lock := flock.New(LockPath(source))

	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrAlreadyWatched
	}

	return lock, nil
}
