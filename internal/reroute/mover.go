package reroute

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reroute/internal/logger"
	"reroute/internal/util"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// move renames from to to without ever replacing an existing destination.
// A missing source is retried per the retry policy because notifications can
// precede the entry becoming visible. The existence check and the rename are
// not atomic; a destination created in between is overwritten by rename(2).
func (r *Router) move(ctx context.Context, from, to string) (int64, error) {
	exists, err := util.Exists(to)
	if err != nil {
		return 0, fmt.Errorf("failed to stat destination: %w", err)
	}
	if exists {
		return 0, &fs.PathError{Op: "reroute", Path: to, Err: fs.ErrExist}
	}

	var size int64
	op := func() error {
		if info, err := os.Lstat(from); err == nil {
			size = info.Size()
		}

		err := os.Rename(from, to)
		if err == nil || errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return backoff.Permanent(err)
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(r.retry.Delay), r.retry.Attempts),
		ctx)

	notify := func(err error, next time.Duration) {
		logger.Log.Debug("source not there yet, retrying",
			zap.String("src", from),
			zap.Duration("delay", next),
			zap.Error(err))
	}

	if err := backoff.RetryNotifyWithTimer(op, b, notify, r.retry.Timer); err != nil {
		return 0, err
	}

	return size, nil
}
