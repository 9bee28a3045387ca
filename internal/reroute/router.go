// Package reroute correlates directory notifications into single "file
// arrived" signals and moves each accepted file into the destination.
package reroute

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"reroute/internal/config"
	"reroute/internal/logger"
	"reroute/internal/model"
	"reroute/internal/watch"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// ErrMissingName is returned when an event that must name an entry does not.
var ErrMissingName = errors.New("event has no entry name")

// Filter decides whether the entry named by an event should be rerouted.
type Filter func(model.Event) bool

// ErrorHandler receives errors from handling a single event.
type ErrorHandler func(error)

// Recorder observes every reroute decision, including filtered ones.
type Recorder interface {
	Record(result model.RerouteResult)
}

type RecorderFunc func(result model.RerouteResult)

func (f RecorderFunc) Record(result model.RerouteResult) { f(result) }

// RetryPolicy bounds how often a move is retried when its source is not
// there yet. Timer is optional and exists so tests do not sleep.
type RetryPolicy struct {
	Attempts uint64
	Delay    time.Duration
	Timer    backoff.Timer
}

var DefaultRetry = RetryPolicy{Attempts: 1, Delay: time.Second}

type Options struct {
	Retry        RetryPolicy
	TrustCookies bool
	Recorders    []Recorder
	// OnMove is called after each successful move.
	OnMove func(src, dst string)
}

// Router owns the correlator state and is driven by a single goroutine.
type Router struct {
	route        config.Route
	filter       Filter
	onError      ErrorHandler
	retry        RetryPolicy
	trustCookies bool
	recorders    []Recorder
	onMove       func(src, dst string)
	state        State
}

// New validates the route and returns an idle router. Invalid directories
// are fatal and are reported before any subscription exists.
func New(route config.Route, filter Filter, onError ErrorHandler, opts Options) (*Router, error) {
	if filter == nil {
		return nil, errors.New("reroute requires a filter")
	}
	if onError == nil {
		return nil, errors.New("reroute requires an error handler")
	}

	if err := route.Validate(); err != nil {
		return nil, err
	}

	return &Router{
		route:        route,
		filter:       filter,
		onError:      onError,
		retry:        opts.Retry,
		trustCookies: opts.TrustCookies,
		recorders:    opts.Recorders,
		onMove:       opts.OnMove,
		state:        Idle(),
	}, nil
}

func (r *Router) State() State {
	return r.state
}

// Watch subscribes to the route's source with the given backend and runs
// the event loop on it.
func (r *Router) Watch(ctx context.Context, backend string, bufferSize int) error {
	src, err := watch.Open(backend, r.route.Source, bufferSize)
	if err != nil {
		return err
	}

	defer func() {
		_ = src.Close()
	}()

	logger.Log.Info("watching",
		zap.String("backend", backend),
		zap.String("src", r.route.Source),
		zap.String("dst", r.route.Dest))

	return r.Run(ctx, src)
}

// Run processes batches from src in arrival order until reading fails or
// ctx is cancelled. Per-event errors go to the error handler and never stop
// the loop.
func (r *Router) Run(ctx context.Context, src watch.Source) error {
	stop := context.AfterFunc(ctx, func() {
		_ = src.Close()
	})
	defer stop()

	for {
		events, err := src.Read()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("failed to read events: %w", err)
		}

		for _, event := range events {
			if err := r.Handle(ctx, event); err != nil {
				if interrupted(ctx, err) {
					return ctx.Err()
				}
				r.onError(err)
			}
		}
	}
}

// Handle applies one event to the correlator and reroutes when it signals
// an arrival.
func (r *Router) Handle(ctx context.Context, event model.Event) error {
	if event.IsDir || event.Kind == model.EventDirCreated {
		return nil
	}

	switch event.Kind {
	case model.EventFileCreated:
		return r.reroute(ctx, event, model.TriggerCreated)

	case model.EventMoveAway:
		r.state = AwaitingArrival(event.Name, event.Cookie)
		logger.Log.Debug("departure pending",
			zap.String("name", event.Name),
			zap.Uint32("cookie", event.Cookie))
		return nil

	case model.EventMoveInto:
		trigger := model.TriggerArrival
		if r.state.Matches(event, r.trustCookies) {
			trigger = model.TriggerRename
		}

		r.state = Idle()
		return r.reroute(ctx, event, trigger)
	}

	return nil
}

func (r *Router) reroute(ctx context.Context, event model.Event, trigger model.Trigger) error {
	if event.Name == "" {
		return fmt.Errorf("%s: %w", event.Kind, ErrMissingName)
	}

	result := model.RerouteResult{
		Event:   event,
		Trigger: trigger,
		SrcPath: filepath.Join(r.route.Source, event.Name),
		DstPath: filepath.Join(r.route.Dest, event.Name),
	}

	if !r.filter(event) {
		r.state = AwaitingArrival(event.Name, event.Cookie)
		result.Skipped = true
		r.record(result)

		logger.Log.Debug("filtered",
			zap.String("name", event.Name),
			zap.String("trigger", string(trigger)))
		return nil
	}

	r.state = Idle()
	result.Size, result.Err = r.move(ctx, result.SrcPath, result.DstPath)
	if interrupted(ctx, result.Err) {
		// Shutdown during the retry wait; the file stays where it is.
		return result.Err
	}
	r.record(result)

	if result.Err != nil {
		return result.Err
	}

	logger.Log.Info("rerouted",
		zap.String("trigger", string(trigger)),
		zap.String("src", result.SrcPath),
		zap.String("dst", result.DstPath))

	if r.onMove != nil {
		r.onMove(result.SrcPath, result.DstPath)
	}

	return nil
}

// interrupted reports whether err is ctx's own cancellation rather than a
// failed move.
func interrupted(ctx context.Context, err error) bool {
	return err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err())
}

func (r *Router) record(result model.RerouteResult) {
	for _, rec := range r.recorders {
		rec.Record(result)
	}
}
