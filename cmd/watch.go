package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"reroute/internal/config"
	"reroute/internal/daemon"
	"reroute/internal/db"
	"reroute/internal/logger"
	"reroute/internal/model"
	"reroute/internal/pipeline"
	"reroute/internal/repository"
	"reroute/internal/reroute"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func printRoute(w io.Writer, route config.Route) {
	_, _ = fmt.Fprintf(w, "rerouting %q => %q\n", route.Source, route.Dest)
}

func printMove(w io.Writer, src, dst string) {
	_, _ = fmt.Fprintf(w, "%q => %q\n", src, dst)
}

func runWatch(cmd *cobra.Command, args []string) error {
	defer logger.Sync()

	var dest, source string
	if len(args) > 0 {
		dest = args[0]
	}
	if len(args) > 1 {
		source = args[1]
	}

	route, err := config.ResolveRoute(source, dest, cfg.SourceEnv)
	if err != nil {
		return err
	}

	logger.Log = logger.Log.With(zap.String("run", uuid.NewString()))

	out := cmd.OutOrStdout()
	printRoute(out, route)

	if cfg.Lock {
		lock, err := daemon.AcquireLock(route.Source)
		if err != nil {
			return err
		}
		defer func() {
			_ = lock.Unlock()
		}()
	}

	state := daemon.NewRouterState(route)
	recorders := []reroute.Recorder{state}

	var histRepo *repository.HistoryRepository
	if cfg.History.Enabled {
		if err := db.Init(cfg.History.DBPath); err != nil {
			return err
		}
		defer func() {
			_ = db.Close()
		}()

		histRepo = repository.NewHistoryRepository()
		recorders = append(recorders, reroute.RecorderFunc(func(result model.RerouteResult) {
			if err := histRepo.Save(result); err != nil {
				logger.Log.Warn("failed to save history", zap.Error(err))
			}
		}))
	}

	router, err := reroute.New(route,
		pipeline.Filter(cfg.Filter.RejectExtensions, cfg.Filter.IgnoreList),
		func(err error) {
			logger.Log.Error("reroute failed", zap.Error(err))
		},
		reroute.Options{
			Retry: reroute.RetryPolicy{
				Attempts: uint64(cfg.Retry.Attempts),
				Delay:    cfg.Retry.Delay,
			},
			TrustCookies: cfg.Correlation.TrustCookies,
			Recorders:    recorders,
			OnMove: func(src, dst string) {
				printMove(out, src, dst)
			},
		})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.DaemonAddr != "" {
		srv := daemon.NewServer(state, histRepo, cfg.DaemonAddr)
		srv.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Stop(shutdownCtx)
		}()

		go func() {
			select {
			case <-srv.StopCh():
				logger.Log.Info("stop requested via API")
				stop()
			case <-ctx.Done():
			}
		}()
	}

	err = router.Watch(ctx, cfg.Backend, cfg.BufferSize)
	if errors.Is(err, context.Canceled) {
		logger.Log.Info("shutting down")
		return nil
	}
	return err
}
