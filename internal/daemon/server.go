package daemon

import (
	"context"
	"errors"
	"net/http"
	"reroute/internal/logger"
	"reroute/internal/repository"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Server exposes the running router's counters and history over HTTP.
// histRepo is nil when history is disabled.
type Server struct {
	echo     *echo.Echo
	state    *RouterState
	histRepo *repository.HistoryRepository
	addr     string
	stopCh   chan struct{}
}

func NewServer(state *RouterState, histRepo *repository.HistoryRepository, addr string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:     e,
		state:    state,
		histRepo: histRepo,
		addr:     addr,
		stopCh:   make(chan struct{}, 1),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/status", s.handleStatus)
	s.echo.POST("/stop", s.handleStop)
	s.echo.GET("/history", s.handleHistory)
}

func (s *Server) Start() {
	go func() {
		logger.Log.Info("status server started",
			zap.String("addr", s.addr))

		if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("status server error", zap.Error(err))
		}
	}()
}

func (s *Server) Stop(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) StopCh() <-chan struct{} {
	return s.stopCh
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) handleStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, s.state.Snapshot())
}

func (s *Server) handleStop(c echo.Context) error {
	select {
	case s.stopCh <- struct{}{}:
	default:
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "stopping"})
}

func (s *Server) handleHistory(c echo.Context) error {
	if s.histRepo == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "history is disabled"})
	}

	n := 20
	if nStr := c.QueryParam("n"); nStr != "" {
		if parsed, err := strconv.Atoi(nStr); err == nil && parsed > 0 {
			n = parsed
		}
	}

	histories, err := s.histRepo.GetRecent(n)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, histories)
}
