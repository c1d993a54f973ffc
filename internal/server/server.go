package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/benedikt-weyer/streamline-scheduler/internal/auth"
	"github.com/benedikt-weyer/streamline-scheduler/internal/config"
	"github.com/benedikt-weyer/streamline-scheduler/internal/domain"
	apperrors "github.com/benedikt-weyer/streamline-scheduler/internal/errors"
	"github.com/benedikt-weyer/streamline-scheduler/internal/metrics"
	"github.com/benedikt-weyer/streamline-scheduler/internal/realtime"
)

// Per-IP rate limits for new websocket connections.
const (
	wsConnectionsPerSecond = 10.0
	wsConnectionBurst      = 20
)

// Repositories bundles the persistence interfaces the handlers use.
type Repositories struct {
	Projects       domain.ProjectRepository
	CanDo          domain.CanDoRepository
	Calendars      domain.CalendarRepository
	CalendarEvents domain.CalendarEventRepository
	Settings       domain.SettingsRepository
}

// Dependencies carries everything NewServer needs beyond config.
type Dependencies struct {
	Auth      *auth.Service
	Repos     Repositories
	Registry  *realtime.Registry
	Router    *realtime.Router
	WSMetrics *metrics.WebSocketMetrics
	Clock     clockwork.Clock

	// Health checks. RedisPing is nil when the relay is disabled.
	PostgresPing func(context.Context) error
	RedisPing    func(context.Context) error
}

type Server struct {
	echo      *echo.Echo
	config    *config.Config
	deps      Dependencies
	wsLimiter *ConnectionRateLimiter
	startTime time.Time
}

func NewServer(cfg *config.Config, deps Dependencies) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(apperrors.Middleware())

	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}

	srv := &Server{
		echo:      e,
		config:    cfg,
		deps:      deps,
		wsLimiter: NewConnectionRateLimiter(wsConnectionsPerSecond, wsConnectionBurst),
		startTime: time.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
