package server

import (
	"github.com/labstack/echo/v4"

	"github.com/benedikt-weyer/streamline-scheduler/internal/metrics"
)

func (s *Server) registerRoutes() {
	// Observability endpoints (no auth required)
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/version", s.handleVersion)
	s.echo.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	api := s.echo.Group("/api")

	// Auth routes (rate limited, no auth required)
	authGroup := api.Group("/auth", authRateLimiter())
	authGroup.POST("/register", s.handleRegister)
	authGroup.POST("/login", s.handleLogin)
	authGroup.GET("/me", s.handleMe, s.requireAuth)

	// Resource routes (authenticated)
	projects := api.Group("/projects", s.requireAuth)
	projects.GET("", s.handleListProjects)
	projects.POST("", s.handleCreateProject)
	projects.GET("/:id", s.handleGetProject)
	projects.PUT("/:id", s.handleUpdateProject)
	projects.DELETE("/:id", s.handleDeleteProject)

	canDo := api.Group("/can-do-list", s.requireAuth)
	canDo.GET("", s.handleListCanDoItems)
	canDo.POST("", s.handleCreateCanDoItem)
	canDo.GET("/:id", s.handleGetCanDoItem)
	canDo.PUT("/:id", s.handleUpdateCanDoItem)
	canDo.DELETE("/:id", s.handleDeleteCanDoItem)

	calendars := api.Group("/calendars", s.requireAuth)
	calendars.GET("", s.handleListCalendars)
	calendars.POST("", s.handleCreateCalendar)
	calendars.GET("/:id", s.handleGetCalendar)
	calendars.PUT("/:id", s.handleUpdateCalendar)
	calendars.DELETE("/:id", s.handleDeleteCalendar)

	events := api.Group("/calendar-events", s.requireAuth)
	events.GET("", s.handleListCalendarEvents)
	events.POST("", s.handleCreateCalendarEvent)
	events.GET("/:id", s.handleGetCalendarEvent)
	events.PUT("/:id", s.handleUpdateCalendarEvent)
	events.DELETE("/:id", s.handleDeleteCalendarEvent)

	settings := api.Group("/user-settings", s.requireAuth)
	settings.GET("", s.handleGetSettings)
	settings.PUT("", s.handleUpsertSettings)

	// WebSocket endpoint. Auth happens in-band via the handshake frame,
	// not via the Authorization header.
	s.echo.GET("/ws", s.handleWebSocket)
}
