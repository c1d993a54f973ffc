package server

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/benedikt-weyer/streamline-scheduler/internal/realtime"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect from arbitrary origins; auth happens in-band
	// via the handshake frame, not via cookies, so origin checks add nothing.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (s *Server) handleWebSocket(c echo.Context) error {
	if !s.wsLimiter.Allow(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many connection attempts")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Warn("Failed to upgrade websocket", "remote", c.RealIP(), "error", err)
		return nil
	}

	session := realtime.NewSession(conn, s.deps.Auth, s.deps.Registry, s.deps.Clock, s.deps.WSMetrics)
	session.Run(c.Request().Context())
	return nil
}
