// Package server implements the HTTP API using the Echo framework.
//
// Routes: auth (register/login/me), encrypted resource CRUD (projects,
// can-do list, calendars, calendar events, user settings), the /ws realtime
// endpoint, and observability (health, version, metrics).
// Handlers split by domain: handlers_auth.go, handlers_projects.go,
// handlers_cando.go, handlers_calendars.go, handlers_calendar_events.go,
// handlers_settings.go, handlers_ws.go.
package server
