package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/benedikt-weyer/streamline-scheduler/internal/domain"
	apperrors "github.com/benedikt-weyer/streamline-scheduler/internal/errors"
	"github.com/benedikt-weyer/streamline-scheduler/internal/realtime"
)

const tableCalendarEvents = "calendar_events"

type createCalendarEventRequest struct {
	EncryptedData string `json:"encrypted_data"`
	IV            string `json:"iv"`
	Salt          string `json:"salt"`
}

type updateCalendarEventRequest struct {
	EncryptedData *string `json:"encrypted_data"`
	IV            *string `json:"iv"`
	Salt          *string `json:"salt"`
}

func (s *Server) handleListCalendarEvents(c echo.Context) error {
	user := currentUser(c)

	events, err := s.deps.Repos.CalendarEvents.List(c.Request().Context(), user.ID)
	if err != nil {
		return apperrors.InternalError("failed to list calendar events", err)
	}
	return respond(c, http.StatusOK, toCalendarEventResponses(events), "")
}

func (s *Server) handleGetCalendarEvent(c echo.Context) error {
	user := currentUser(c)
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	event, err := s.deps.Repos.CalendarEvents.GetByID(c.Request().Context(), user.ID, id)
	if errors.Is(err, domain.ErrCalendarEventNotFound) {
		return apperrors.NotFoundError("calendar event not found")
	}
	if err != nil {
		return apperrors.InternalError("failed to get calendar event", err)
	}
	return respond(c, http.StatusOK, toCalendarEventResponse(event), "")
}

func (s *Server) handleCreateCalendarEvent(c echo.Context) error {
	user := currentUser(c)

	var req createCalendarEventRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.EncryptedData == "" || req.IV == "" || req.Salt == "" {
		return apperrors.ValidationError("encrypted_data, iv and salt are required")
	}

	created, err := s.deps.Repos.CalendarEvents.Create(c.Request().Context(), &domain.CalendarEvent{
		UserID:        user.ID,
		EncryptedData: req.EncryptedData,
		IV:            req.IV,
		Salt:          req.Salt,
	})
	if err != nil {
		return apperrors.InternalError("failed to create calendar event", err)
	}

	snapshot := toCalendarEventResponse(created)
	s.deps.Router.Broadcast(c.Request().Context(), user.ID, realtime.EventInsert, tableCalendarEvents, &created.ID, snapshot, originConnectionID(c))
	return respond(c, http.StatusCreated, snapshot, "Calendar event created successfully")
}

func (s *Server) handleUpdateCalendarEvent(c echo.Context) error {
	user := currentUser(c)
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var req updateCalendarEventRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	ctx := c.Request().Context()
	event, err := s.deps.Repos.CalendarEvents.GetByID(ctx, user.ID, id)
	if errors.Is(err, domain.ErrCalendarEventNotFound) {
		return apperrors.NotFoundError("calendar event not found")
	}
	if err != nil {
		return apperrors.InternalError("failed to get calendar event", err)
	}

	if req.EncryptedData != nil {
		event.EncryptedData = *req.EncryptedData
	}
	if req.IV != nil {
		event.IV = *req.IV
	}
	if req.Salt != nil {
		event.Salt = *req.Salt
	}

	updated, err := s.deps.Repos.CalendarEvents.Update(ctx, event)
	if errors.Is(err, domain.ErrCalendarEventNotFound) {
		return apperrors.NotFoundError("calendar event not found")
	}
	if err != nil {
		return apperrors.InternalError("failed to update calendar event", err)
	}

	snapshot := toCalendarEventResponse(updated)
	s.deps.Router.Broadcast(ctx, user.ID, realtime.EventUpdate, tableCalendarEvents, &updated.ID, snapshot, originConnectionID(c))
	return respond(c, http.StatusOK, snapshot, "Calendar event updated successfully")
}

func (s *Server) handleDeleteCalendarEvent(c echo.Context) error {
	user := currentUser(c)
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	err = s.deps.Repos.CalendarEvents.Delete(c.Request().Context(), user.ID, id)
	if errors.Is(err, domain.ErrCalendarEventNotFound) {
		return apperrors.NotFoundError("calendar event not found")
	}
	if err != nil {
		return apperrors.InternalError("failed to delete calendar event", err)
	}

	s.deps.Router.Broadcast(c.Request().Context(), user.ID, realtime.EventDelete, tableCalendarEvents, &id, nil, originConnectionID(c))
	return respond(c, http.StatusOK, nil, "Calendar event deleted successfully")
}
