package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/benedikt-weyer/streamline-scheduler/internal/domain"
	apperrors "github.com/benedikt-weyer/streamline-scheduler/internal/errors"
	"github.com/benedikt-weyer/streamline-scheduler/internal/realtime"
)

const tableCalendars = "calendars"

type createCalendarRequest struct {
	EncryptedData string `json:"encrypted_data"`
	IV            string `json:"iv"`
	Salt          string `json:"salt"`
	IsDefault     bool   `json:"is_default"`
}

type updateCalendarRequest struct {
	EncryptedData *string `json:"encrypted_data"`
	IV            *string `json:"iv"`
	Salt          *string `json:"salt"`
	IsDefault     *bool   `json:"is_default"`
}

func (s *Server) handleListCalendars(c echo.Context) error {
	user := currentUser(c)

	calendars, err := s.deps.Repos.Calendars.List(c.Request().Context(), user.ID)
	if err != nil {
		return apperrors.InternalError("failed to list calendars", err)
	}
	return respond(c, http.StatusOK, toCalendarResponses(calendars), "")
}

func (s *Server) handleGetCalendar(c echo.Context) error {
	user := currentUser(c)
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	calendar, err := s.deps.Repos.Calendars.GetByID(c.Request().Context(), user.ID, id)
	if errors.Is(err, domain.ErrCalendarNotFound) {
		return apperrors.NotFoundError("calendar not found")
	}
	if err != nil {
		return apperrors.InternalError("failed to get calendar", err)
	}
	return respond(c, http.StatusOK, toCalendarResponse(calendar), "")
}

func (s *Server) handleCreateCalendar(c echo.Context) error {
	user := currentUser(c)

	var req createCalendarRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.EncryptedData == "" || req.IV == "" || req.Salt == "" {
		return apperrors.ValidationError("encrypted_data, iv and salt are required")
	}

	created, err := s.deps.Repos.Calendars.Create(c.Request().Context(), &domain.Calendar{
		UserID:        user.ID,
		EncryptedData: req.EncryptedData,
		IV:            req.IV,
		Salt:          req.Salt,
		IsDefault:     req.IsDefault,
	})
	if err != nil {
		return apperrors.InternalError("failed to create calendar", err)
	}

	snapshot := toCalendarResponse(created)
	s.deps.Router.Broadcast(c.Request().Context(), user.ID, realtime.EventInsert, tableCalendars, &created.ID, snapshot, originConnectionID(c))
	return respond(c, http.StatusCreated, snapshot, "Calendar created successfully")
}

func (s *Server) handleUpdateCalendar(c echo.Context) error {
	user := currentUser(c)
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var req updateCalendarRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	ctx := c.Request().Context()
	calendar, err := s.deps.Repos.Calendars.GetByID(ctx, user.ID, id)
	if errors.Is(err, domain.ErrCalendarNotFound) {
		return apperrors.NotFoundError("calendar not found")
	}
	if err != nil {
		return apperrors.InternalError("failed to get calendar", err)
	}

	if req.EncryptedData != nil {
		calendar.EncryptedData = *req.EncryptedData
	}
	if req.IV != nil {
		calendar.IV = *req.IV
	}
	if req.Salt != nil {
		calendar.Salt = *req.Salt
	}
	if req.IsDefault != nil {
		calendar.IsDefault = *req.IsDefault
	}

	updated, err := s.deps.Repos.Calendars.Update(ctx, calendar)
	if errors.Is(err, domain.ErrCalendarNotFound) {
		return apperrors.NotFoundError("calendar not found")
	}
	if err != nil {
		return apperrors.InternalError("failed to update calendar", err)
	}

	snapshot := toCalendarResponse(updated)
	s.deps.Router.Broadcast(ctx, user.ID, realtime.EventUpdate, tableCalendars, &updated.ID, snapshot, originConnectionID(c))
	return respond(c, http.StatusOK, snapshot, "Calendar updated successfully")
}

func (s *Server) handleDeleteCalendar(c echo.Context) error {
	user := currentUser(c)
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	err = s.deps.Repos.Calendars.Delete(c.Request().Context(), user.ID, id)
	if errors.Is(err, domain.ErrCalendarNotFound) {
		return apperrors.NotFoundError("calendar not found")
	}
	if err != nil {
		return apperrors.InternalError("failed to delete calendar", err)
	}

	s.deps.Router.Broadcast(c.Request().Context(), user.ID, realtime.EventDelete, tableCalendars, &id, nil, originConnectionID(c))
	return respond(c, http.StatusOK, nil, "Calendar deleted successfully")
}
