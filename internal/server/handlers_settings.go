package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/benedikt-weyer/streamline-scheduler/internal/domain"
	apperrors "github.com/benedikt-weyer/streamline-scheduler/internal/errors"
	"github.com/benedikt-weyer/streamline-scheduler/internal/realtime"
)

const tableUserSettings = "user_settings"

type upsertSettingsRequest struct {
	EncryptedData string `json:"encrypted_data"`
	IV            string `json:"iv"`
	Salt          string `json:"salt"`
}

func (s *Server) handleGetSettings(c echo.Context) error {
	user := currentUser(c)

	settings, err := s.deps.Repos.Settings.Get(c.Request().Context(), user.ID)
	if errors.Is(err, domain.ErrSettingsNotFound) {
		return apperrors.NotFoundError("user settings not found")
	}
	if err != nil {
		return apperrors.InternalError("failed to get user settings", err)
	}
	return respond(c, http.StatusOK, toSettingsResponse(settings), "")
}

func (s *Server) handleUpsertSettings(c echo.Context) error {
	user := currentUser(c)

	var req upsertSettingsRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.EncryptedData == "" || req.IV == "" || req.Salt == "" {
		return apperrors.ValidationError("encrypted_data, iv and salt are required")
	}

	saved, err := s.deps.Repos.Settings.Upsert(c.Request().Context(), &domain.UserSettings{
		UserID:        user.ID,
		EncryptedData: req.EncryptedData,
		IV:            req.IV,
		Salt:          req.Salt,
	})
	if err != nil {
		return apperrors.InternalError("failed to save user settings", err)
	}

	snapshot := toSettingsResponse(saved)
	s.deps.Router.Broadcast(c.Request().Context(), user.ID, realtime.EventUpdate, tableUserSettings, &user.ID, snapshot, originConnectionID(c))
	return respond(c, http.StatusOK, snapshot, "Settings saved successfully")
}
