package server

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/benedikt-weyer/streamline-scheduler/internal/domain"
)

// apiResponse is the envelope for all successful API responses.
type apiResponse struct {
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

func respond(c echo.Context, status int, data any, message string) error {
	return c.JSON(status, apiResponse{Data: data, Message: message})
}

// --- Response payloads ---

type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type projectResponse struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	EncryptedData string     `json:"encrypted_data"`
	IV            string     `json:"iv"`
	Salt          string     `json:"salt"`
	IsDefault     bool       `json:"is_default"`
	ParentID      *uuid.UUID `json:"parent_id"`
	DisplayOrder  int        `json:"display_order"`
	IsCollapsed   bool       `json:"is_collapsed"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func toProjectResponse(p *domain.Project) projectResponse {
	return projectResponse{
		ID:            p.ID,
		UserID:        p.UserID,
		EncryptedData: p.EncryptedData,
		IV:            p.IV,
		Salt:          p.Salt,
		IsDefault:     p.IsDefault,
		ParentID:      p.ParentID,
		DisplayOrder:  p.DisplayOrder,
		IsCollapsed:   p.IsCollapsed,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toProjectResponses(projects []domain.Project) []projectResponse {
	out := make([]projectResponse, len(projects))
	for i := range projects {
		out[i] = toProjectResponse(&projects[i])
	}
	return out
}

type canDoItemResponse struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	ProjectID     *uuid.UUID `json:"project_id"`
	EncryptedData string     `json:"encrypted_data"`
	IV            string     `json:"iv"`
	Salt          string     `json:"salt"`
	DisplayOrder  int        `json:"display_order"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func toCanDoItemResponse(item *domain.CanDoItem) canDoItemResponse {
	return canDoItemResponse{
		ID:            item.ID,
		UserID:        item.UserID,
		ProjectID:     item.ProjectID,
		EncryptedData: item.EncryptedData,
		IV:            item.IV,
		Salt:          item.Salt,
		DisplayOrder:  item.DisplayOrder,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
}

func toCanDoItemResponses(items []domain.CanDoItem) []canDoItemResponse {
	out := make([]canDoItemResponse, len(items))
	for i := range items {
		out[i] = toCanDoItemResponse(&items[i])
	}
	return out
}

type calendarResponse struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	EncryptedData string    `json:"encrypted_data"`
	IV            string    `json:"iv"`
	Salt          string    `json:"salt"`
	IsDefault     bool      `json:"is_default"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toCalendarResponse(cal *domain.Calendar) calendarResponse {
	return calendarResponse{
		ID:            cal.ID,
		UserID:        cal.UserID,
		EncryptedData: cal.EncryptedData,
		IV:            cal.IV,
		Salt:          cal.Salt,
		IsDefault:     cal.IsDefault,
		CreatedAt:     cal.CreatedAt,
		UpdatedAt:     cal.UpdatedAt,
	}
}

func toCalendarResponses(calendars []domain.Calendar) []calendarResponse {
	out := make([]calendarResponse, len(calendars))
	for i := range calendars {
		out[i] = toCalendarResponse(&calendars[i])
	}
	return out
}

type calendarEventResponse struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	EncryptedData string    `json:"encrypted_data"`
	IV            string    `json:"iv"`
	Salt          string    `json:"salt"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toCalendarEventResponse(event *domain.CalendarEvent) calendarEventResponse {
	return calendarEventResponse{
		ID:            event.ID,
		UserID:        event.UserID,
		EncryptedData: event.EncryptedData,
		IV:            event.IV,
		Salt:          event.Salt,
		CreatedAt:     event.CreatedAt,
		UpdatedAt:     event.UpdatedAt,
	}
}

func toCalendarEventResponses(events []domain.CalendarEvent) []calendarEventResponse {
	out := make([]calendarEventResponse, len(events))
	for i := range events {
		out[i] = toCalendarEventResponse(&events[i])
	}
	return out
}

type settingsResponse struct {
	UserID        uuid.UUID `json:"user_id"`
	EncryptedData string    `json:"encrypted_data"`
	IV            string    `json:"iv"`
	Salt          string    `json:"salt"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toSettingsResponse(s *domain.UserSettings) settingsResponse {
	return settingsResponse{
		UserID:        s.UserID,
		EncryptedData: s.EncryptedData,
		IV:            s.IV,
		Salt:          s.Salt,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
