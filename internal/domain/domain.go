package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ContextKeyUser is the request context key under which the auth middleware
// stores the resolved *User for handlers and error logging.
const ContextKeyUser = "user"

// --- Model types ---

type User struct {
	ID           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Project is a user's project node. Payload fields are opaque ciphertext;
// the server never decrypts them.
type Project struct {
	ID            uuid.UUID  `db:"id"`
	UserID        uuid.UUID  `db:"user_id"`
	EncryptedData string     `db:"encrypted_data"`
	IV            string     `db:"iv"`
	Salt          string     `db:"salt"`
	IsDefault     bool       `db:"is_default"`
	ParentID      *uuid.UUID `db:"parent_id"`
	DisplayOrder  int        `db:"display_order"`
	IsCollapsed   bool       `db:"is_collapsed"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

type CanDoItem struct {
	ID            uuid.UUID  `db:"id"`
	UserID        uuid.UUID  `db:"user_id"`
	ProjectID     *uuid.UUID `db:"project_id"`
	EncryptedData string     `db:"encrypted_data"`
	IV            string     `db:"iv"`
	Salt          string     `db:"salt"`
	DisplayOrder  int        `db:"display_order"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

type Calendar struct {
	ID            uuid.UUID `db:"id"`
	UserID        uuid.UUID `db:"user_id"`
	EncryptedData string    `db:"encrypted_data"`
	IV            string    `db:"iv"`
	Salt          string    `db:"salt"`
	IsDefault     bool      `db:"is_default"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type CalendarEvent struct {
	ID            uuid.UUID `db:"id"`
	UserID        uuid.UUID `db:"user_id"`
	EncryptedData string    `db:"encrypted_data"`
	IV            string    `db:"iv"`
	Salt          string    `db:"salt"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// UserSettings holds the single encrypted settings blob per user.
type UserSettings struct {
	UserID        uuid.UUID `db:"user_id"`
	EncryptedData string    `db:"encrypted_data"`
	IV            string    `db:"iv"`
	Salt          string    `db:"salt"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// --- Repository interfaces ---

type UserRepository interface {
	Create(ctx context.Context, email, passwordHash string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// ProjectFilter narrows List. RootsOnly selects top-level projects and is
// mutually exclusive with ParentID.
type ProjectFilter struct {
	ParentID  *uuid.UUID
	RootsOnly bool
}

type ProjectRepository interface {
	List(ctx context.Context, userID uuid.UUID, filter ProjectFilter) ([]Project, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Project, error)
	Create(ctx context.Context, project *Project) (*Project, error)
	Update(ctx context.Context, project *Project) (*Project, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type CanDoRepository interface {
	List(ctx context.Context, userID uuid.UUID, projectID *uuid.UUID) ([]CanDoItem, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*CanDoItem, error)
	Create(ctx context.Context, item *CanDoItem) (*CanDoItem, error)
	Update(ctx context.Context, item *CanDoItem) (*CanDoItem, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type CalendarRepository interface {
	List(ctx context.Context, userID uuid.UUID) ([]Calendar, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Calendar, error)
	Create(ctx context.Context, calendar *Calendar) (*Calendar, error)
	Update(ctx context.Context, calendar *Calendar) (*Calendar, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type CalendarEventRepository interface {
	List(ctx context.Context, userID uuid.UUID) ([]CalendarEvent, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*CalendarEvent, error)
	Create(ctx context.Context, event *CalendarEvent) (*CalendarEvent, error)
	Update(ctx context.Context, event *CalendarEvent) (*CalendarEvent, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type SettingsRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (*UserSettings, error)
	Upsert(ctx context.Context, settings *UserSettings) (*UserSettings, error)
}

// TokenVerifier resolves a bearer token to the user it belongs to.
// Implemented by the auth service; consumed by the HTTP middleware and
// the websocket handshake.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*User, error)
}
