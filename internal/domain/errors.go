package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")

	ErrProjectNotFound       = errors.New("project not found")
	ErrCanDoItemNotFound     = errors.New("can-do item not found")
	ErrCalendarNotFound      = errors.New("calendar not found")
	ErrCalendarEventNotFound = errors.New("calendar event not found")
	ErrSettingsNotFound      = errors.New("user settings not found")
)
