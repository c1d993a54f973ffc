package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/benedikt-weyer/streamline-scheduler/internal/auth"
	"github.com/benedikt-weyer/streamline-scheduler/internal/domain"
	apperrors "github.com/benedikt-weyer/streamline-scheduler/internal/errors"
)

const minPasswordLength = 8

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	User        userResponse `json:"user"`
}

func toTokenResponse(pair *auth.TokenPair) tokenResponse {
	return tokenResponse{
		AccessToken: pair.AccessToken,
		TokenType:   pair.TokenType,
		ExpiresIn:   pair.ExpiresIn,
		User:        toUserResponse(pair.User),
	}
}

func (s *Server) handleRegister(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return apperrors.ValidationError("a valid email is required")
	}
	if len(req.Password) < minPasswordLength {
		return apperrors.ValidationError("password must be at least 8 characters")
	}

	pair, err := s.deps.Auth.Register(c.Request().Context(), req.Email, req.Password)
	if errors.Is(err, domain.ErrEmailTaken) {
		return apperrors.ConflictError("email is already registered")
	}
	if err != nil {
		return apperrors.InternalError("failed to register user", err)
	}

	return respond(c, http.StatusCreated, toTokenResponse(pair), "User registered successfully")
}

func (s *Server) handleLogin(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		return apperrors.ValidationError("email and password are required")
	}

	pair, err := s.deps.Auth.Login(c.Request().Context(), req.Email, req.Password)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		return apperrors.UnauthorizedError("invalid email or password")
	}
	if err != nil {
		return apperrors.InternalError("failed to log in", err)
	}

	return respond(c, http.StatusOK, toTokenResponse(pair), "Login successful")
}

func (s *Server) handleMe(c echo.Context) error {
	return respond(c, http.StatusOK, toUserResponse(currentUser(c)), "")
}
