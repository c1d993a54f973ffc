package server

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/benedikt-weyer/streamline-scheduler/internal/domain"
	apperrors "github.com/benedikt-weyer/streamline-scheduler/internal/errors"
	"github.com/benedikt-weyer/streamline-scheduler/internal/realtime"
)

const tableCanDoList = "can_do_list"

type createCanDoItemRequest struct {
	ProjectID     *uuid.UUID `json:"project_id"`
	EncryptedData string     `json:"encrypted_data"`
	IV            string     `json:"iv"`
	Salt          string     `json:"salt"`
	DisplayOrder  int        `json:"display_order"`
}

type updateCanDoItemRequest struct {
	ProjectID     *uuid.UUID `json:"project_id"`
	EncryptedData *string    `json:"encrypted_data"`
	IV            *string    `json:"iv"`
	Salt          *string    `json:"salt"`
	DisplayOrder  *int       `json:"display_order"`
}

func (s *Server) handleListCanDoItems(c echo.Context) error {
	user := currentUser(c)

	var projectID *uuid.UUID
	if raw := c.QueryParam("project_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return apperrors.ValidationError("invalid project_id")
		}
		projectID = &id
	}

	items, err := s.deps.Repos.CanDo.List(c.Request().Context(), user.ID, projectID)
	if err != nil {
		return apperrors.InternalError("failed to list can-do items", err)
	}
	return respond(c, http.StatusOK, toCanDoItemResponses(items), "")
}

func (s *Server) handleGetCanDoItem(c echo.Context) error {
	user := currentUser(c)
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	item, err := s.deps.Repos.CanDo.GetByID(c.Request().Context(), user.ID, id)
	if errors.Is(err, domain.ErrCanDoItemNotFound) {
		return apperrors.NotFoundError("can-do item not found")
	}
	if err != nil {
		return apperrors.InternalError("failed to get can-do item", err)
	}
	return respond(c, http.StatusOK, toCanDoItemResponse(item), "")
}

func (s *Server) handleCreateCanDoItem(c echo.Context) error {
	user := currentUser(c)

	var req createCanDoItemRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.EncryptedData == "" || req.IV == "" || req.Salt == "" {
		return apperrors.ValidationError("encrypted_data, iv and salt are required")
	}

	created, err := s.deps.Repos.CanDo.Create(c.Request().Context(), &domain.CanDoItem{
		UserID:        user.ID,
		ProjectID:     req.ProjectID,
		EncryptedData: req.EncryptedData,
		IV:            req.IV,
		Salt:          req.Salt,
		DisplayOrder:  req.DisplayOrder,
	})
	if err != nil {
		return apperrors.InternalError("failed to create can-do item", err)
	}

	snapshot := toCanDoItemResponse(created)
	s.deps.Router.Broadcast(c.Request().Context(), user.ID, realtime.EventInsert, tableCanDoList, &created.ID, snapshot, originConnectionID(c))
	return respond(c, http.StatusCreated, snapshot, "Can-do item created successfully")
}

func (s *Server) handleUpdateCanDoItem(c echo.Context) error {
	user := currentUser(c)
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var req updateCanDoItemRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	ctx := c.Request().Context()
	item, err := s.deps.Repos.CanDo.GetByID(ctx, user.ID, id)
	if errors.Is(err, domain.ErrCanDoItemNotFound) {
		return apperrors.NotFoundError("can-do item not found")
	}
	if err != nil {
		return apperrors.InternalError("failed to get can-do item", err)
	}

	if req.ProjectID != nil {
		item.ProjectID = req.ProjectID
	}
	if req.EncryptedData != nil {
		item.EncryptedData = *req.EncryptedData
	}
	if req.IV != nil {
		item.IV = *req.IV
	}
	if req.Salt != nil {
		item.Salt = *req.Salt
	}
	if req.DisplayOrder != nil {
		item.DisplayOrder = *req.DisplayOrder
	}

	updated, err := s.deps.Repos.CanDo.Update(ctx, item)
	if errors.Is(err, domain.ErrCanDoItemNotFound) {
		return apperrors.NotFoundError("can-do item not found")
	}
	if err != nil {
		return apperrors.InternalError("failed to update can-do item", err)
	}

	snapshot := toCanDoItemResponse(updated)
	s.deps.Router.Broadcast(ctx, user.ID, realtime.EventUpdate, tableCanDoList, &updated.ID, snapshot, originConnectionID(c))
	return respond(c, http.StatusOK, snapshot, "Can-do item updated successfully")
}

func (s *Server) handleDeleteCanDoItem(c echo.Context) error {
	user := currentUser(c)
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	err = s.deps.Repos.CanDo.Delete(c.Request().Context(), user.ID, id)
	if errors.Is(err, domain.ErrCanDoItemNotFound) {
		return apperrors.NotFoundError("can-do item not found")
	}
	if err != nil {
		return apperrors.InternalError("failed to delete can-do item", err)
	}

	s.deps.Router.Broadcast(c.Request().Context(), user.ID, realtime.EventDelete, tableCanDoList, &id, nil, originConnectionID(c))
	return respond(c, http.StatusOK, nil, "Can-do item deleted successfully")
}
