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

const tableProjects = "projects"

func parseIDParam(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperrors.ValidationError("invalid id")
	}
	return id, nil
}

type createProjectRequest struct {
	EncryptedData string     `json:"encrypted_data"`
	IV            string     `json:"iv"`
	Salt          string     `json:"salt"`
	IsDefault     bool       `json:"is_default"`
	ParentID      *uuid.UUID `json:"parent_id"`
	DisplayOrder  int        `json:"display_order"`
	IsCollapsed   bool       `json:"is_collapsed"`
}

// updateProjectRequest applies partial updates; absent fields keep their
// stored values.
type updateProjectRequest struct {
	EncryptedData *string    `json:"encrypted_data"`
	IV            *string    `json:"iv"`
	Salt          *string    `json:"salt"`
	IsDefault     *bool      `json:"is_default"`
	ParentID      *uuid.UUID `json:"parent_id"`
	DisplayOrder  *int       `json:"display_order"`
	IsCollapsed   *bool      `json:"is_collapsed"`
}

func (s *Server) handleListProjects(c echo.Context) error {
	user := currentUser(c)

	// Without parameters only root projects are returned; all=true lifts
	// the filter entirely.
	var filter domain.ProjectFilter
	if c.QueryParam("all") != "true" {
		if raw := c.QueryParam("parent_id"); raw != "" {
			parentID, err := uuid.Parse(raw)
			if err != nil {
				return apperrors.ValidationError("invalid parent_id")
			}
			filter.ParentID = &parentID
		} else {
			filter.RootsOnly = true
		}
	}

	projects, err := s.deps.Repos.Projects.List(c.Request().Context(), user.ID, filter)
	if err != nil {
		return apperrors.InternalError("failed to list projects", err)
	}
	return respond(c, http.StatusOK, toProjectResponses(projects), "")
}

func (s *Server) handleGetProject(c echo.Context) error {
	user := currentUser(c)
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	project, err := s.deps.Repos.Projects.GetByID(c.Request().Context(), user.ID, id)
	if errors.Is(err, domain.ErrProjectNotFound) {
		return apperrors.NotFoundError("project not found")
	}
	if err != nil {
		return apperrors.InternalError("failed to get project", err)
	}
	return respond(c, http.StatusOK, toProjectResponse(project), "")
}

func (s *Server) handleCreateProject(c echo.Context) error {
	user := currentUser(c)

	var req createProjectRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.EncryptedData == "" || req.IV == "" || req.Salt == "" {
		return apperrors.ValidationError("encrypted_data, iv and salt are required")
	}

	created, err := s.deps.Repos.Projects.Create(c.Request().Context(), &domain.Project{
		UserID:        user.ID,
		EncryptedData: req.EncryptedData,
		IV:            req.IV,
		Salt:          req.Salt,
		IsDefault:     req.IsDefault,
		ParentID:      req.ParentID,
		DisplayOrder:  req.DisplayOrder,
		IsCollapsed:   req.IsCollapsed,
	})
	if err != nil {
		return apperrors.InternalError("failed to create project", err)
	}

	snapshot := toProjectResponse(created)
	s.deps.Router.Broadcast(c.Request().Context(), user.ID, realtime.EventInsert, tableProjects, &created.ID, snapshot, originConnectionID(c))
	return respond(c, http.StatusCreated, snapshot, "Project created successfully")
}

func (s *Server) handleUpdateProject(c echo.Context) error {
	user := currentUser(c)
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var req updateProjectRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	ctx := c.Request().Context()
	project, err := s.deps.Repos.Projects.GetByID(ctx, user.ID, id)
	if errors.Is(err, domain.ErrProjectNotFound) {
		return apperrors.NotFoundError("project not found")
	}
	if err != nil {
		return apperrors.InternalError("failed to get project", err)
	}

	if req.EncryptedData != nil {
		project.EncryptedData = *req.EncryptedData
	}
	if req.IV != nil {
		project.IV = *req.IV
	}
	if req.Salt != nil {
		project.Salt = *req.Salt
	}
	if req.IsDefault != nil {
		project.IsDefault = *req.IsDefault
	}
	if req.ParentID != nil {
		project.ParentID = req.ParentID
	}
	if req.DisplayOrder != nil {
		project.DisplayOrder = *req.DisplayOrder
	}
	if req.IsCollapsed != nil {
		project.IsCollapsed = *req.IsCollapsed
	}

	updated, err := s.deps.Repos.Projects.Update(ctx, project)
	if errors.Is(err, domain.ErrProjectNotFound) {
		return apperrors.NotFoundError("project not found")
	}
	if err != nil {
		return apperrors.InternalError("failed to update project", err)
	}

	snapshot := toProjectResponse(updated)
	s.deps.Router.Broadcast(ctx, user.ID, realtime.EventUpdate, tableProjects, &updated.ID, snapshot, originConnectionID(c))
	return respond(c, http.StatusOK, snapshot, "Project updated successfully")
}

func (s *Server) handleDeleteProject(c echo.Context) error {
	user := currentUser(c)
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	err = s.deps.Repos.Projects.Delete(c.Request().Context(), user.ID, id)
	if errors.Is(err, domain.ErrProjectNotFound) {
		return apperrors.NotFoundError("project not found")
	}
	if err != nil {
		return apperrors.InternalError("failed to delete project", err)
	}

	s.deps.Router.Broadcast(c.Request().Context(), user.ID, realtime.EventDelete, tableProjects, &id, nil, originConnectionID(c))
	return respond(c, http.StatusOK, nil, "Project deleted successfully")
}
