package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/backoffice-api/internal/payload"
	"github.com/vasapolrittideah/backoffice-api/internal/usecase"
	"github.com/vasapolrittideah/backoffice-api/shared/httputil"
	"github.com/vasapolrittideah/backoffice-api/shared/validation"
)

// AccessHandler serves role and permission administration.
type AccessHandler struct {
	accessUsecase usecase.AccessUsecase
	validator     *validation.Validator
	logger        *zerolog.Logger
}

// NewAccessHandler creates a new instance of AccessHandler.
func NewAccessHandler(
	accessUsecase usecase.AccessUsecase,
	validator *validation.Validator,
	logger *zerolog.Logger,
) *AccessHandler {
	return &AccessHandler{
		accessUsecase: accessUsecase,
		validator:     validator,
		logger:        logger,
	}
}

func (h *AccessHandler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var req payload.CreateRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if fieldErrors := h.validator.Struct(req); fieldErrors != nil {
		httputil.ValidationFailed(w, fieldErrors)
		return
	}

	role, err := h.accessUsecase.CreateRole(r.Context(), req.Name, req.Permissions)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrRoleExists):
			httputil.Message(w, http.StatusConflict, "role already exists")
		case errors.Is(err, usecase.ErrUnknownPermission):
			httputil.ValidationFailed(w, map[string][]string{"permissions": {"one or more permissions do not exist"}})
		default:
			h.logger.Error().Err(err).Msg("failed to create role")
			httputil.Message(w, http.StatusInternalServerError, "something went wrong")
		}
		return
	}

	httputil.JSON(w, http.StatusCreated, map[string]any{
		"message": "Role created successfully",
		"role":    role,
	})
}

func (h *AccessHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.accessUsecase.ListRoles(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list roles")
		httputil.Message(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{"roles": roles})
}

func (h *AccessHandler) SetRolePermissions(w http.ResponseWriter, r *http.Request) {
	var req payload.SetRolePermissionsRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if fieldErrors := h.validator.Struct(req); fieldErrors != nil {
		httputil.ValidationFailed(w, fieldErrors)
		return
	}

	role, err := h.accessUsecase.SetRolePermissions(r.Context(), chi.URLParam(r, "name"), req.Permissions)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrRoleNotFound):
			httputil.Message(w, http.StatusNotFound, "role not found")
		case errors.Is(err, usecase.ErrUnknownPermission):
			httputil.ValidationFailed(w, map[string][]string{"permissions": {"one or more permissions do not exist"}})
		default:
			h.logger.Error().Err(err).Msg("failed to set role permissions")
			httputil.Message(w, http.StatusInternalServerError, "something went wrong")
		}
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{
		"message": "Role permissions updated successfully",
		"role":    role,
	})
}

func (h *AccessHandler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	permissions, err := h.accessUsecase.ListPermissions(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list permissions")
		httputil.Message(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{"permissions": permissions})
}

func (h *AccessHandler) GrantPermissions(w http.ResponseWriter, r *http.Request) {
	var req payload.PermissionsRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if fieldErrors := h.validator.Struct(req); fieldErrors != nil {
		httputil.ValidationFailed(w, fieldErrors)
		return
	}

	user, err := h.accessUsecase.GrantPermissions(r.Context(), chi.URLParam(r, "id"), req.Permissions)
	if err != nil {
		h.writeGrantError(w, err, "failed to grant permissions")
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{
		"message": "Permissions granted successfully",
		"user":    user,
	})
}

func (h *AccessHandler) RevokePermissions(w http.ResponseWriter, r *http.Request) {
	var req payload.PermissionsRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if fieldErrors := h.validator.Struct(req); fieldErrors != nil {
		httputil.ValidationFailed(w, fieldErrors)
		return
	}

	user, err := h.accessUsecase.RevokePermissions(r.Context(), chi.URLParam(r, "id"), req.Permissions)
	if err != nil {
		h.writeGrantError(w, err, "failed to revoke permissions")
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{
		"message": "Permissions revoked successfully",
		"user":    user,
	})
}

func (h *AccessHandler) AssignRole(w http.ResponseWriter, r *http.Request) {
	var req payload.RoleRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if fieldErrors := h.validator.Struct(req); fieldErrors != nil {
		httputil.ValidationFailed(w, fieldErrors)
		return
	}

	user, err := h.accessUsecase.AssignRole(r.Context(), chi.URLParam(r, "id"), req.Role)
	if err != nil {
		h.writeGrantError(w, err, "failed to assign role")
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{
		"message": "Role assigned successfully",
		"user":    user,
	})
}

func (h *AccessHandler) RemoveRole(w http.ResponseWriter, r *http.Request) {
	user, err := h.accessUsecase.RemoveRole(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "role"))
	if err != nil {
		h.writeGrantError(w, err, "failed to remove role")
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{
		"message": "Role removed successfully",
		"user":    user,
	})
}

func (h *AccessHandler) writeGrantError(w http.ResponseWriter, err error, logMessage string) {
	switch {
	case errors.Is(err, usecase.ErrUserNotFound):
		httputil.Message(w, http.StatusNotFound, "user not found")
	case errors.Is(err, usecase.ErrRoleNotFound):
		httputil.Message(w, http.StatusNotFound, "role not found")
	case errors.Is(err, usecase.ErrUnknownPermission):
		httputil.ValidationFailed(w, map[string][]string{"permissions": {"one or more permissions do not exist"}})
	default:
		h.logger.Error().Err(err).Msg(logMessage)
		httputil.Message(w, http.StatusInternalServerError, "something went wrong")
	}
}
