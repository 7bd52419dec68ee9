package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/backoffice-api/internal/payload"
	"github.com/vasapolrittideah/backoffice-api/internal/usecase"
	"github.com/vasapolrittideah/backoffice-api/shared/httputil"
	"github.com/vasapolrittideah/backoffice-api/shared/validation"
)

// UserHandler serves back-office user management.
type UserHandler struct {
	userUsecase usecase.UserUsecase
	validator   *validation.Validator
	logger      *zerolog.Logger
}

// NewUserHandler creates a new instance of UserHandler.
func NewUserHandler(
	userUsecase usecase.UserUsecase,
	validator *validation.Validator,
	logger *zerolog.Logger,
) *UserHandler {
	return &UserHandler{
		userUsecase: userUsecase,
		validator:   validator,
		logger:      logger,
	}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	users, err := h.userUsecase.ListUsers(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list users")
		httputil.Message(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{"users": users})
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.userUsecase.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			httputil.Message(w, http.StatusNotFound, "user not found")
			return
		}
		h.logger.Error().Err(err).Msg("failed to get user")
		httputil.Message(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{"user": user})
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req payload.UpdateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if fieldErrors := h.validator.Struct(req); fieldErrors != nil {
		httputil.ValidationFailed(w, fieldErrors)
		return
	}

	user, err := h.userUsecase.UpdateUser(r.Context(), chi.URLParam(r, "id"), usecase.UpdateUserParams{
		Name:       req.Name,
		Surname:    req.Surname,
		Email:      req.Email,
		Password:   req.Password,
		NationalID: req.NationalID,
		BirthYear:  req.BirthYear,
		CompanyID:  req.CompanyID,
		TeamID:     req.TeamID,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUserNotFound):
			httputil.Message(w, http.StatusNotFound, "user not found")
		case errors.Is(err, usecase.ErrCompanyNotFound):
			httputil.ValidationFailed(w, map[string][]string{"company_id": {"company does not exist"}})
		case errors.Is(err, usecase.ErrTeamNotFound):
			httputil.ValidationFailed(w, map[string][]string{"team_id": {"team does not exist"}})
		case errors.Is(err, usecase.ErrTeamCompanyMismatch):
			httputil.ValidationFailed(w, map[string][]string{"team_id": {"team does not belong to the given company"}})
		case errors.Is(err, usecase.ErrEmailTaken):
			httputil.Message(w, http.StatusConflict, "email is already registered")
		default:
			h.logger.Error().Err(err).Msg("failed to update user")
			httputil.Message(w, http.StatusInternalServerError, "something went wrong")
		}
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{
		"message": "User updated successfully",
		"user":    user,
	})
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := h.userUsecase.DeleteUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			httputil.Message(w, http.StatusNotFound, "user not found")
			return
		}
		h.logger.Error().Err(err).Msg("failed to delete user")
		httputil.Message(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{
		"message": "User deleted successfully",
		"user":    user,
	})
}

// Export streams every user as a CSV attachment.
func (h *UserHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.userUsecase.ExportUsersCSV(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to export users")
		httputil.Message(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	filename := usecase.ExportFilename(time.Now())
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
