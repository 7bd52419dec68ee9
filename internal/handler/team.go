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

// TeamHandler serves team management.
type TeamHandler struct {
	teamUsecase        usecase.TeamUsecase
	transactionUsecase usecase.TransactionUsecase
	validator          *validation.Validator
	logger             *zerolog.Logger
}

// NewTeamHandler creates a new instance of TeamHandler.
func NewTeamHandler(
	teamUsecase usecase.TeamUsecase,
	transactionUsecase usecase.TransactionUsecase,
	validator *validation.Validator,
	logger *zerolog.Logger,
) *TeamHandler {
	return &TeamHandler{
		teamUsecase:        teamUsecase,
		transactionUsecase: transactionUsecase,
		validator:          validator,
		logger:             logger,
	}
}

func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req payload.CreateTeamRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if fieldErrors := h.validator.Struct(req); fieldErrors != nil {
		httputil.ValidationFailed(w, fieldErrors)
		return
	}

	team, err := h.teamUsecase.CreateTeam(r.Context(), usecase.CreateTeamParams{
		Name:      req.Name,
		CompanyID: req.CompanyID,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrCompanyNotFound) {
			httputil.ValidationFailed(w, map[string][]string{"company_id": {"company does not exist"}})
			return
		}
		h.logger.Error().Err(err).Msg("failed to create team")
		httputil.Message(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	httputil.JSON(w, http.StatusCreated, map[string]any{
		"message": "Team created successfully",
		"team":    team,
	})
}

func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	teams, err := h.teamUsecase.ListTeams(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list teams")
		httputil.Message(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{"teams": teams})
}

func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	team, err := h.teamUsecase.GetTeam(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, usecase.ErrTeamNotFound) {
			httputil.Message(w, http.StatusNotFound, "team not found")
			return
		}
		h.logger.Error().Err(err).Msg("failed to get team")
		httputil.Message(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{"team": team})
}

func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req payload.UpdateTeamRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if fieldErrors := h.validator.Struct(req); fieldErrors != nil {
		httputil.ValidationFailed(w, fieldErrors)
		return
	}

	team, err := h.teamUsecase.UpdateTeam(r.Context(), chi.URLParam(r, "id"), usecase.UpdateTeamParams{
		Name:      req.Name,
		CompanyID: req.CompanyID,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrTeamNotFound):
			httputil.Message(w, http.StatusNotFound, "team not found")
		case errors.Is(err, usecase.ErrCompanyNotFound):
			httputil.ValidationFailed(w, map[string][]string{"company_id": {"company does not exist"}})
		default:
			h.logger.Error().Err(err).Msg("failed to update team")
			httputil.Message(w, http.StatusInternalServerError, "something went wrong")
		}
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{
		"message": "Team updated successfully",
		"team":    team,
	})
}

func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	team, err := h.teamUsecase.DeleteTeam(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, usecase.ErrTeamNotFound) {
			httputil.Message(w, http.StatusNotFound, "team not found")
			return
		}
		h.logger.Error().Err(err).Msg("failed to delete team")
		httputil.Message(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{
		"message": "Team deleted successfully",
		"team":    team,
	})
}

// Transactions lists the transactions attributed to one team.
func (h *TeamHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	transactions, err := h.transactionUsecase.TeamTransactions(r.Context(), chi.URLParam(r, "id"), limit, offset)
	if err != nil {
		if errors.Is(err, usecase.ErrTeamNotFound) {
			httputil.Message(w, http.StatusNotFound, "team not found")
			return
		}
		h.logger.Error().Err(err).Msg("failed to list team transactions")
		httputil.Message(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{"transactions": transactions})
}
