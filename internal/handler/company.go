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

// CompanyHandler serves company management and statistics.
type CompanyHandler struct {
	companyUsecase usecase.CompanyUsecase
	validator      *validation.Validator
	logger         *zerolog.Logger
}

// NewCompanyHandler creates a new instance of CompanyHandler.
func NewCompanyHandler(
	companyUsecase usecase.CompanyUsecase,
	validator *validation.Validator,
	logger *zerolog.Logger,
) *CompanyHandler {
	return &CompanyHandler{
		companyUsecase: companyUsecase,
		validator:      validator,
		logger:         logger,
	}
}

func (h *CompanyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req payload.CreateCompanyRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if fieldErrors := h.validator.Struct(req); fieldErrors != nil {
		httputil.ValidationFailed(w, fieldErrors)
		return
	}

	company, err := h.companyUsecase.CreateCompany(r.Context(), usecase.CreateCompanyParams{
		Name:    req.Name,
		Balance: req.Balance,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to create company")
		httputil.Message(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	httputil.JSON(w, http.StatusCreated, map[string]any{
		"message": "Company created successfully",
		"company": company,
	})
}

func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	companies, err := h.companyUsecase.ListCompanies(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list companies")
		httputil.Message(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{"companies": companies})
}

func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	company, err := h.companyUsecase.GetCompany(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, usecase.ErrCompanyNotFound) {
			httputil.Message(w, http.StatusNotFound, "company not found")
			return
		}
		h.logger.Error().Err(err).Msg("failed to get company")
		httputil.Message(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{"company": company})
}

func (h *CompanyHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req payload.UpdateCompanyRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if fieldErrors := h.validator.Struct(req); fieldErrors != nil {
		httputil.ValidationFailed(w, fieldErrors)
		return
	}

	company, err := h.companyUsecase.UpdateCompany(r.Context(), chi.URLParam(r, "id"), usecase.UpdateCompanyParams{
		Name:    req.Name,
		Balance: req.Balance,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrCompanyNotFound) {
			httputil.Message(w, http.StatusNotFound, "company not found")
			return
		}
		h.logger.Error().Err(err).Msg("failed to update company")
		httputil.Message(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{
		"message": "Company updated successfully",
		"company": company,
	})
}

func (h *CompanyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	company, err := h.companyUsecase.DeleteCompany(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, usecase.ErrCompanyNotFound) {
			httputil.Message(w, http.StatusNotFound, "company not found")
			return
		}
		h.logger.Error().Err(err).Msg("failed to delete company")
		httputil.Message(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{
		"message": "Company deleted successfully",
		"company": company,
	})
}

func (h *CompanyHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.companyUsecase.CompanyStatistics(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, usecase.ErrCompanyNotFound) {
			httputil.Message(w, http.StatusNotFound, "company not found")
			return
		}
		h.logger.Error().Err(err).Msg("failed to compute company statistics")
		httputil.Message(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{"statistics": stats})
}

func (h *CompanyHandler) GlobalStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.companyUsecase.GlobalStatistics(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to compute global statistics")
		httputil.Message(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{"statistics": stats})
}
