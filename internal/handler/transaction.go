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

// TransactionHandler serves transaction management.
type TransactionHandler struct {
	transactionUsecase usecase.TransactionUsecase
	validator          *validation.Validator
	logger             *zerolog.Logger
}

// NewTransactionHandler creates a new instance of TransactionHandler.
func NewTransactionHandler(
	transactionUsecase usecase.TransactionUsecase,
	validator *validation.Validator,
	logger *zerolog.Logger,
) *TransactionHandler {
	return &TransactionHandler{
		transactionUsecase: transactionUsecase,
		validator:          validator,
		logger:             logger,
	}
}

func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req payload.CreateTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if fieldErrors := h.validator.Struct(req); fieldErrors != nil {
		httputil.ValidationFailed(w, fieldErrors)
		return
	}

	transaction, err := h.transactionUsecase.CreateTransaction(r.Context(), usecase.CreateTransactionParams{
		Amount:          req.Amount,
		Type:            req.Type,
		Status:          req.Status,
		Sender:          usecase.PartyParams{Kind: req.Sender.Kind, ID: req.Sender.ID},
		Receiver:        usecase.PartyParams{Kind: req.Receiver.Kind, ID: req.Receiver.ID},
		TeamID:          req.TeamID,
		Description:     req.Description,
		Category:        req.Category,
		Date:            req.Date,
		ReferenceNumber: req.ReferenceNumber,
	})
	if err != nil {
		h.writeTransactionError(w, err, "failed to create transaction")
		return
	}

	httputil.JSON(w, http.StatusCreated, map[string]any{
		"message":     "Transaction created successfully",
		"transaction": transaction,
	})
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	transactions, err := h.transactionUsecase.ListTransactions(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list transactions")
		httputil.Message(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{"transactions": transactions})
}

func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	transaction, err := h.transactionUsecase.GetTransaction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, usecase.ErrTransactionNotFound) {
			httputil.Message(w, http.StatusNotFound, "transaction not found")
			return
		}
		h.logger.Error().Err(err).Msg("failed to get transaction")
		httputil.Message(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{"transaction": transaction})
}

func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req payload.UpdateTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if fieldErrors := h.validator.Struct(req); fieldErrors != nil {
		httputil.ValidationFailed(w, fieldErrors)
		return
	}

	transaction, err := h.transactionUsecase.UpdateTransaction(r.Context(), chi.URLParam(r, "id"), usecase.UpdateTransactionParams{
		Amount:          req.Amount,
		Type:            req.Type,
		Status:          req.Status,
		TeamID:          req.TeamID,
		Description:     req.Description,
		Category:        req.Category,
		Date:            req.Date,
		ReferenceNumber: req.ReferenceNumber,
	})
	if err != nil {
		h.writeTransactionError(w, err, "failed to update transaction")
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{
		"message":     "Transaction updated successfully",
		"transaction": transaction,
	})
}

func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	transaction, err := h.transactionUsecase.DeleteTransaction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, usecase.ErrTransactionNotFound) {
			httputil.Message(w, http.StatusNotFound, "transaction not found")
			return
		}
		h.logger.Error().Err(err).Msg("failed to delete transaction")
		httputil.Message(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{
		"message":     "Transaction deleted successfully",
		"transaction": transaction,
	})
}

func (h *TransactionHandler) writeTransactionError(w http.ResponseWriter, err error, logMessage string) {
	switch {
	case errors.Is(err, usecase.ErrTransactionNotFound):
		httputil.Message(w, http.StatusNotFound, "transaction not found")
	case errors.Is(err, usecase.ErrInvalidTransactionType):
		httputil.ValidationFailed(w, map[string][]string{"type": {"type must be income or expense"}})
	case errors.Is(err, usecase.ErrInvalidTransactionStatus):
		httputil.ValidationFailed(w, map[string][]string{"status": {"status must be pending, completed or failed"}})
	case errors.Is(err, usecase.ErrInvalidParty):
		httputil.ValidationFailed(w, map[string][]string{"party": {"party kind must be user or company with a valid id"}})
	case errors.Is(err, usecase.ErrUserNotFound):
		httputil.ValidationFailed(w, map[string][]string{"party": {"referenced user does not exist"}})
	case errors.Is(err, usecase.ErrCompanyNotFound):
		httputil.ValidationFailed(w, map[string][]string{"party": {"referenced company does not exist"}})
	case errors.Is(err, usecase.ErrTeamNotFound):
		httputil.ValidationFailed(w, map[string][]string{"team_id": {"team does not exist"}})
	case errors.Is(err, usecase.ErrReferenceNumberTaken):
		httputil.Message(w, http.StatusConflict, "reference number is already in use")
	default:
		h.logger.Error().Err(err).Msg(logMessage)
		httputil.Message(w, http.StatusInternalServerError, "something went wrong")
	}
}
