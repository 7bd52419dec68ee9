package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/backoffice-api/internal/middleware"
	"github.com/vasapolrittideah/backoffice-api/internal/payload"
	"github.com/vasapolrittideah/backoffice-api/internal/usecase"
	"github.com/vasapolrittideah/backoffice-api/shared/httputil"
	"github.com/vasapolrittideah/backoffice-api/shared/validation"
)

// AuthHandler serves registration and the two-step login flow.
type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	userUsecase usecase.UserUsecase
	validator   *validation.Validator
	logger      *zerolog.Logger
}

// NewAuthHandler creates a new instance of AuthHandler.
func NewAuthHandler(
	authUsecase usecase.AuthUsecase,
	userUsecase usecase.UserUsecase,
	validator *validation.Validator,
	logger *zerolog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		userUsecase: userUsecase,
		validator:   validator,
		logger:      logger,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req payload.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if fieldErrors := h.validator.Struct(req); fieldErrors != nil {
		httputil.ValidationFailed(w, fieldErrors)
		return
	}

	user, err := h.authUsecase.Register(r.Context(), usecase.RegisterParams{
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
		case errors.Is(err, usecase.ErrCompanyNotFound):
			httputil.ValidationFailed(w, map[string][]string{"company_id": {"company does not exist"}})
		case errors.Is(err, usecase.ErrTeamNotFound):
			httputil.ValidationFailed(w, map[string][]string{"team_id": {"team does not exist"}})
		case errors.Is(err, usecase.ErrTeamCompanyMismatch):
			httputil.ValidationFailed(w, map[string][]string{"team_id": {"team does not belong to the given company"}})
		case errors.Is(err, usecase.ErrEmailTaken):
			httputil.Message(w, http.StatusConflict, "email is already registered")
		default:
			h.logger.Error().Err(err).Msg("failed to register user")
			httputil.Message(w, http.StatusInternalServerError, "something went wrong")
		}
		return
	}

	httputil.JSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"user":    user,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req payload.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if fieldErrors := h.validator.Struct(req); fieldErrors != nil {
		httputil.ValidationFailed(w, fieldErrors)
		return
	}

	email, err := h.authUsecase.Login(r.Context(), usecase.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			httputil.Message(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.logger.Error().Err(err).Msg("failed to start login")
		httputil.Message(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{
		"message": "OTP sent to your email",
		"email":   email,
	})
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req payload.VerifyOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if fieldErrors := h.validator.Struct(req); fieldErrors != nil {
		httputil.ValidationFailed(w, fieldErrors)
		return
	}

	verified, err := h.authUsecase.VerifyOTP(r.Context(), usecase.VerifyOTPParams{
		Email: req.Email,
		OTP:   req.OTP,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUserNotFound):
			httputil.Message(w, http.StatusUnauthorized, "user not found")
		case errors.Is(err, usecase.ErrOTPExpired):
			httputil.Message(w, http.StatusUnauthorized, "OTP has expired")
		case errors.Is(err, usecase.ErrOTPInvalid):
			httputil.Message(w, http.StatusUnauthorized, "invalid OTP")
		default:
			h.logger.Error().Err(err).Msg("failed to verify OTP")
			httputil.Message(w, http.StatusInternalServerError, "something went wrong")
		}
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   verified.Token,
		"user":    verified.User,
	})
}

// Me returns the authenticated user's own profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		httputil.Message(w, http.StatusUnauthorized, "missing or malformed authorization header")
		return
	}

	user, err := h.userUsecase.GetUser(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			httputil.Message(w, http.StatusNotFound, "user not found")
			return
		}
		h.logger.Error().Err(err).Msg("failed to load authenticated user")
		httputil.Message(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{"user": user})
}
