package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/backoffice-api/internal/config"
	"github.com/vasapolrittideah/backoffice-api/internal/middleware"
	"github.com/vasapolrittideah/backoffice-api/internal/usecase"
	"github.com/vasapolrittideah/backoffice-api/shared/auth"
	"github.com/vasapolrittideah/backoffice-api/shared/httputil"
	"github.com/vasapolrittideah/backoffice-api/shared/nvi"
)

// RouterDeps bundles everything the HTTP router needs.
type RouterDeps struct {
	Config      *config.Config
	Logger      *zerolog.Logger
	JWTAuth     auth.JWTAuthenticator
	NVIVerifier nvi.Verifier

	Auth        *AuthHandler
	User        *UserHandler
	Company     *CompanyHandler
	Team        *TeamHandler
	Transaction *TransactionHandler
	Access      *AccessHandler
}

// NewRouter builds the chi router with the full route table. Every route
// beyond registration and login requires a valid token, and mutating or
// cross-user routes are additionally gated on a capability.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(deps.Logger))
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		if deps.Config.NVI.Disabled {
			r.Post("/register", deps.Auth.Register)
		} else {
			r.With(middleware.VerifyNationalID(deps.NVIVerifier, deps.Logger)).
				Post("/register", deps.Auth.Register)
		}

		r.Post("/login", deps.Auth.Login)
		r.Post("/login/otp/verify", deps.Auth.VerifyOTP)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(deps.JWTAuth, deps.Config.Token.Secret))

		r.With(middleware.RequirePermission(usecase.PermViewOwnProfile)).
			Get("/user", deps.Auth.Me)

		r.Route("/users", func(r chi.Router) {
			r.With(middleware.RequirePermission(usecase.PermViewUsers)).Get("/", deps.User.List)
			r.With(middleware.RequirePermission(usecase.PermManageUsers)).Get("/export", deps.User.Export)
			r.With(middleware.RequirePermission(usecase.PermViewUsers)).Get("/{id}", deps.User.Get)
			r.With(middleware.RequirePermission(usecase.PermEditUsers)).Put("/{id}", deps.User.Update)
			r.With(middleware.RequirePermission(usecase.PermDeleteUsers)).Delete("/{id}", deps.User.Delete)

			r.Route("/{id}/permissions", func(r chi.Router) {
				r.Use(middleware.RequirePermission(usecase.PermManageRoles))
				r.Post("/", deps.Access.GrantPermissions)
				r.Delete("/", deps.Access.RevokePermissions)
			})

			r.With(middleware.RequirePermission(usecase.PermManageRoles)).
				Post("/{id}/roles", deps.Access.AssignRole)
			r.With(middleware.RequirePermission(usecase.PermManageRoles)).
				Delete("/{id}/roles/{role}", deps.Access.RemoveRole)
		})

		r.Route("/companies", func(r chi.Router) {
			r.With(middleware.RequirePermission(usecase.PermManageCompanies)).Post("/", deps.Company.Create)
			r.With(middleware.RequirePermission(usecase.PermViewCompanies)).Get("/", deps.Company.List)
			r.With(middleware.RequirePermission(usecase.PermViewCompanies)).Get("/statistics", deps.Company.GlobalStatistics)
			r.With(middleware.RequirePermission(usecase.PermViewCompanies)).Get("/{id}", deps.Company.Get)
			r.With(middleware.RequirePermission(usecase.PermViewCompanies)).Get("/{id}/statistics", deps.Company.Statistics)
			r.With(middleware.RequirePermission(usecase.PermEditCompanies)).Put("/{id}", deps.Company.Update)
			r.With(middleware.RequirePermission(usecase.PermDeleteCompanies)).Delete("/{id}", deps.Company.Delete)
		})

		r.Route("/teams", func(r chi.Router) {
			r.With(middleware.RequirePermission(usecase.PermManageTeams)).Post("/", deps.Team.Create)
			r.With(middleware.RequirePermission(usecase.PermViewTeams)).Get("/", deps.Team.List)
			r.With(middleware.RequirePermission(usecase.PermViewTeams)).Get("/{id}", deps.Team.Get)
			r.With(middleware.RequirePermission(usecase.PermViewTransactions)).Get("/{id}/transactions", deps.Team.Transactions)
			r.With(middleware.RequirePermission(usecase.PermEditTeams)).Put("/{id}", deps.Team.Update)
			r.With(middleware.RequirePermission(usecase.PermDeleteTeams)).Delete("/{id}", deps.Team.Delete)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.With(middleware.RequirePermission(usecase.PermManageTransactions)).Post("/", deps.Transaction.Create)
			r.With(middleware.RequirePermission(usecase.PermViewTransactions)).Get("/", deps.Transaction.List)
			r.With(middleware.RequirePermission(usecase.PermViewTransactions)).Get("/{id}", deps.Transaction.Get)
			r.With(middleware.RequirePermission(usecase.PermEditTransactions)).Put("/{id}", deps.Transaction.Update)
			r.With(middleware.RequirePermission(usecase.PermDeleteTransactions)).Delete("/{id}", deps.Transaction.Delete)
		})

		r.Route("/roles", func(r chi.Router) {
			r.Use(middleware.RequirePermission(usecase.PermManageRoles))
			r.Post("/", deps.Access.CreateRole)
			r.Get("/", deps.Access.ListRoles)
			r.Put("/{name}/permissions", deps.Access.SetRolePermissions)
		})

		r.With(middleware.RequirePermission(usecase.PermManageRoles)).
			Get("/permissions", deps.Access.ListPermissions)
	})

	return r
}

// requestLogger emits one structured line per request.
func requestLogger(logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("request_id", chimiddleware.GetReqID(r.Context())).
				Msg("request completed")
		})
	}
}
