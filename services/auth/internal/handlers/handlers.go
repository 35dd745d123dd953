package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/diagnosis/dalmatia-stays/internal/http/response"
	"github.com/diagnosis/dalmatia-stays/pkg/logger"
	mw "github.com/diagnosis/dalmatia-stays/pkg/middleware"
	"github.com/diagnosis/dalmatia-stays/services/auth/internal/domain"
	"github.com/diagnosis/dalmatia-stays/services/auth/internal/service"
	"github.com/go-chi/chi/v5"
)

type Handlers struct {
	authService service.AuthService
}

func New(authService service.AuthService) *Handlers {
	return &Handlers{authService: authService}
}

func (h *Handlers) Routes(jwtSecret string) chi.Router {
	r := chi.NewRouter()

	r.Post("/signup", h.Signup)
	r.Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)
	r.With(mw.RequireSession(jwtSecret)).Get("/me", h.Me)

	return r
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(v); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		code := response.CodeInvalidInput
		if verr.Missing {
			code = response.CodeMissingField
		}
		response.WriteFieldError(w, http.StatusBadRequest, verr.Error(), code, verr.Field)
	case errors.Is(err, domain.ErrEmailExists):
		response.Conflict(w, err.Error(), response.CodeEmailExists)
	case errors.Is(err, domain.ErrInvalidCredentials):
		response.Unauthorized(w, err.Error())
	case errors.Is(err, domain.ErrInvalidRefreshToken):
		response.WriteError(w, http.StatusUnauthorized, err.Error(), response.CodeInvalidToken)
	case errors.Is(err, domain.ErrUserNotFound):
		response.NotFound(w, err.Error())
	default:
		logger.ErrorContext(r.Context(), "Auth request failed", "error", err, "path", r.URL.Path)
		response.InternalError(w)
	}
}
