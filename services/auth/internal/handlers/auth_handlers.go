package handlers

import (
	"net/http"

	"github.com/diagnosis/dalmatia-stays/internal/http/response"
	mw "github.com/diagnosis/dalmatia-stays/pkg/middleware"
	"github.com/diagnosis/dalmatia-stays/services/auth/internal/domain"
)

// Signup handles user registration
func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := h.authService.Signup(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, resp)
}

// Login handles user authentication
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	var req domain.RefreshRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := h.authService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	id, _ := mw.IdentityFrom(r.Context())

	user, err := h.authService.Me(r.Context(), id.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]any{"user": user.ToUserInfo()})
}
