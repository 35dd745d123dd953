package handlers

import (
	"net/http"

	"github.com/diagnosis/dalmatia-stays/internal/http/response"
)

func (h *Handlers) GuestDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.dashboards.Guest(r.Context(), identityID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, d)
}

func (h *Handlers) HostDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.dashboards.Host(r.Context(), identityID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, d)
}
