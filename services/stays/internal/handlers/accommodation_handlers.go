package handlers

import (
	"net/http"

	"github.com/diagnosis/dalmatia-stays/internal/http/response"
	"github.com/diagnosis/dalmatia-stays/services/stays/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ListAccommodations serves GET /accommodations?type=relax
func (h *Handlers) ListAccommodations(w http.ResponseWriter, r *http.Request) {
	var vt *domain.VacationType
	if raw := r.URL.Query().Get("type"); raw != "" {
		parsed, ok := domain.ParseVacationType(raw)
		if !ok {
			response.BadRequest(w, "invalid vacation type")
			return
		}
		vt = &parsed
	}

	list, err := h.accommodations.List(r.Context(), vt)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]any{"accommodations": list})
}

func (h *Handlers) GetAccommodation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	a, err := h.accommodations.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]any{"accommodation": a})
}

func (h *Handlers) CreateAccommodation(w http.ResponseWriter, r *http.Request) {
	var in domain.AccommodationInput
	if !decode(w, r, &in) {
		return
	}
	a, err := h.accommodations.Create(r.Context(), identityID(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, map[string]any{"accommodation": a})
}

func (h *Handlers) UpdateAccommodation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in domain.AccommodationInput
	if !decode(w, r, &in) {
		return
	}
	a, err := h.accommodations.Update(r.Context(), identityID(r), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]any{"accommodation": a})
}

func (h *Handlers) DeleteAccommodation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.accommodations.Delete(r.Context(), identityID(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// pathID answers 404 for malformed ids: they cannot name a listing.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.NotFound(w, "accommodation not found")
		return uuid.Nil, false
	}
	return id, true
}

type vacationTypeView struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

func (h *Handlers) ListVacationTypes(w http.ResponseWriter, r *http.Request) {
	out := make([]vacationTypeView, 0, len(domain.VacationTypes))
	for _, vt := range domain.VacationTypes {
		out = append(out, vacationTypeView{Value: string(vt), Label: vt.Label()})
	}
	response.WriteJSON(w, http.StatusOK, map[string]any{"vacationTypes": out})
}

func (h *Handlers) GetSiteContent(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, h.content.SiteContent(r.Context()))
}
