package selection

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
)

// SessionDTO is the wire form of a session's selection state.
type SessionDTO struct {
	ID            uuid.UUID `json:"id"`
	Bought        []string  `json:"bought"`
	CompletedDays []string  `json:"completed_days"`
}

// ToggleItemRequest is the request body for POST /v1/sessions/{id}/bought.
type ToggleItemRequest struct {
	Item string `json:"item"`
}

// ToggleDayRequest is the request body for POST /v1/sessions/{id}/days.
type ToggleDayRequest struct {
	Day string `json:"day"`
}

func toDTO(id uuid.UUID, st State) SessionDTO {
	return SessionDTO{
		ID:            id,
		Bought:        st.Bought.Keys(),
		CompletedDays: st.CompletedDays.Keys(),
	}
}

// Handler handles HTTP requests for session selection state.
type Handler struct {
	store *Store
}

// NewHandler creates a new selection handler.
func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// HandleCreate handles POST /v1/sessions
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	id, st := h.store.Create()
	writeJSON(w, http.StatusCreated, toDTO(id, st))
}

// HandleGet handles GET /v1/sessions/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	st, err := h.store.Get(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDTO(id, st))
}

// HandleToggleBought handles POST /v1/sessions/{id}/bought
func (h *Handler) HandleToggleBought(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req ToggleItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Item == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "item is required")
		return
	}

	st, err := h.store.ToggleBought(id, req.Item)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDTO(id, st))
}

// HandleToggleDay handles POST /v1/sessions/{id}/days
func (h *Handler) HandleToggleDay(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req ToggleDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Day == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "day is required")
		return
	}

	st, err := h.store.ToggleCompletedDay(id, req.Day)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDTO(id, st))
}

// HandleDelete handles DELETE /v1/sessions/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.store.Delete(id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid session id format")
		return uuid.Nil, false
	}
	return id, true
}

func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session_not_found", "Session not found")
	case errors.Is(err, ErrUnknownItem):
		writeError(w, http.StatusBadRequest, "unknown_item", err.Error())
	case errors.Is(err, ErrUnknownDay):
		writeError(w, http.StatusBadRequest, "unknown_day", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to update session")
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
