package exports

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/fdg312/muscle-plan/internal/plan"
	"github.com/fdg312/muscle-plan/internal/selection"
	"github.com/google/uuid"
)

// Handlers handles HTTP requests for exports
type Handlers struct {
	service *Service
}

// NewHandlers creates new handlers
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleCreate handles POST /v1/exports
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON")
		return
	}

	export, err := h.service.CreateExport(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidKind):
			writeError(w, http.StatusBadRequest, "invalid_kind", "Kind must be 'shopping' or 'week'")
		case errors.Is(err, ErrInvalidFormat):
			writeError(w, http.StatusBadRequest, "invalid_format", "Format must be 'pdf' or 'csv'")
		case errors.Is(err, plan.ErrUnknownRegion):
			writeError(w, http.StatusBadRequest, "invalid_region", err.Error())
		case errors.Is(err, selection.ErrSessionNotFound):
			writeError(w, http.StatusNotFound, "session_not_found", "Session not found")
		default:
			log.Printf("ERROR exports: create failed: %v", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to create export")
		}
		return
	}

	dto, err := h.toDTO(r, export)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to generate download URL")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(dto)
}

// HandleGet handles GET /v1/exports/{id}
func (h *Handlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	export, err := h.service.GetExport(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "export_not_found", "Export not found")
		return
	}

	dto, err := h.toDTO(r, export)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to generate download URL")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dto)
}

// HandleDownload handles GET /v1/exports/{id}/download
func (h *Handlers) HandleDownload(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	export, err := h.service.GetExport(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "export_not_found", "Export not found")
		return
	}

	if !h.service.LocalMode() {
		url, err := h.service.urlFor(r.Context(), export, baseURL(r))
		if err != nil {
			log.Printf("ERROR exports: download url id=%s: %v", id, err)
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to generate download URL")
			return
		}
		http.Redirect(w, r, url, http.StatusFound)
		return
	}

	data, ct, err := h.service.ExportData(export)
	if err != nil {
		log.Printf("ERROR exports: download id=%s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to read export")
		return
	}

	filename := fmt.Sprintf("%s_%s.%s", export.Kind, export.Region, export.Format)
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

// HandleDelete handles DELETE /v1/exports/{id}
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteExport(r.Context(), id); err != nil {
		writeError(w, http.StatusNotFound, "export_not_found", "Export not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) toDTO(r *http.Request, export *Export) (ExportDTO, error) {
	url, err := h.service.urlFor(r.Context(), export, baseURL(r))
	if err != nil {
		return ExportDTO{}, err
	}
	return ExportDTO{
		ID:          export.ID,
		Kind:        export.Kind,
		Format:      export.Format,
		Region:      export.Region,
		SessionID:   export.SessionID,
		DownloadURL: url,
		SizeBytes:   export.SizeBytes,
		CreatedAt:   export.CreatedAt,
	}, nil
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid export ID")
		return uuid.Nil, false
	}
	return id, true
}

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

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, r.Host)
}
