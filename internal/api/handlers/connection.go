package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jmalda/garden/internal/api/middleware"
	"github.com/jmalda/garden/internal/service"
)

type ConnectionHandler struct {
	svc *service.ConnectionService
}

func NewConnectionHandler(svc *service.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{svc: svc}
}

// createConnectionRequest leaves both end ids untyped: clients send a
// mix of integers and UUID strings and the service normalizes them.
type createConnectionRequest struct {
	SourceID     any     `json:"source_id"`
	TargetID     any     `json:"target_id"`
	Relationship string  `json:"relationship"`
	Strength     float64 `json:"strength"`
}

func (h *ConnectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	account := middleware.AccountFromContext(r.Context())
	if account == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createConnectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	conn, err := h.svc.Create(r.Context(), req.SourceID, req.TargetID, req.Relationship, req.Strength)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrConnectionEndMissing),
			errors.Is(err, service.ErrInvalidRelationship),
			errors.Is(err, service.ErrInvalidStrength):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeStoreError(w, err, "failed to create connection")
		}
		return
	}
	writeJSON(w, http.StatusCreated, conn)
}

type updateConnectionRequest struct {
	Relationship string  `json:"relationship"`
	Strength     float64 `json:"strength"`
}

func (h *ConnectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	account := middleware.AccountFromContext(r.Context())
	if account == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req updateConnectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	conn, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), req.Relationship, req.Strength)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrConnectionNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidRelationship),
			errors.Is(err, service.ErrInvalidStrength):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeStoreError(w, err, "failed to update connection")
		}
		return
	}
	writeJSON(w, http.StatusOK, conn)
}

func (h *ConnectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	account := middleware.AccountFromContext(r.Context())
	if account == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, service.ErrConnectionNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeStoreError(w, err, "failed to delete connection")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ConnectionHandler) List(w http.ResponseWriter, r *http.Request) {
	account := middleware.AccountFromContext(r.Context())
	if account == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if modelID := r.URL.Query().Get("model"); modelID != "" {
		conns, err := h.svc.ListTouching(r.Context(), account.ID, modelID)
		if err != nil {
			writeStoreError(w, err, "failed to list connections")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"connections": conns, "count": len(conns)})
		return
	}

	conns, err := h.svc.ListAll(r.Context(), account.ID)
	if err != nil {
		writeStoreError(w, err, "failed to list connections")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"connections": conns, "count": len(conns)})
}
