package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmalda/garden/internal/api/middleware"
	"github.com/jmalda/garden/internal/domain"
	"github.com/jmalda/garden/internal/service"
)

type SystemHandler struct {
	svc *service.SystemService
}

func NewSystemHandler(svc *service.SystemService) *SystemHandler {
	return &SystemHandler{svc: svc}
}

type systemRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	Color        string   `json:"color"`
	Importance   int      `json:"importance"`
	Visibility   string   `json:"visibility"`
	ParentID     *string  `json:"parent_id"`
	Distinctions []string `json:"distinctions"`
}

func (req *systemRequest) apply(sys *domain.System) error {
	sys.Name = req.Name
	sys.Description = req.Description
	sys.Category = req.Category
	sys.Color = req.Color
	sys.Importance = req.Importance
	sys.Visibility = domain.Visibility(req.Visibility)
	sys.Distinctions = req.Distinctions
	if req.ParentID != nil && *req.ParentID != "" {
		parent, err := uuid.Parse(*req.ParentID)
		if err != nil {
			return errors.New("invalid parent_id")
		}
		sys.ParentID = &parent
	} else {
		sys.ParentID = nil
	}
	return nil
}

func systemErrorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrSystemNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrSystemNameRequired),
		errors.Is(err, service.ErrInvalidImportance),
		errors.Is(err, service.ErrInvalidVisibility):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *SystemHandler) Create(w http.ResponseWriter, r *http.Request) {
	account := middleware.AccountFromContext(r.Context())
	if account == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req systemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sys := &domain.System{AccountID: account.ID}
	if err := req.apply(sys); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.Create(r.Context(), sys); err != nil {
		if status := systemErrorStatus(err); status != http.StatusInternalServerError {
			writeError(w, status, err.Error())
		} else {
			writeStoreError(w, err, "failed to create system")
		}
		return
	}
	writeJSON(w, http.StatusCreated, sys)
}

func (h *SystemHandler) List(w http.ResponseWriter, r *http.Request) {
	account := middleware.AccountFromContext(r.Context())
	if account == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	systems, err := h.svc.List(r.Context(), account.ID)
	if err != nil {
		writeStoreError(w, err, "failed to list systems")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"systems": systems, "count": len(systems)})
}

func (h *SystemHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	account := middleware.AccountFromContext(r.Context())
	if account == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid system id")
		return
	}

	sys, err := h.svc.GetByID(r.Context(), id, account.ID)
	if err != nil {
		if errors.Is(err, service.ErrSystemNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeStoreError(w, err, "failed to get system")
		return
	}
	writeJSON(w, http.StatusOK, sys)
}

func (h *SystemHandler) Update(w http.ResponseWriter, r *http.Request) {
	account := middleware.AccountFromContext(r.Context())
	if account == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid system id")
		return
	}

	sys, err := h.svc.GetByID(r.Context(), id, account.ID)
	if err != nil {
		if errors.Is(err, service.ErrSystemNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeStoreError(w, err, "failed to get system")
		return
	}

	var req systemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.apply(sys); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.Update(r.Context(), sys); err != nil {
		if status := systemErrorStatus(err); status != http.StatusInternalServerError {
			writeError(w, status, err.Error())
		} else {
			writeStoreError(w, err, "failed to update system")
		}
		return
	}
	writeJSON(w, http.StatusOK, sys)
}

func (h *SystemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	account := middleware.AccountFromContext(r.Context())
	if account == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid system id")
		return
	}

	if err := h.svc.Delete(r.Context(), id, account.ID); err != nil {
		if errors.Is(err, service.ErrSystemNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeStoreError(w, err, "failed to delete system")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type relateRequest struct {
	ModelID      string  `json:"model_id"`
	Relationship string  `json:"relationship"`
	Strength     float64 `json:"strength"`
}

func (h *SystemHandler) Relate(w http.ResponseWriter, r *http.Request) {
	account := middleware.AccountFromContext(r.Context())
	if account == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	systemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid system id")
		return
	}

	var req relateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	modelID, err := uuid.Parse(req.ModelID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid model_id")
		return
	}
	if req.Relationship == "" {
		req.Relationship = string(domain.RelationshipRelated)
	}

	relation := &domain.SystemModelRelation{
		SystemID:     systemID,
		ModelID:      modelID,
		Relationship: domain.Relationship(req.Relationship),
		Strength:     req.Strength,
	}

	if err := h.svc.Relate(r.Context(), account.ID, relation); err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyRelated):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrSystemNotFound),
			errors.Is(err, service.ErrModelNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidRelationship),
			errors.Is(err, service.ErrInvalidStrength):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeStoreError(w, err, "failed to relate model")
		}
		return
	}
	writeJSON(w, http.StatusCreated, relation)
}

func (h *SystemHandler) Unrelate(w http.ResponseWriter, r *http.Request) {
	account := middleware.AccountFromContext(r.Context())
	if account == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	systemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid system id")
		return
	}
	modelID, err := uuid.Parse(chi.URLParam(r, "modelID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid model id")
		return
	}

	if err := h.svc.Unrelate(r.Context(), systemID, modelID); err != nil {
		if errors.Is(err, service.ErrSystemNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeStoreError(w, err, "failed to unrelate model")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SystemHandler) Relations(w http.ResponseWriter, r *http.Request) {
	account := middleware.AccountFromContext(r.Context())
	if account == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	systemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid system id")
		return
	}

	relations, err := h.svc.ListRelations(r.Context(), account.ID, systemID)
	if err != nil {
		if errors.Is(err, service.ErrSystemNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeStoreError(w, err, "failed to list relations")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"relations": relations, "count": len(relations)})
}
