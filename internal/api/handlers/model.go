package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmalda/garden/internal/api/middleware"
	"github.com/jmalda/garden/internal/domain"
	"github.com/jmalda/garden/internal/service"
)

type ModelHandler struct {
	svc      *service.ModelService
	connSvc  *service.ConnectionService
	validate *validator.Validate
}

func NewModelHandler(svc *service.ModelService, connSvc *service.ConnectionService) *ModelHandler {
	return &ModelHandler{
		svc:      svc,
		connSvc:  connSvc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *ModelHandler) List(w http.ResponseWriter, r *http.Request) {
	account := middleware.AccountFromContext(r.Context())
	if account == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var opts domain.ListModelsOpts
	if v := r.URL.Query().Get("visibility"); v != "" {
		if !domain.ValidVisibility(v) {
			writeError(w, http.StatusBadRequest, "invalid visibility filter")
			return
		}
		vis := domain.Visibility(v)
		opts.Visibility = &vis
	}
	if s := r.URL.Query().Get("stage"); s != "" {
		if !domain.ValidStage(s) {
			writeError(w, http.StatusBadRequest, "invalid stage filter")
			return
		}
		stage := domain.Stage(s)
		opts.Stage = &stage
	}
	opts.Tag = r.URL.Query().Get("tag")

	models, err := h.svc.List(r.Context(), account.ID, opts)
	if err != nil {
		writeStoreError(w, err, "failed to list models")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"models": models, "count": len(models)})
}

// Create accepts the editor form shape and runs the full save flow.
func (h *ModelHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, uuid.Nil)
}

// SaveForm handles PUT /models/{id}/form, the edit-and-reconcile path.
func (h *ModelHandler) SaveForm(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid model id")
		return
	}
	h.save(w, r, id)
}

func (h *ModelHandler) save(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	account := middleware.AccountFromContext(r.Context())
	if account == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var form service.FormValues
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	result, err := h.svc.SaveForm(r.Context(), account.ID, id, form)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrModelTitleRequired),
			errors.Is(err, service.ErrInvalidStage),
			errors.Is(err, service.ErrInvalidConfidence),
			errors.Is(err, service.ErrInvalidVisibility),
			errors.Is(err, service.ErrInvalidRelationship):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrModelNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			writeStoreError(w, err, "failed to save model")
		}
		return
	}

	status := http.StatusOK
	if id == uuid.Nil {
		status = http.StatusCreated
	}
	writeJSON(w, status, result)
}

func (h *ModelHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	account := middleware.AccountFromContext(r.Context())
	if account == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid model id")
		return
	}

	model, err := h.svc.GetByID(r.Context(), id, account.ID)
	if err != nil {
		if errors.Is(err, service.ErrModelNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeStoreError(w, err, "failed to get model")
		return
	}
	writeJSON(w, http.StatusOK, model)
}

// GetForm returns the model mapped back into editor form values,
// including its current connection list.
func (h *ModelHandler) GetForm(w http.ResponseWriter, r *http.Request) {
	account := middleware.AccountFromContext(r.Context())
	if account == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid model id")
		return
	}

	model, err := h.svc.GetByID(r.Context(), id, account.ID)
	if err != nil {
		if errors.Is(err, service.ErrModelNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeStoreError(w, err, "failed to get model")
		return
	}

	conns, err := h.connSvc.ListTouching(r.Context(), account.ID, model.ID.String())
	if err != nil {
		writeStoreError(w, err, "failed to load connections")
		return
	}

	writeJSON(w, http.StatusOK, service.ToFormValues(model, conns))
}

func (h *ModelHandler) Update(w http.ResponseWriter, r *http.Request) {
	account := middleware.AccountFromContext(r.Context())
	if account == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid model id")
		return
	}

	var patch service.ModelPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	model, err := h.svc.Update(r.Context(), id, account.ID, patch)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrModelNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrModelTitleRequired),
			errors.Is(err, service.ErrInvalidStage),
			errors.Is(err, service.ErrInvalidConfidence),
			errors.Is(err, service.ErrInvalidVisibility):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeStoreError(w, err, "failed to update model")
		}
		return
	}
	writeJSON(w, http.StatusOK, model)
}

func (h *ModelHandler) Delete(w http.ResponseWriter, r *http.Request) {
	account := middleware.AccountFromContext(r.Context())
	if account == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid model id")
		return
	}

	if err := h.svc.Delete(r.Context(), id, account.ID); err != nil {
		if errors.Is(err, service.ErrModelNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeStoreError(w, err, "failed to delete model")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ModelHandler) Connections(w http.ResponseWriter, r *http.Request) {
	account := middleware.AccountFromContext(r.Context())
	if account == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")
	conns, err := h.connSvc.ListTouching(r.Context(), account.ID, id)
	if err != nil {
		writeStoreError(w, err, "failed to list connections")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"connections": conns, "count": len(conns)})
}

func (h *ModelHandler) Similar(w http.ResponseWriter, r *http.Request) {
	account := middleware.AccountFromContext(r.Context())
	if account == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid model id")
		return
	}

	limit := 5
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 50 {
			limit = n
		}
	}

	results, err := h.svc.Similar(r.Context(), id, account.ID, limit)
	if err != nil {
		if errors.Is(err, service.ErrModelNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeStoreError(w, err, "failed to find similar models")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"models": results, "count": len(results)})
}
