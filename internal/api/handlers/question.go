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

type QuestionHandler struct {
	svc *service.QuestionService
}

func NewQuestionHandler(svc *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{svc: svc}
}

type questionRequest struct {
	Text                string   `json:"text"`
	Category            string   `json:"category"`
	Importance          int      `json:"importance"`
	ClarificationNeeded bool     `json:"clarification_needed"`
	RelatedModelIDs     []string `json:"related_model_ids"`
}

func questionErrorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrQuestionNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrQuestionTextRequired),
		errors.Is(err, service.ErrInvalidCategory),
		errors.Is(err, service.ErrInvalidQuestionRank):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *QuestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	account := middleware.AccountFromContext(r.Context())
	if account == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	q := &domain.Question{
		AccountID:           account.ID,
		Text:                req.Text,
		Category:            domain.QuestionCategory(req.Category),
		Importance:          req.Importance,
		ClarificationNeeded: req.ClarificationNeeded,
		RelatedModelIDs:     req.RelatedModelIDs,
	}

	if err := h.svc.Create(r.Context(), q); err != nil {
		if status := questionErrorStatus(err); status != http.StatusInternalServerError {
			writeError(w, status, err.Error())
		} else {
			writeStoreError(w, err, "failed to create question")
		}
		return
	}
	writeJSON(w, http.StatusCreated, q)
}

func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	account := middleware.AccountFromContext(r.Context())
	if account == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	questions, err := h.svc.List(r.Context(), account.ID)
	if err != nil {
		writeStoreError(w, err, "failed to list questions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"questions": questions, "count": len(questions)})
}

func (h *QuestionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	account := middleware.AccountFromContext(r.Context())
	if account == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid question id")
		return
	}

	q, err := h.svc.GetByID(r.Context(), id, account.ID)
	if err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeStoreError(w, err, "failed to get question")
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *QuestionHandler) Update(w http.ResponseWriter, r *http.Request) {
	account := middleware.AccountFromContext(r.Context())
	if account == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid question id")
		return
	}

	q, err := h.svc.GetByID(r.Context(), id, account.ID)
	if err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeStoreError(w, err, "failed to get question")
		return
	}

	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	q.Text = req.Text
	q.Category = domain.QuestionCategory(req.Category)
	q.Importance = req.Importance
	q.ClarificationNeeded = req.ClarificationNeeded
	q.RelatedModelIDs = req.RelatedModelIDs

	if err := h.svc.Update(r.Context(), q); err != nil {
		if status := questionErrorStatus(err); status != http.StatusInternalServerError {
			writeError(w, status, err.Error())
		} else {
			writeStoreError(w, err, "failed to update question")
		}
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *QuestionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	account := middleware.AccountFromContext(r.Context())
	if account == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid question id")
		return
	}

	if err := h.svc.Delete(r.Context(), id, account.ID); err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeStoreError(w, err, "failed to delete question")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
