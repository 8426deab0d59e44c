package handlers

import (
	"net/http"

	"github.com/jmalda/garden/internal/api/middleware"
	"github.com/jmalda/garden/internal/service"
)

type GraphHandler struct {
	svc *service.GraphService
}

func NewGraphHandler(svc *service.GraphService) *GraphHandler {
	return &GraphHandler{svc: svc}
}

// View returns the resolved garden graph. Unresolvable connections are
// reported in the payload, never as an error.
func (h *GraphHandler) View(w http.ResponseWriter, r *http.Request) {
	account := middleware.AccountFromContext(r.Context())
	if account == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	view, err := h.svc.View(r.Context(), account.ID)
	if err != nil {
		writeStoreError(w, err, "failed to build graph")
		return
	}
	writeJSON(w, http.StatusOK, view)
}
