package handlers

import (
	"net/http"
	"strings"

	"github.com/jmalda/garden/internal/api/middleware"
	"github.com/jmalda/garden/internal/domain"
)

// maxUploadBytes caps illustration uploads at 10 MiB.
const maxUploadBytes = 10 << 20

type MediaHandler struct {
	images domain.ImageStore
}

func NewMediaHandler(images domain.ImageStore) *MediaHandler {
	return &MediaHandler{images: images}
}

// Upload accepts a multipart image and stores it in the object store.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	account := middleware.AccountFromContext(r.Context())
	if account == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if h.images == nil {
		writeError(w, http.StatusServiceUnavailable, "media storage is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body or file too large")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "image field is required")
		return
	}
	defer func() { _ = file.Close() }()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		writeError(w, http.StatusBadRequest, "only image uploads are accepted")
		return
	}

	url, err := h.images.Upload(r.Context(), header.Filename, contentType, header.Size, file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store image")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}
