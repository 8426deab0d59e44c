package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"

	"github.com/jmalda/garden/internal/api/middleware"
	"github.com/jmalda/garden/internal/domain"
)

type AccountHandler struct {
	store domain.AccountStore
}

func NewAccountHandler(store domain.AccountStore) *AccountHandler {
	return &AccountHandler{store: store}
}

type createAccountRequest struct {
	Name string `json:"name"`
}

type createAccountResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	APIKey string `json:"api_key"`
}

func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	apiKey, err := generateAPIKey()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate API key")
		return
	}

	account := &domain.Account{
		Name:       req.Name,
		APIKeyHash: middleware.HashAPIKey(apiKey),
	}

	if err := h.store.Create(r.Context(), account); err != nil {
		writeStoreError(w, err, "failed to create account")
		return
	}

	writeJSON(w, http.StatusCreated, createAccountResponse{
		ID:     account.ID.String(),
		Name:   account.Name,
		APIKey: apiKey,
	})
}

func generateAPIKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "gk_" + hex.EncodeToString(b), nil
}
