package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jmalda/garden/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeStoreError surfaces the classified hint for recognizable
// database failures and a generic message otherwise.
func writeStoreError(w http.ResponseWriter, err error, fallback string) {
	var se *store.StoreError
	if errors.As(err, &se) && se.Hint != "" {
		writeError(w, http.StatusInternalServerError, fallback+": "+se.Hint)
		return
	}
	writeError(w, http.StatusInternalServerError, fallback)
}
