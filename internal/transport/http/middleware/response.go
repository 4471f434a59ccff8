package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/smart-campus-api/internal/domain"
)

// writeJSONError writes the standard {error, kind} body.
func writeJSONError(w http.ResponseWriter, status int, kind domain.Kind, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg, "kind": string(kind)})
}
