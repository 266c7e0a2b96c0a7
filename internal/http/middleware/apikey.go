package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/wolfman30/honeypot-agent/pkg/logging"
)

// APIKeyHeader is the header callers authenticate with.
const APIKeyHeader = "x-api-key"

// APIKey rejects requests whose x-api-key header does not match secret.
func APIKey(secret string, logger *logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	expected := []byte(secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := []byte(r.Header.Get(APIKeyHeader))
			if len(expected) == 0 || len(got) == 0 || subtle.ConstantTimeCompare(got, expected) != 1 {
				logger.Warn("auth_failed",
					"reason", "invalid_or_missing_api_key",
					"request_id", r.Header.Get(RequestIDHeader),
				)
				writeDetail(w, http.StatusUnauthorized, "Invalid or missing API key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
