package middleware

import (
	"net/http"
	"strings"
)

// CORS lets browser-based evaluator consoles call the API. Entries are exact
// origins, "*" for any origin, or a scheme plus wildcard host such as
// "https://*.example.com" which matches any subdomain.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allowAny := false
	exact := map[string]struct{}{}
	var suffixes []string
	for _, origin := range allowedOrigins {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		switch {
		case origin == "":
		case origin == "*":
			allowAny = true
		case strings.Contains(origin, "://*."):
			scheme, host, _ := strings.Cut(origin, "://*")
			suffixes = append(suffixes, scheme+"://|"+host)
		default:
			exact[origin] = struct{}{}
		}
	}

	allowed := func(origin string) bool {
		if allowAny {
			return true
		}
		if _, ok := exact[origin]; ok {
			return true
		}
		for _, s := range suffixes {
			scheme, hostSuffix, _ := strings.Cut(s, "|")
			if strings.HasPrefix(origin, scheme) && strings.HasSuffix(origin, hostSuffix) && len(origin) > len(scheme)+len(hostSuffix) {
				return true
			}
		}
		return false
	}

	const (
		allowedHeaders = "Authorization, Content-Type, X-Request-ID, x-api-key"
		allowedMethods = "GET, HEAD, POST, OPTIONS"
	)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin != "" && allowed(origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)
				w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
				w.Header().Set("Access-Control-Expose-Headers", RequestIDHeader)
				w.Header().Set("Access-Control-Max-Age", "600")
			}

			if r.Method == http.MethodOptions && origin != "" && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
