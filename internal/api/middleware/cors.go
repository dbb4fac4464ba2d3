package middleware

import (
	"net/http"
	"os"
	"strings"
)

// The API surface is GET and POST only (extraction, workflow transitions,
// medication reference), so preflight responses never advertise more.
const (
	allowedMethods    = "GET, POST, OPTIONS"
	allowedHeaders    = "Content-Type, Authorization, Last-Event-ID"
	preflightMaxAge   = "600"
	allowedOriginsEnv = "ALLOWED_ORIGINS"
)

// corsOrigins returns the clinic front-end origins allowed to call this API.
// Unset defaults to wildcard for local development; deployments set
// ALLOWED_ORIGINS to the clinic portal hosts.
func corsOrigins() []string {
	if env := os.Getenv(allowedOriginsEnv); env != "" {
		origins := strings.Split(env, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		return origins
	}
	return []string{"*"}
}

func originAllowed(origin string, origins []string) bool {
	for _, allowed := range origins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// CORSMiddleware adds CORS headers so clinic web clients can call the API
// and subscribe to prescription event streams cross-origin.
func CORSMiddleware(next http.Handler) http.Handler {
	origins := corsOrigins()
	wildcard := origins[0] == "*"

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" && originAllowed(origin, origins) {
			if wildcard {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
		}

		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Max-Age", preflightMaxAge)
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
