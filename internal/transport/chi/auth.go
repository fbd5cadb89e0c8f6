package chi

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// DefaultExemptPaths bypass authentication so probes and scrapers work without a key.
var DefaultExemptPaths = []string{"/health", "/metrics"}

// BearerAuthMiddleware validates "Authorization: Bearer <key>" against apiKeys.
// Empty keys are ignored; with no keys left authentication is disabled.
// exempt defaults to DefaultExemptPaths when omitted.
func BearerAuthMiddleware(apiKeys []string, exempt ...string) func(http.Handler) http.Handler {
	var keys [][]byte
	for _, k := range apiKeys {
		if k != "" {
			keys = append(keys, []byte(k))
		}
	}
	if len(exempt) == 0 {
		exempt = DefaultExemptPaths
	}
	skip := make(map[string]struct{}, len(exempt))
	for _, p := range exempt {
		skip[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := skip[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			token, msg := bearerToken(r)
			if msg != "" {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, msg)
				return
			}
			if !knownKey(keys, token) {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "invalid api key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the token or returns a client-facing reason.
func bearerToken(r *http.Request) (string, string) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return "", "missing authorization header"
	}
	if !strings.HasPrefix(auth, bearerPrefix) {
		return "", "authorization header must use Bearer scheme"
	}
	return strings.TrimSpace(auth[len(bearerPrefix):]), ""
}

// knownKey compares against every key in constant time.
func knownKey(keys [][]byte, token string) bool {
	t := []byte(token)
	found := 0
	for _, k := range keys {
		found |= subtle.ConstantTimeCompare(k, t)
	}
	return found == 1
}
