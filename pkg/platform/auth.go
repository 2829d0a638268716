package platform

import (
	"crypto/subtle"
	"net/http"
)

// APIKeyMiddleware enforces the X-API-Key header against COSTIMATE_API_KEY.
// When no key is configured the middleware is a pass-through, so local and
// single-user deployments need no setup.
func APIKeyMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := GetEnv("COSTIMATE_API_KEY", "")
		if key == "" {
			next(w, r)
			return
		}

		got := r.Header.Get("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
