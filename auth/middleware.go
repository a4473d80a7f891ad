package auth

import (
	"encoding/json"
	"net/http"
)

// Middleware returns net/http middleware that authenticates every request
// with a. Accepted requests carry the identity in their context. Rejected
// requests get 401 with a JSON error body; internal errors get 500.
func Middleware(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			req := NewRequest(r)

			if !a.Supports(ctx, req) {
				writeError(w, http.StatusUnauthorized, ErrMissingCredentials)
				return
			}

			result, err := a.Authenticate(ctx, req)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err)
				return
			}
			if !result.Authenticated {
				writeError(w, http.StatusUnauthorized, result.Error)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, result.Identity)))
		})
	}
}

func writeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		err = ErrInvalidCredentials
	}
	w.Header().Set("Content-Type", "application/json")
	if code == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="status"`)
	}
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
