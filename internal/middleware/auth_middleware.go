package middleware

import (
	"net/http"

	"github.com/wecomkit/rulesync/internal/auth"
	"github.com/wecomkit/rulesync/internal/constants"
	"github.com/wecomkit/rulesync/internal/utils"
)

// APIKeyAuth is a middleware that requires a valid admin API key in the
// X-API-Key header. Requests without a key, or with a key that fails
// verification, are rejected with 401.
func APIKeyAuth(verifier *auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Get API key from header
			apiKey := r.Header.Get(constants.HeaderXAPIKey)
			if apiKey == "" {
				utils.Unauthorized(w, constants.MsgAuthRequired)
				return
			}

			if !verifier.Verify(apiKey) {
				utils.Unauthorized(w, constants.MsgInvalidAPIKey)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
