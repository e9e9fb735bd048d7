package middleware

import (
	"crypto/subtle"
	"net/http"

	"hibachi-booking/pkg/utils"

	"go.uber.org/zap"
)

// AdminKey guards operational endpoints (cache stats, manual sweeps) behind
// a shared API key presented in the X-API-Key header. An empty configured
// key disables the routes entirely.
func AdminKey(apiKey string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				utils.ResponseForbidden(w, "Admin endpoints are disabled")
				return
			}

			presented := r.Header.Get("X-API-Key")
			if subtle.ConstantTimeCompare([]byte(presented), []byte(apiKey)) != 1 {
				logger.Warn("Rejected admin request",
					zap.String("path", r.URL.Path),
					zap.String("ip", r.RemoteAddr),
				)
				utils.ResponseUnauthorized(w, "Invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
