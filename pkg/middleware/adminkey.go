package middleware

import (
	"crypto/subtle"
	"net/http"

	"goride/pkg/utils"

	"go.uber.org/zap"
)

// AdminKey guards operational endpoints (driver approval) with a shared
// X-Admin-Key header. There is no admin role in the account model, so the
// key lives in config. Comparison is constant-time.
func AdminKey(adminConfig utils.AdminConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if adminConfig.APIKey == "" {
				logger.Warn("Admin endpoint hit but no admin key configured",
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Admin access disabled")
				return
			}

			key := r.Header.Get("X-Admin-Key")
			if subtle.ConstantTimeCompare([]byte(key), []byte(adminConfig.APIKey)) != 1 {
				logger.Warn("Admin key mismatch",
					zap.String("path", r.URL.Path),
					zap.String("ip", r.RemoteAddr))
				utils.ResponseForbidden(w, "Admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
