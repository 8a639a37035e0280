package middleware

import (
	"net/http"

	"go-store-builder/internal/apperr"
	"go-store-builder/internal/logger"
	"go-store-builder/internal/session"

	"github.com/casbin/casbin/v2"
)

// Authorizer creates a new middleware for authorization.
// It checks the user's permissions using Casbin based on session data.
// Requests without a session that are denied get 401, signed-in users get 403.
func Authorizer(e casbin.IEnforcer, sm session.Manager, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userInfo := &UserInfo{Subject: Anonymous}
			if subject := sm.GetString(r.Context(), session.KeySubject); subject != "" {
				userInfo = &UserInfo{Subject: subject, UserID: sm.GetInt64(r.Context(), session.KeyUserID)}
			}
			r = r.WithContext(SetUserInfo(r.Context(), userInfo))

			allowed, err := e.Enforce(userInfo.Subject, r.URL.Path, r.Method)
			if err != nil {
				log.Error(err, "Authorization error")
				WriteError(w, http.StatusInternalServerError, apperr.Message(err), "")
				return
			}
			if !allowed {
				if userInfo.IsAnonymous() {
					WriteError(w, http.StatusUnauthorized, apperr.Message(apperr.ErrUnauthorized), "")
					return
				}
				WriteError(w, http.StatusForbidden, apperr.Message(apperr.ErrForbidden), "")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
