package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"go-store-builder/internal/apperr"
	"go-store-builder/internal/logger"
)

// AppError represents a custom error type for the application.
type AppError struct {
	Error   error
	Message string
	Code    int
}

// AppHandler is a custom handler function type that returns an AppError.
type AppHandler func(http.ResponseWriter, *http.Request) *AppError

// FromError maps an error chain onto an AppError using the apperr taxonomy.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Error: err, Message: apperr.Message(err), Code: apperr.StatusCode(err)}
}

// BadRequest builds a 400 AppError with a user-facing message.
func BadRequest(msg string) *AppError {
	return &AppError{Error: apperr.Validation("%s", msg), Message: msg, Code: http.StatusBadRequest}
}

// envelope is the body shape of every JSON response.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Detail  string      `json:"detail,omitempty"`
}

// WriteJSON writes v as a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteData writes a success envelope around data.
func WriteData(w http.ResponseWriter, status int, data interface{}) {
	WriteJSON(w, status, envelope{Success: true, Data: data})
}

// WriteError writes a failure envelope. detail is only sent when non-empty.
func WriteError(w http.ResponseWriter, status int, msg, detail string) {
	WriteJSON(w, status, envelope{Success: false, Error: msg, Detail: detail})
}

// Error is a middleware that converts handler errors into JSON error
// responses. With dev set, responses carry the wrapped error chain and
// panics carry a stack trace.
func Error(log logger.Logger, dev bool) func(AppHandler) http.Handler {
	return func(next AppHandler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					err, ok := rec.(error)
					if !ok {
						err = fmt.Errorf("%v", rec)
					}
					stack := string(debug.Stack())
					log.With(map[string]interface{}{"path": r.URL.Path, "stack": stack}).Error(err, "Panic recovered")
					detail := ""
					if dev {
						detail = err.Error() + "\n" + stack
					}
					WriteError(w, http.StatusInternalServerError, apperr.Message(err), detail)
				}
			}()

			appErr := next(w, r)
			if appErr == nil {
				return
			}
			if appErr.Code == 0 {
				appErr.Code = http.StatusInternalServerError
			}
			if appErr.Message == "" {
				appErr.Message = apperr.Message(appErr.Error)
			}

			fields := map[string]interface{}{"path": r.URL.Path, "method": r.Method, "status": appErr.Code}
			if appErr.Code >= http.StatusInternalServerError {
				log.With(fields).Error(appErr.Error, appErr.Message)
			} else if appErr.Error != nil {
				fields["error"] = appErr.Error.Error()
				log.With(fields).Debug(appErr.Message)
			}

			detail := ""
			if dev && appErr.Error != nil {
				detail = appErr.Error.Error()
			}
			WriteError(w, appErr.Code, appErr.Message, detail)
		})
	}
}
