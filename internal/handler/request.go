package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"go-store-builder/internal/apperr"
	"go-store-builder/internal/data"
	"go-store-builder/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeJSON reads a JSON body into dst and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) *middleware.AppError {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return middleware.BadRequest("request body is required")
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return middleware.BadRequest(fmt.Sprintf("%s has the wrong type", typeErr.Field))
		}
		return middleware.BadRequest("request body is not valid JSON")
	}
	if err := validate.Struct(dst); err != nil {
		return middleware.BadRequest(validationMessage(err))
	}
	return nil
}

// validationMessage turns the first validation failure into one sentence.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}
	fe := verrs[0]
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, fe.Param())
	default:
		return field + " is invalid"
	}
}

// pathID parses a positive integer URL parameter.
func pathID(r *http.Request, name string) (int64, *middleware.AppError) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, middleware.BadRequest("invalid " + name)
	}
	return id, nil
}

// currentUser returns the signed-in user's id, or an Unauthorized error.
func currentUser(r *http.Request) (int64, *middleware.AppError) {
	u := middleware.GetUserInfo(r.Context())
	if u.IsAnonymous() {
		return 0, middleware.FromError(apperr.ErrUnauthorized)
	}
	return u.UserID, nil
}

// StoreResolver finds a store by numeric id or name.
type StoreResolver interface {
	Resolve(ctx context.Context, ref string) (*data.Store, error)
}

// storeParam resolves the {store} URL parameter.
func storeParam(r *http.Request, stores StoreResolver) (*data.Store, *middleware.AppError) {
	store, err := stores.Resolve(r.Context(), chi.URLParam(r, "store"))
	if err != nil {
		return nil, middleware.FromError(err)
	}
	return store, nil
}
