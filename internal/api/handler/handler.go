package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/Rrens/coworking-reservation/internal/api/middleware"
	"github.com/Rrens/coworking-reservation/internal/api/response"
	"github.com/Rrens/coworking-reservation/internal/domain"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// normalizer is implemented by inputs that clean themselves up before
// validation, e.g. trimming names
type normalizer interface {
	Normalize()
}

// decodeAndValidate reads a JSON body into dst and validates it. On failure it
// writes a 400 and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "invalid request body: "+err.Error())
		return false
	}

	if n, ok := dst.(normalizer); ok {
		n.Normalize()
	}

	if err := validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			response.BadRequest(w, fieldErrors(validationErrors))
			return false
		}
		response.BadRequest(w, err.Error())
		return false
	}
	return true
}

func fieldErrors(validationErrors validator.ValidationErrors) map[string]string {
	errs := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		field := e.Field()
		switch e.Tag() {
		case "required":
			errs[field] = "field is required"
		case "email":
			errs[field] = "invalid email format"
		case "oneof":
			errs[field] = "must be one of: " + e.Param()
		case "min":
			errs[field] = "must be at least " + e.Param()
		case "max":
			errs[field] = "must be at most " + e.Param()
		default:
			errs[field] = "validation failed on " + e.Tag()
		}
	}
	return errs
}

// caller returns the authenticated identity or writes a 401
func caller(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.Unauthorized(w, "Not authorize to access this route")
	}
	return identity, ok
}
