package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/Rakhulsr/go-storefront/app/services"
	"github.com/go-playground/validator/v10"
)

type contextKey string

const (
	ContextKeyShopper   contextKey = "shopper"
	ContextKeyRequestID contextKey = "requestID"

	CSRFHeader = "X-CSRF-Token"

	maxBodyBytes = 1 << 20
)

func WithShopper(ctx context.Context, s *services.Shopper) context.Context {
	return context.WithValue(ctx, ContextKeyShopper, s)
}

// ShopperFromContext returns the shopper attached by the session middleware,
// or nil when the request did not pass through it.
func ShopperFromContext(ctx context.Context) *services.Shopper {
	s, _ := ctx.Value(ContextKeyShopper).(*services.Shopper)
	return s
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ContextKeyRequestID).(string)
	return id
}

// DecodeJSONBody decodes a single JSON object from the request body into dst.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("malformed JSON body: %w", err)
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

// FormatValidationErrors turns validator errors into field → message pairs,
// keyed by the field's JSON name.
func FormatValidationErrors(errs validator.ValidationErrors) map[string]string {
	errorMessages := make(map[string]string)
	for _, err := range errs {
		field := lowerFirst(err.Field())
		switch err.Tag() {
		case "required":
			errorMessages[field] = fmt.Sprintf("%s is required.", field)
		case "min":
			errorMessages[field] = fmt.Sprintf("%s must be at least %s.", field, err.Param())
		case "max":
			errorMessages[field] = fmt.Sprintf("%s must be at most %s.", field, err.Param())
		case "gte":
			errorMessages[field] = fmt.Sprintf("%s must be %s or more.", field, err.Param())
		case "oneof":
			errorMessages[field] = fmt.Sprintf("%s must be one of: %s.", field, err.Param())
		default:
			errorMessages[field] = fmt.Sprintf("%s failed the %s check.", field, err.Tag())
		}
	}
	return errorMessages
}

// NewValidator reports field names by their json tag so error keys match the
// request body.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
