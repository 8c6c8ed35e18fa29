package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"reflect"
	"strings"

	"dayTracker/internal/logger"
	"dayTracker/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

func checkContentType(r *http.Request, target string) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mediaType == target
}

// decodeJSON reads and validates the request body into dst. It writes the
// error response itself and reports false when the handler should stop.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Wrong content type",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		writeEnvelope(w, r, http.StatusUnsupportedMediaType, false, "Content-Type must be application/json", nil)
		return false
	}

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()

	if err := decoder.Decode(dst); err != nil {
		logger.Warn("HTTP: Failed to read JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		writeValidationError(w, r, bodyFieldError(err))
		return false
	}

	if fields := validateStruct(dst); len(fields) > 0 {
		logger.Warn("HTTP: Validation failed",
			zap.Int("fields", len(fields)),
			zap.String("first_field", fields[0].Field),
			zap.String("client_ip", r.RemoteAddr))

		writeValidationError(w, r, fields...)
		return false
	}

	return true
}

func bodyFieldError(err error) service.FieldError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return service.FieldError{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("%s has an invalid type", typeErr.Field),
		}
	}
	if errors.Is(err, io.EOF) {
		return service.FieldError{Field: "body", Message: "Request body is required"}
	}
	return service.FieldError{Field: "body", Message: "Request body is not valid JSON: " + err.Error()}
}

func validateStruct(v any) []service.FieldError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return []service.FieldError{{Field: "body", Message: err.Error()}}
	}

	fields := make([]service.FieldError, 0, len(invalid))
	for _, fe := range invalid {
		fields = append(fields, service.FieldError{
			Field:   fieldPath(fe),
			Message: fieldMessage(fe),
		})
	}
	return fields
}

// fieldPath drops the root struct name: "CategoryRequest.name" -> "name".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", name)
	case "max":
		return fmt.Sprintf("%s cannot exceed %s characters", name, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", name, fe.Param())
	case "hexcolor":
		return fmt.Sprintf("%s must be a hex color such as #3B82F6", name)
	default:
		return fmt.Sprintf("%s is invalid", name)
	}
}
