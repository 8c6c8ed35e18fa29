package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"dayTracker/internal/models/habit"
	"dayTracker/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// pathID reads a uuid URL parameter; the nil uuid is rejected too.
func pathID(r *http.Request, name string) (uuid.UUID, *service.FieldError) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, &service.FieldError{
			Field:   name,
			Message: fmt.Sprintf("%s must be a valid, non-empty UUID", name),
		}
	}
	return id, nil
}

func queryBool(r *http.Request, name string) (*bool, *service.FieldError) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, &service.FieldError{Field: name, Message: fmt.Sprintf("%s must be true or false", name)}
	}
	return &v, nil
}

// queryInt returns def when the parameter is absent.
func queryInt(r *http.Request, name string, def int) (int, *service.FieldError) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, &service.FieldError{Field: name, Message: fmt.Sprintf("%s must be a positive integer", name)}
	}
	return v, nil
}

func queryUUID(r *http.Request, name string) (*uuid.UUID, *service.FieldError) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, &service.FieldError{Field: name, Message: fmt.Sprintf("%s must be a valid UUID", name)}
	}
	return &id, nil
}

func queryDate(r *http.Request, name string) (*habit.Date, *service.FieldError) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	d, err := habit.ParseDate(raw)
	if err != nil {
		return nil, &service.FieldError{Field: name, Message: fmt.Sprintf("%s must be a date in YYYY-MM-DD format", name)}
	}
	return &d, nil
}

// collect keeps the non-nil field errors.
func collect(errs ...*service.FieldError) []service.FieldError {
	var fields []service.FieldError
	for _, fe := range errs {
		if fe != nil {
			fields = append(fields, *fe)
		}
	}
	return fields
}
