package service

import (
	"errors"
	"fmt"
)

const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeInternal           = "INTERNAL_ERROR"
	CodeCategoryNotFound   = "CATEGORY_NOT_FOUND"
	CodeCategoryHasTasks   = "CATEGORY_HAS_TASKS"
	CodeNoCategories       = "NO_CATEGORIES"
	CodeCategoriesNotFound = "CATEGORIES_NOT_FOUND"
	CodeTaskNotFound       = "TASK_NOT_FOUND"
	CodeHabitNotFound      = "HABIT_NOT_FOUND"
	CodeEmptyHabitsList    = "EMPTY_HABITS_LIST"
	CodeHabitsNotFound     = "HABITS_NOT_FOUND"
)

const (
	MsgValidation         = "One or more validation errors occurred"
	MsgInternal           = "An unexpected error occurred. Please try again later."
	MsgCategoryNotFound   = "Category not found"
	MsgCategoryHasTasks   = "Cannot delete category that has tasks"
	MsgNoCategories       = "No categories provided for reordering"
	MsgCategoriesNotFound = "One or more categories not found"
	MsgTaskNotFound       = "Task not found"
	MsgHabitNotFound      = "Habit not found"
	MsgEmptyHabitsList    = "No habits provided for reordering"
	MsgHabitsNotFound     = "Some habits not found"
)

// FieldError is one offending input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type BusinessError struct {
	Status  Status
	Code    string
	Message string
	Fields  []FieldError
	Details map[string]any
	Err     error
}

type Detail struct {
	Key     string
	Payload any
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

func ToDetail(key string, payload any) Detail {
	return Detail{
		Key:     key,
		Payload: payload,
	}
}

func NewBusinessError(status Status, code string, message string, details ...Detail) *BusinessError {
	busErr := &BusinessError{
		Status:  status,
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}

	for _, detail := range details {
		busErr.Details[detail.Key] = detail.Payload
	}

	return busErr
}

func NewNotFound(code, message string, details ...Detail) *BusinessError {
	return NewBusinessError(StatusNotFound, code, message, details...)
}

func NewBadRequest(code, message string, details ...Detail) *BusinessError {
	return NewBusinessError(StatusBadRequest, code, message, details...)
}

func NewUnprocessable(code, message string, details ...Detail) *BusinessError {
	return NewBusinessError(StatusUnprocessable, code, message, details...)
}

func NewValidationError(fields ...FieldError) *BusinessError {
	return &BusinessError{
		Status:  StatusBadRequest,
		Code:    CodeValidation,
		Message: MsgValidation,
		Fields:  fields,
	}
}

func NewInternal(err error) *BusinessError {
	return &BusinessError{
		Status:  StatusInternal,
		Code:    CodeInternal,
		Message: MsgInternal,
		Err:     err,
	}
}

// AsBusinessError unwraps err down to a *BusinessError.
func AsBusinessError(err error) (*BusinessError, bool) {
	var busErr *BusinessError
	if errors.As(err, &busErr) {
		return busErr, true
	}
	return nil, false
}
