package schema

import (
	"errors"
	"strings"
)

// EmptyInputMessage перекрывает сообщение поля, когда ответ пустой
const EmptyInputMessage = "This field cannot be empty"

var (
	ErrEmptyInput      = errors.New("empty input")
	ErrPatternMismatch = errors.New("pattern mismatch")
)

// ValidationError возвращается Validate; Message показывается кандидату как есть
type ValidationError struct {
	Field   string
	Kind    error
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

// Validate проверяет ответ на поле и возвращает обрезанное значение
func Validate(field Field, raw string) (string, error) {
	value := strings.TrimSpace(raw)

	if value == "" {
		return "", &ValidationError{Field: field.Name, Kind: ErrEmptyInput, Message: EmptyInputMessage}
	}

	if field.Pattern != nil && !field.Pattern.MatchString(value) {
		return "", &ValidationError{Field: field.Name, Kind: ErrPatternMismatch, Message: field.ErrorMessage}
	}

	return value, nil
}
