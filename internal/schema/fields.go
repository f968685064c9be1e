package schema

import (
	"fmt"
	"regexp"
)

// Имена полей анкеты кандидата
const (
	FieldFullName   = "Full Name"
	FieldEmail      = "Email Address"
	FieldPhone      = "Phone Number"
	FieldExperience = "Years of Experience"
	FieldPositions  = "Desired Position(s)"
	FieldLocation   = "Current Location"
	FieldTechStack  = "Tech Stack"
)

// Field описывает одно поле анкеты: имя, правило проверки и сообщение об ошибке
type Field struct {
	Name         string
	Pattern      *regexp.Regexp
	ErrorMessage string
}

// NewField компилирует правило проверки и создает поле
func NewField(name, pattern, errorMessage string) (Field, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Field{}, fmt.Errorf("поле %q: неверный шаблон %q: %w", name, pattern, err)
	}

	return Field{
		Name:         name,
		Pattern:      re,
		ErrorMessage: errorMessage,
	}, nil
}

// DefaultFields возвращает стандартную анкету кандидата в фиксированном порядке.
// Каждый вызов возвращает новый срез, так что вызывающий код не может испортить каталог.
func DefaultFields() []Field {
	return []Field{
		{FieldFullName, regexp.MustCompile(`^[A-Za-z\s\-\.']{2,50}$`), "Please enter a valid name (2-50 characters)"},
		{FieldEmail, regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`), "Please enter a valid email address"},
		{FieldPhone, regexp.MustCompile(`^[\d\-\+\s\(\)]{7,20}$`), "Please enter a valid phone number (7-20 digits)"},
		{FieldExperience, regexp.MustCompile(`^\d{1,2}$`), "Please enter a valid number (0-99)"},
		{FieldPositions, regexp.MustCompile(`^.{3,100}`), "Please enter position(s) (3-100 characters)"},
		{FieldLocation, regexp.MustCompile(`^.{3,100}`), "Please enter location (3-100 characters)"},
		{FieldTechStack, regexp.MustCompile(`^.{5,200}`), "Please describe your tech stack (5-200 characters)"},
	}
}
