package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldByName(t *testing.T, name string) Field {
	t.Helper()
	for _, f := range DefaultFields() {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("field %q not found", name)
	return Field{}
}

func TestDefaultFieldsOrder(t *testing.T) {
	var names []string
	for _, f := range DefaultFields() {
		names = append(names, f.Name)
	}

	assert.Equal(t, []string{
		FieldFullName, FieldEmail, FieldPhone, FieldExperience,
		FieldPositions, FieldLocation, FieldTechStack,
	}, names)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		field   string
		input   string
		want    string
		wantErr error
	}{
		{FieldFullName, "  Jane Doe ", "Jane Doe", nil},
		{FieldFullName, "O'Neil-Smith Jr.", "O'Neil-Smith Jr.", nil},
		{FieldFullName, "J", "", ErrPatternMismatch},
		{FieldFullName, "R2D2", "", ErrPatternMismatch},
		{FieldEmail, "jane@example.com", "jane@example.com", nil},
		{FieldEmail, "jane.example.com", "", ErrPatternMismatch},
		{FieldPhone, "555-123-4567", "555-123-4567", nil},
		{FieldPhone, "+1 (555) 123 4567", "+1 (555) 123 4567", nil},
		{FieldPhone, "12345", "", ErrPatternMismatch},
		{FieldPhone, "call me maybe", "", ErrPatternMismatch},
		{FieldExperience, "0", "0", nil},
		{FieldExperience, "99", "99", nil},
		{FieldExperience, "100", "", ErrPatternMismatch},
		{FieldExperience, "five", "", ErrPatternMismatch},
		{FieldExperience, "", "", ErrEmptyInput},
		{FieldExperience, "   ", "", ErrEmptyInput},
		{FieldPositions, "Backend Engineer", "Backend Engineer", nil},
		{FieldPositions, "QA", "", ErrPatternMismatch},
		{FieldLocation, "Remote", "Remote", nil},
		{FieldTechStack, "Go, PostgreSQL", "Go, PostgreSQL", nil},
		{FieldTechStack, "Go", "", ErrPatternMismatch},
		{FieldPositions, "ab\ncdef", "", ErrPatternMismatch},
		{FieldLocation, "NY\nNew York", "", ErrPatternMismatch},
		{FieldTechStack, "Go\nPython, Rust", "", ErrPatternMismatch},
		{FieldTechStack, "Go, Rust\nand some C", "Go, Rust\nand some C", nil},
	}

	for _, tt := range tests {
		t.Run(tt.field+"/"+tt.input, func(t *testing.T) {
			field := fieldByName(t, tt.field)
			got, err := Validate(field, tt.input)

			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			if tt.wantErr == ErrEmptyInput {
				assert.Equal(t, EmptyInputMessage, verr.Message)
			} else {
				assert.Equal(t, field.ErrorMessage, verr.Message)
			}
		})
	}
}

func TestValidateKeepsCase(t *testing.T) {
	got, err := Validate(fieldByName(t, FieldLocation), "  san FRANCISCO  ")
	require.NoError(t, err)
	assert.Equal(t, "san FRANCISCO", got)
}

func TestNewField(t *testing.T) {
	f, err := NewField("Age", `^\d+$`, "digits only")
	require.NoError(t, err)
	assert.True(t, f.Pattern.MatchString("42"))

	_, err = NewField("Broken", `([`, "never")
	assert.Error(t, err)
}
