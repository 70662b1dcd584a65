package api

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	ScamType    string `json:"scamType" form:"scamType" validate:"required,oneof=phone email business"`
	Description string `json:"description,omitempty" validate:"required"`
	Upload      string `form:"upload" validate:"required"`
}

func TestValidatorReportsJSONFieldNames(t *testing.T) {
	err := NewValidator().Validate(&sample{ScamType: "fax"})
	require.Error(t, err)

	var validationErrs validator.ValidationErrors
	require.True(t, errors.As(err, &validationErrs))

	fields := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fields = append(fields, fe.Field())
	}
	assert.ElementsMatch(t, []string{"scamType", "description", "upload"}, fields)
}

func TestValidatorAcceptsValidInput(t *testing.T) {
	err := NewValidator().Validate(&sample{ScamType: "phone", Description: "robocall", Upload: "x"})
	assert.NoError(t, err)
}
