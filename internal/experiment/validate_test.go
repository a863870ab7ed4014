package experiment

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBasicInfo(t *testing.T) {
	require.NoError(t, ValidateBasicInfo(BasicInfo{Focus: "SMS", Name: "Test", Description: "d"}))

	err := ValidateBasicInfo(BasicInfo{Focus: "  ", Name: "Test"})
	require.Error(t, err)

	var ves ValidationErrors
	require.True(t, errors.As(err, &ves))
	assert.Len(t, ves, 2)
	assert.Equal(t, "Please provide the focus of your experiment", ves.For("Focus"))
	assert.Equal(t, "Description is required", ves.For("Description"))
	assert.Empty(t, ves.For("Name"))
}

func TestValidateVariableName(t *testing.T) {
	existing := []Variable{{Name: "Engagement"}}

	assert.ErrorIs(t, ValidateVariableName(" ", existing), ErrEmptyVariable)
	assert.ErrorIs(t, ValidateVariableName("Engagement", existing), ErrDuplicateVariable)
	assert.NoError(t, ValidateVariableName("engagement", existing), "names compare case-sensitively")
}

func TestInferDataType(t *testing.T) {
	assert.Equal(t, DataNumeric, InferDataType("Conversion Rate"))
	assert.Equal(t, DataCategorical, InferDataType("Device Type"))
	assert.Equal(t, DataBinary, InferDataType("Has Account"))
	assert.Equal(t, DataNumeric, InferDataType("Recovery Time"))
}
