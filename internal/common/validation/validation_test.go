package validation

import (
	"errors"
	"testing"

	apperrors "realty-crm/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	ID       string `validate:"required,uuid"`
	Priority string `validate:"omitempty,oneof=low medium high"`
}

func TestStruct(t *testing.T) {
	assert.NoError(t, Struct(sampleRequest{ID: "1b4e28ba-2fa1-11d2-883f-0016d3cca427"}))

	err := Struct(sampleRequest{Priority: "urgent"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
	assert.Contains(t, err.Error(), "ID is required")
	assert.Contains(t, err.Error(), "Priority must be one of [low medium high]")
}

const greetingSchema = `{
	"type": "object",
	"required": ["name"],
	"properties": {"name": {"type": "string", "minLength": 1}}
}`

func TestSchemaSet(t *testing.T) {
	set, err := NewSchemaSet(map[string]string{"greeting": greetingSchema})
	require.NoError(t, err)
	assert.True(t, set.Has("greeting"))
	assert.False(t, set.Has("farewell"))

	assert.NoError(t, set.Validate("greeting", map[string]interface{}{"name": "Asha"}))

	err = set.Validate("greeting", map[string]interface{}{"name": 42})
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))

	err = set.Validate("greeting", nil)
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))

	err = set.Validate("farewell", map[string]interface{}{})
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
}

func TestNewSchemaSet_RejectsMalformedSchema(t *testing.T) {
	_, err := NewSchemaSet(map[string]string{"bad": `{"type": 12}`})
	assert.Error(t, err)
}
