package apierror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magnetic-studio/studio-api/internal/validation"
)

func TestFromValidation(t *testing.T) {
	err := FromValidation(validation.FieldErrors{
		{Path: "name", Message: "El nombre es obligatorio"},
		{Path: "parentDni", Message: "El DNI del tutor legal es obligatorio para menores de edad"},
	})

	var model *huma.ErrorModel
	require.True(t, errors.As(err, &model))
	assert.Equal(t, http.StatusUnprocessableEntity, model.Status)
	require.Len(t, model.Errors, 2)
	assert.Equal(t, "body.name", model.Errors[0].Location)
	assert.Equal(t, "body.parentDni", model.Errors[1].Location)
}

func TestFromValidation_OtherError(t *testing.T) {
	var model *huma.ErrorModel
	require.True(t, errors.As(FromValidation(errors.New("boom")), &model))
	assert.Equal(t, http.StatusBadRequest, model.Status)
}
