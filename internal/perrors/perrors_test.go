package perrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_CapturesCodeAndStacktrace(t *testing.T) {
	err := New(ErrCodeInvalidRequest, "Invalid seed", errors.New("seed too short"), map[string]interface{}{"name": "Elon"})

	var perr Err
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "seed too short", perr.Error())
	assert.Equal(t, http.StatusBadRequest, perr.HttpStatus())
	assert.Equal(t, "Invalid seed", perr.Message)
	assert.NotEmpty(t, perr.Stacktrace)
	assert.Equal(t, "Elon", perr.Args[0]["name"])
}

func TestErr_UnwrapsCause(t *testing.T) {
	sentinel := errors.New("companion not found")
	err := NewErrNotFound("Companion not found", fmt.Errorf("lookup: %w", sentinel))

	assert.ErrorIs(t, err, sentinel)
}

func TestNew_NilCause(t *testing.T) {
	err := NewErrInternalServerError("boom", nil)
	assert.Equal(t, "error missing", err.Error())
}

func TestNewErrValidation(t *testing.T) {
	err := NewErrValidation("Invalid companion", errors.New("validation failed"), map[string]string{
		"name": "Name is required.",
	})

	var perr Err
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, http.StatusUnprocessableEntity, perr.HttpStatus())
	assert.Equal(t, "validation_failed", perr.Code.Code)
	assert.Equal(t, "Name is required.", perr.Fields["name"])
}

func TestNewErrNotFound(t *testing.T) {
	err := NewErrNotFound("Companion not found", errors.New("missing"))

	var perr Err
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, http.StatusNotFound, perr.HttpStatus())
}
