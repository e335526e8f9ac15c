package companionform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewState_EmptyDefaults(t *testing.T) {
	s := NewState(nil)

	assert.Equal(t, Draft{}, s.Values())
	assert.Empty(t, s.Value(FieldCategoryID))
	assert.Nil(t, s.Errors())
	assert.False(t, s.IsSubmitting())
	assert.False(t, s.Disabled())
}

func TestNewState_SeededFromRecord(t *testing.T) {
	rec := &Record{ID: "abc123", Draft: validDraft()}
	s := NewState(rec)

	assert.Equal(t, rec.Draft, s.Values())

	// The state owns its copy.
	rec.Name = "changed"
	assert.Equal(t, "Elon", s.Value(FieldName))
}

func TestState_SetFieldDoesNotValidate(t *testing.T) {
	s := NewState(nil)

	require.NoError(t, s.SetField(FieldName, ""))
	require.NoError(t, s.SetField(FieldSeed, "short"))

	assert.Nil(t, s.Errors())
	assert.Equal(t, "short", s.Value(FieldSeed))
	assert.ErrorIs(t, s.SetField(Field("avatar"), "x"), ErrUnknownField)
}

func TestState_ValidateFieldForInlineFeedback(t *testing.T) {
	s := NewState(nil)

	assert.Equal(t, "Name is required.", s.ValidateField(FieldName))
	assert.Equal(t, "Name is required.", s.Error(FieldName))

	require.NoError(t, s.SetField(FieldName, "Ada"))
	assert.Empty(t, s.ValidateField(FieldName))
	assert.Empty(t, s.Error(FieldName))
	assert.NotContains(t, s.Errors(), FieldName)
}

func TestState_BeginAndFinish(t *testing.T) {
	s := NewState(&Record{ID: "abc123", Draft: validDraft()})

	draft, errs, err := s.begin()
	require.NoError(t, err)
	require.Nil(t, errs)
	assert.Equal(t, validDraft(), draft)
	assert.True(t, s.IsSubmitting())
	assert.True(t, s.Disabled())

	assert.ErrorIs(t, s.SetField(FieldName, "other"), ErrFormDisabled)
	_, _, err = s.begin()
	assert.ErrorIs(t, err, ErrSubmitInProgress)

	s.finish()
	assert.False(t, s.IsSubmitting())
	assert.NoError(t, s.SetField(FieldName, "other"))
}

func TestState_BeginRejectsInvalidDraft(t *testing.T) {
	s := NewState(nil)

	_, errs, err := s.begin()
	require.NoError(t, err)
	assert.Len(t, errs, 6)
	assert.Equal(t, errs, s.Errors())
	assert.False(t, s.IsSubmitting())

	// The returned map is a copy.
	delete(errs, FieldName)
	assert.Equal(t, "Name is required.", s.Error(FieldName))
}
