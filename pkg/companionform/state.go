package companionform

import (
	"errors"
	"sync"
)

var ErrFormDisabled = errors.New("companionform: form is disabled while submitting")

// Placeholder is shown by the category select while no category is chosen.
const Placeholder = "Select a category"

// State holds the current field values, the inline field errors and the
// in-flight flag of one form.
type State struct {
	mu         sync.RWMutex
	values     Draft
	errors     FieldErrors
	submitting bool
}

// NewState seeds the form from existing, or from empty values when existing is nil.
func NewState(existing *Record) *State {
	s := &State{}
	if existing != nil {
		s.values = existing.Draft
	}
	return s
}

// SetField replaces the value of one field. It does not validate.
func (s *State) SetField(f Field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submitting {
		return ErrFormDisabled
	}
	return s.values.set(f, value)
}

// ValidateField re-evaluates f against the current values and stores the
// resulting inline error. It returns the message, or "" when f is valid.
func (s *State) ValidateField(f Field) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := ValidateField(s.values, f)
	if msg == "" {
		delete(s.errors, f)
		return ""
	}
	if s.errors == nil {
		s.errors = FieldErrors{}
	}
	s.errors[f] = msg
	return msg
}

func (s *State) Value(f Field) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values.Get(f)
}

func (s *State) Values() Draft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values
}

// Errors returns a copy of the current inline errors.
func (s *State) Errors() FieldErrors {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errors.Clone()
}

func (s *State) Error(f Field) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errors[f]
}

func (s *State) IsSubmitting() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.submitting
}

// Disabled reports whether inputs and the submit action must be disabled.
func (s *State) Disabled() bool {
	return s.IsSubmitting()
}

// begin validates the current values and, when they pass, marks the form as
// submitting and returns the draft to send.
func (s *State) begin() (Draft, FieldErrors, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submitting {
		return Draft{}, nil, ErrSubmitInProgress
	}

	if errs := Validate(s.values); errs != nil {
		s.errors = errs
		return Draft{}, errs.Clone(), nil
	}

	s.errors = nil
	s.submitting = true
	return s.values, nil, nil
}

func (s *State) finish() {
	s.mu.Lock()
	s.submitting = false
	s.mu.Unlock()
}
