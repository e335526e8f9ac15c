// Package companionform implements the companion create/update form: the
// field schema, the form state and the submission state machine that sends a
// validated draft to an Endpoint and reports the result through Feedback and
// Navigator collaborators.
package companionform

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// HomeRoute is where a successful submission navigates to.
const HomeRoute = "/"

var (
	ErrSubmitInProgress = errors.New("companionform: submission already in progress")
	ErrClosed           = errors.New("companionform: workflow closed")
)

type Mode string

const (
	ModeCreate Mode = "create"
	ModeUpdate Mode = "update"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseSubmitting
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseValidating:
		return "validating"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

type Outcome string

const (
	// OutcomeInvalid means validation rejected the draft and nothing was sent.
	OutcomeInvalid   Outcome = "invalid"
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
	// OutcomeAbandoned means the workflow was closed before the endpoint answered.
	OutcomeAbandoned Outcome = "abandoned"
)

// Result describes how a submission ended. Cause carries the endpoint error
// for logging; it is never shown to the user.
type Result struct {
	Outcome Outcome
	Errors  FieldErrors
	Cause   error
}

type Config struct {
	// Existing switches the workflow to update mode when set.
	Existing   *Record
	Categories []Category
	Endpoint   Endpoint
	Feedback   Feedback
	Navigator  Navigator
	// HomeRoute defaults to HomeRoute.
	HomeRoute string
}

// Workflow drives one form from construction to submission.
type Workflow struct {
	state      *State
	existing   *Record
	categories []Category
	endpoint   Endpoint
	feedback   Feedback
	navigator  Navigator
	homeRoute  string
	tracer     trace.Tracer

	mu     sync.Mutex
	phase  Phase
	closed bool
}

func New(conf Config) *Workflow {
	if conf.Endpoint == nil {
		panic("companionform: nil Endpoint")
	}

	w := &Workflow{
		state:      NewState(conf.Existing),
		categories: append([]Category(nil), conf.Categories...),
		endpoint:   conf.Endpoint,
		feedback:   conf.Feedback,
		navigator:  conf.Navigator,
		homeRoute:  conf.HomeRoute,
		tracer:     otel.Tracer("github.com/curaious/companion/pkg/companionform"),
	}
	if conf.Existing != nil {
		existing := *conf.Existing
		w.existing = &existing
	}
	if w.feedback == nil {
		w.feedback = nopFeedback{}
	}
	if w.navigator == nil {
		w.navigator = nopNavigator{}
	}
	if w.homeRoute == "" {
		w.homeRoute = HomeRoute
	}

	return w
}

func (w *Workflow) State() *State {
	return w.state
}

func (w *Workflow) Mode() Mode {
	if w.existing != nil {
		return ModeUpdate
	}
	return ModeCreate
}

// RecordID returns the identifier being updated, or "" in create mode.
func (w *Workflow) RecordID() string {
	if w.existing == nil {
		return ""
	}
	return w.existing.ID
}

func (w *Workflow) Categories() []Category {
	return append([]Category(nil), w.categories...)
}

func (w *Workflow) Phase() Phase {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.phase
}

func (w *Workflow) SetField(f Field, value string) error {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()

	if closed {
		return ErrClosed
	}
	return w.state.SetField(f, value)
}

// OnUpload receives the reference produced by the image upload widget.
func (w *Workflow) OnUpload(ref string) error {
	return w.SetField(FieldImageRef, ref)
}

// Close invalidates the workflow. A submission still in flight is dropped
// when it completes: no state change, no feedback, no navigation.
func (w *Workflow) Close() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
}

// Submit validates the draft and, when it passes, sends it to the endpoint.
// It returns ErrSubmitInProgress without side effects while a previous
// submission is still pending.
func (w *Workflow) Submit(ctx context.Context) (Result, error) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return Result{}, ErrClosed
	}
	// Any phase other than Idle means a previous submission has not resolved yet.
	if w.phase != PhaseIdle {
		w.mu.Unlock()
		return Result{}, ErrSubmitInProgress
	}

	w.phase = PhaseValidating
	draft, errs, err := w.state.begin()
	if err != nil {
		w.phase = PhaseIdle
		w.mu.Unlock()
		return Result{}, err
	}
	if errs != nil {
		w.phase = PhaseIdle
		w.mu.Unlock()
		return Result{Outcome: OutcomeInvalid, Errors: errs}, nil
	}
	w.phase = PhaseSubmitting
	w.mu.Unlock()

	mode := w.Mode()
	ctx, span := w.tracer.Start(ctx, "companionform.submit", trace.WithAttributes(
		attribute.String("companion.mode", string(mode)),
	))
	defer span.End()

	sendErr := w.send(ctx, mode, draft)

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		span.SetAttributes(attribute.String("companion.outcome", string(OutcomeAbandoned)))
		return Result{Outcome: OutcomeAbandoned, Cause: sendErr}, nil
	}
	if sendErr != nil {
		w.phase = PhaseFailed
	} else {
		w.phase = PhaseSucceeded
	}
	w.mu.Unlock()

	// The form stays disabled until feedback and navigation have returned.
	defer w.settle()

	if sendErr != nil {
		span.RecordError(sendErr)
		span.SetStatus(codes.Error, "submission failed")
		span.SetAttributes(attribute.String("companion.outcome", string(OutcomeFailed)))

		w.feedback.Notify(ctx, FailureNotice())
		return Result{Outcome: OutcomeFailed, Cause: sendErr}, nil
	}

	span.SetAttributes(attribute.String("companion.outcome", string(OutcomeSucceeded)))
	w.feedback.Notify(ctx, SuccessNotice())
	w.navigator.Refresh(ctx)
	w.navigator.NavigateTo(ctx, w.homeRoute)
	return Result{Outcome: OutcomeSucceeded}, nil
}

// send dispatches draft to the endpoint. A panicking endpoint is reported as a failed submission.
func (w *Workflow) send(ctx context.Context, mode Mode, draft Draft) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("companionform: endpoint panicked: %v", r)
		}
	}()

	if mode == ModeUpdate {
		return w.endpoint.Update(ctx, w.existing.ID, draft)
	}
	return w.endpoint.Create(ctx, draft)
}

// settle re-enables the form once a submission has fully resolved.
func (w *Workflow) settle() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.state.finish()
	w.phase = PhaseIdle
}
