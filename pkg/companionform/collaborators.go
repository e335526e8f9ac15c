package companionform

import (
	"context"
	"time"
)

// Endpoint persists a validated draft.
type Endpoint interface {
	Create(ctx context.Context, draft Draft) error
	Update(ctx context.Context, id string, draft Draft) error
}

type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

const (
	NoticeDuration = 3000 * time.Millisecond
	SuccessMessage = "Success."
	FailureMessage = "Something went wrong."
)

// Notice is a transient message rendered by a Feedback channel.
type Notice struct {
	Message  string
	Variant  Variant
	Duration time.Duration
}

func SuccessNotice() Notice {
	return Notice{Message: SuccessMessage, Variant: VariantDefault, Duration: NoticeDuration}
}

func FailureNotice() Notice {
	return Notice{Message: FailureMessage, Variant: VariantDestructive, Duration: NoticeDuration}
}

// Feedback renders notices and dismisses them after their duration.
type Feedback interface {
	Notify(ctx context.Context, notice Notice)
}

// FeedbackFunc adapts a function to Feedback.
type FeedbackFunc func(ctx context.Context, notice Notice)

func (f FeedbackFunc) Notify(ctx context.Context, notice Notice) {
	f(ctx, notice)
}

// Navigator refreshes the displayed data and redirects after a successful submission.
type Navigator interface {
	Refresh(ctx context.Context)
	NavigateTo(ctx context.Context, route string)
}

type nopFeedback struct{}

func (nopFeedback) Notify(context.Context, Notice) {}

type nopNavigator struct{}

func (nopNavigator) Refresh(context.Context)            {}
func (nopNavigator) NavigateTo(context.Context, string) {}
