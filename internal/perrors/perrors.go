package perrors

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
)

type ErrCode struct {
	Code   string `json:"code"`
	Status int    `json:"status"`
}

var (
	ErrCodeInvalidRequest = ErrCode{"invalid_request", http.StatusBadRequest}
	ErrCodeValidation     = ErrCode{"validation_failed", http.StatusUnprocessableEntity}
	ErrCodeNotFound       = ErrCode{"not_found", http.StatusNotFound}
	ErrCodeInternalServer = ErrCode{"internal_server_error", http.StatusInternalServerError}
)

// Err is an API error. Only Err, Args and Fields are sent to clients.
type Err struct {
	Message    string                   `json:"-"`
	Err        string                   `json:"error"`
	Code       ErrCode                  `json:"-"`
	Stacktrace []string                 `json:"-"`
	Args       []map[string]interface{} `json:"args"`
	// Fields carries per-field validation messages keyed by wire name.
	Fields map[string]string `json:"fields,omitempty"`

	cause error
}

func (e Err) Error() string {
	return e.Err
}

func (e Err) Unwrap() error {
	return e.cause
}

func (e Err) HttpStatus() int {
	return e.Code.Status
}

// Print logs the error with its code, args, fields and stacktrace.
func (e Err) Print(ctx context.Context) {
	attrs := []any{slog.String("error", e.Err), slog.String("code", e.Code.Code)}
	for _, args := range e.Args {
		for k, v := range args {
			attrs = append(attrs, slog.Any(k, v))
		}
	}
	if len(e.Fields) > 0 {
		attrs = append(attrs, slog.Any("fields", e.Fields))
	}
	attrs = append(attrs, slog.Any("stacktrace", e.Stacktrace))

	slog.ErrorContext(ctx, e.Message, attrs...)
}

func New(code ErrCode, msg string, err error, args ...map[string]interface{}) error {
	return newErr(code, msg, err, args)
}

func newErr(code ErrCode, msg string, err error, args []map[string]interface{}) Err {
	errString := "error missing"
	if err != nil {
		errString = err.Error()
	}

	return Err{
		Code:       code,
		Message:    msg,
		Err:        errString,
		Stacktrace: callers(3),
		Args:       args,
		cause:      err,
	}
}

func callers(skip int) []string {
	pc := make([]uintptr, 20)
	frames := runtime.CallersFrames(pc[:runtime.Callers(skip, pc)])

	var stacktrace []string
	for {
		frame, more := frames.Next()
		stacktrace = append(stacktrace, fmt.Sprintf("%s:%d", frame.File, frame.Line))
		if !more {
			return stacktrace
		}
	}
}

func NewErrInvalidRequest(msg string, err error, args ...map[string]interface{}) error {
	return newErr(ErrCodeInvalidRequest, msg, err, args)
}

func NewErrInternalServerError(msg string, err error, args ...map[string]interface{}) error {
	return newErr(ErrCodeInternalServer, msg, err, args)
}

func NewErrNotFound(msg string, err error, args ...map[string]interface{}) error {
	return newErr(ErrCodeNotFound, msg, err, args)
}

// NewErrValidation reports rejected input along with the message for each failing field.
func NewErrValidation(msg string, err error, fields map[string]string) error {
	e := newErr(ErrCodeValidation, msg, err, nil)
	e.Fields = fields
	return e
}
