package response

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	json "github.com/bytedance/sonic"
	"github.com/valyala/fasthttp"

	"github.com/curaious/companion/internal/perrors"
)

const contentTypeJSON = "application/json"

// Response is the JSON envelope returned by every /api route.
type Response[T any] struct {
	ctx     context.Context
	headers [][2]string

	ErrorDetails perrors.Err `json:"errorDetails"`
	Error        bool        `json:"error"`
	Message      string      `json:"message"`
	Data         T           `json:"data"`
	Status       int         `json:"status"`
}

func NewResponse[T any](ctx context.Context, msg string, data T) *Response[T] {
	return &Response[T]{
		ctx:     ctx,
		Message: msg,
		Data:    data,
		Status:  http.StatusOK,
	}
}

// Created builds a 201 response pointing at the new resource.
func Created[T any](ctx context.Context, msg string, data T, location string) *Response[T] {
	return NewResponse(ctx, msg, data).
		WithStatus(http.StatusCreated).
		WithHeader("Location", location)
}

// WithError marks the response as failed. Errors that are not perrors.Err are
// reported as internal server errors.
func (r *Response[T]) WithError(err error) *Response[T] {
	var perr perrors.Err
	if !errors.As(err, &perr) {
		perr = perrors.NewErrInternalServerError(r.Message, err).(perrors.Err)
	}

	perr.Print(r.ctx)
	r.ErrorDetails = perr
	r.Status = perr.HttpStatus()
	r.Error = true

	return r
}

// WithStatus overrides the status code. Prefer carrying the status on a perrors.Err.
func (r *Response[T]) WithStatus(code int) *Response[T] {
	r.Status = code
	return r
}

func (r *Response[T]) WithHeader(key, value string) *Response[T] {
	r.headers = append(r.headers, [2]string{key, value})
	return r
}

// Write encodes the envelope as JSON onto the fasthttp response.
func (r *Response[T]) Write(ctx *fasthttp.RequestCtx) {
	body, err := json.Marshal(r)
	if err != nil {
		slog.ErrorContext(r.ctx, "Unable to json encode response", slog.Any("error", err))
		ctx.SetStatusCode(http.StatusInternalServerError)
		return
	}

	if r.Error {
		slog.ErrorContext(r.ctx, "Error processing the request", slog.Int("status", r.Status), slog.String("message", r.Message))
	}

	for _, h := range r.headers {
		ctx.Response.Header.Set(h[0], h[1])
	}
	ctx.SetContentType(contentTypeJSON)
	ctx.SetStatusCode(r.Status)
	ctx.SetBody(body)
}
