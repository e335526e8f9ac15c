package controllers

import (
	"context"
	"errors"
	"fmt"

	json "github.com/bytedance/sonic"
	"github.com/curaious/companion/internal/api/response"
	"github.com/curaious/companion/internal/perrors"
	"github.com/curaious/companion/internal/services/category"
	"github.com/curaious/companion/internal/services/companion"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

// TraceContextKey is the user value holding the context extracted from trace headers.
const TraceContextKey = "traceCtx"

// requestContext returns the context for downstream calls. fasthttp does not provide
// a standard context, so handlers start from the propagated trace context when the
// middleware stored one, and from Background otherwise.
func requestContext(ctx *fasthttp.RequestCtx) context.Context {
	if traceCtx, ok := ctx.UserValue(TraceContextKey).(context.Context); ok {
		return traceCtx
	}
	return context.Background()
}

func parseBody(ctx *fasthttp.RequestCtx, target any) error {
	body := ctx.PostBody()
	if len(body) == 0 {
		return errors.New("request body is empty")
	}

	return json.Unmarshal(body, target)
}

func writeError(ctx *fasthttp.RequestCtx, stdCtx context.Context, message string, err error) {
	response.NewResponse[any](stdCtx, message, nil).WithError(err).Write(ctx)
}

func writeOK(ctx *fasthttp.RequestCtx, stdCtx context.Context, message string, data any) {
	response.NewResponse(stdCtx, message, data).Write(ctx)
}

func pathParam(ctx *fasthttp.RequestCtx, key string) (string, error) {
	val := ctx.UserValue(key)
	if val == nil {
		return "", fmt.Errorf("%s is required", key)
	}

	return fmt.Sprint(val), nil
}

func pathParamUUID(ctx *fasthttp.RequestCtx, key string) (uuid.UUID, error) {
	val, err := pathParam(ctx, key)
	if err != nil {
		return uuid.Nil, err
	}

	return uuid.Parse(val)
}

// optionalUUIDQuery returns nil when key is absent or empty.
func optionalUUIDQuery(ctx *fasthttp.RequestCtx, key string) (*uuid.UUID, error) {
	raw := ctx.QueryArgs().Peek(key)
	if len(raw) == 0 {
		return nil, nil
	}

	id, err := uuid.ParseBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be a valid UUID: %w", key, err)
	}

	return &id, nil
}

// companionError maps service errors onto API errors.
func companionError(message string, err error) error {
	var verr *companion.ValidationError
	switch {
	case errors.As(err, &verr):
		fields := make(map[string]string, len(verr.Fields))
		for f, msg := range verr.Fields {
			fields[string(f)] = msg
		}
		return perrors.NewErrValidation("Invalid companion", err, fields)
	case errors.Is(err, companion.ErrCompanionNotFound):
		return perrors.NewErrNotFound("Companion not found", err)
	case errors.Is(err, category.ErrCategoryNotFound):
		return perrors.NewErrNotFound("Category not found", err)
	default:
		return perrors.NewErrInternalServerError(message, err)
	}
}
