package controllers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/curaious/companion/internal/api/web"
	"github.com/curaious/companion/internal/metrics"
	"github.com/curaious/companion/internal/perrors"
	"github.com/curaious/companion/internal/services"
	"github.com/curaious/companion/internal/services/category"
	"github.com/curaious/companion/internal/services/companion"
	"github.com/curaious/companion/pkg/companionform"
	"github.com/fasthttp/router"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

// NewCompanionID is the path segment that opens the form in create mode.
const NewCompanionID = "new"

// serviceEndpoint persists form drafts through the in-process companion service.
type serviceEndpoint struct {
	svc *companion.CompanionService
}

func (e serviceEndpoint) Create(ctx context.Context, draft companionform.Draft) error {
	req := companion.UpsertCompanionRequest(draft)
	_, err := e.svc.Create(ctx, &req)
	return err
}

func (e serviceEndpoint) Update(ctx context.Context, id string, draft companionform.Draft) error {
	companionID, err := uuid.Parse(id)
	if err != nil {
		return companion.ErrCompanionNotFound
	}

	req := companion.UpsertCompanionRequest(draft)
	_, err = e.svc.Update(ctx, companionID, &req)
	return err
}

// flashFeedback hands notices to the next rendered page through the flash cookie.
type flashFeedback struct {
	ctx    *fasthttp.RequestCtx
	notice *companionform.Notice
}

func (f *flashFeedback) Notify(ctx context.Context, n companionform.Notice) {
	f.notice = &n
	if err := web.SetFlash(f.ctx, n); err != nil {
		slog.WarnContext(ctx, "Unable to set flash notice", slog.Any("error", err))
	}
}

// redirectNavigator answers a successful submit with a See Other redirect.
type redirectNavigator struct {
	ctx *fasthttp.RequestCtx
	svc *companion.CompanionService
}

func (n redirectNavigator) Refresh(ctx context.Context) {
	n.svc.InvalidateListings(ctx)
}

func (n redirectNavigator) NavigateTo(_ context.Context, route string) {
	n.ctx.Redirect(route, fasthttp.StatusSeeOther)
}

func RegisterFormRoutes(r *router.Router, svc *services.Services) {
	// Home listing
	r.GET("/", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		notice := web.TakeFlash(ctx)

		query := web.HomeQuery{
			Name:       string(ctx.QueryArgs().Peek("name")),
			CategoryID: string(ctx.QueryArgs().Peek("categoryId")),
		}
		filter := companion.ListFilter{Name: query.Name}
		if id, err := uuid.Parse(query.CategoryID); err == nil {
			filter.CategoryID = &id
		}

		categories, err := svc.Category.List(stdCtx)
		if err != nil {
			writePageError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to list categories", err))
			return
		}

		companions, err := svc.Companion.List(stdCtx, filter)
		if err != nil {
			writePageError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to list companions", err))
			return
		}

		view := web.HomeView{
			Query:      query,
			Categories: category.FormOptions(categories),
			Notice:     notice,
		}
		for _, c := range companions {
			view.Companions = append(view.Companions, web.CompanionCard{
				ID:          c.ID.String(),
				Name:        c.Name,
				Description: c.Description,
				Src:         c.Src,
			})
		}

		if err := web.RenderHome(ctx, view); err != nil {
			writePageError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to render page", err))
		}
	})

	// Companion form
	r.GET("/companion/{companionId}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		w, _, err := newFormWorkflow(ctx, stdCtx, svc)
		if err != nil {
			writePageError(ctx, stdCtx, err)
			return
		}
		defer w.Close()

		if err := web.RenderForm(ctx, fasthttp.StatusOK, web.NewFormView(w, string(ctx.Path()), web.TakeFlash(ctx))); err != nil {
			writePageError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to render page", err))
		}
	})

	// Submit companion form
	r.POST("/companion/{companionId}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		w, fb, err := newFormWorkflow(ctx, stdCtx, svc)
		if err != nil {
			writePageError(ctx, stdCtx, err)
			return
		}
		defer w.Close()

		for _, f := range companionform.Fields {
			if err := w.SetField(f, string(ctx.PostArgs().Peek(string(f)))); err != nil {
				writePageError(ctx, stdCtx, perrors.NewErrInvalidRequest("Invalid form field", err))
				return
			}
		}

		start := time.Now()
		result, err := w.Submit(stdCtx)
		if err != nil {
			writePageError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to submit form", err))
			return
		}
		metrics.ObserveSubmission(string(w.Mode()), string(result.Outcome), time.Since(start))

		action := string(ctx.Path())
		switch result.Outcome {
		case companionform.OutcomeSucceeded:
			// Feedback and navigator already wrote the flash cookie and the redirect
			return
		case companionform.OutcomeInvalid:
			err = web.RenderForm(ctx, fasthttp.StatusUnprocessableEntity, web.NewFormView(w, action, nil))
		default:
			slog.ErrorContext(stdCtx, "Companion form submission failed",
				slog.String("mode", string(w.Mode())),
				slog.String("outcome", string(result.Outcome)),
				slog.Any("error", result.Cause))

			var notice *web.Notice
			if fb.notice != nil {
				notice = web.NewNotice(*fb.notice)
			}
			web.DropFlash(ctx)
			err = web.RenderForm(ctx, submitFailureStatus(result.Cause), web.NewFormView(w, action, notice))
		}
		if err != nil {
			writePageError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to render page", err))
		}
	})
}

// newFormWorkflow builds the workflow for the companion named by the path, loading it in update mode.
func newFormWorkflow(ctx *fasthttp.RequestCtx, stdCtx context.Context, svc *services.Services) (*companionform.Workflow, *flashFeedback, error) {
	raw, err := pathParam(ctx, "companionId")
	if err != nil {
		return nil, nil, perrors.NewErrInvalidRequest("Invalid ID format", err)
	}

	var existing *companionform.Record
	if raw != NewCompanionID {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, nil, perrors.NewErrNotFound("Companion not found", err)
		}

		c, err := svc.Companion.GetByID(stdCtx, id)
		if err != nil {
			return nil, nil, companionError("Failed to get companion", err)
		}
		existing = c.Record()
	}

	categories, err := svc.Category.List(stdCtx)
	if err != nil {
		return nil, nil, perrors.NewErrInternalServerError("Failed to list categories", err)
	}

	fb := &flashFeedback{ctx: ctx}
	w := companionform.New(companionform.Config{
		Existing:   existing,
		Categories: category.FormOptions(categories),
		Endpoint:   serviceEndpoint{svc: svc.Companion},
		Feedback:   fb,
		Navigator:  redirectNavigator{ctx: ctx, svc: svc.Companion},
	})

	return w, fb, nil
}

// submitFailureStatus picks the status of the page re-rendered after a failed submit.
func submitFailureStatus(cause error) int {
	var perr perrors.Err
	if errors.As(companionError("", cause), &perr) {
		return perr.HttpStatus()
	}
	return http.StatusInternalServerError
}

func writePageError(ctx *fasthttp.RequestCtx, stdCtx context.Context, err error) {
	status := http.StatusInternalServerError
	var perr perrors.Err
	if errors.As(err, &perr) {
		status = perr.HttpStatus()
		perr.Print(stdCtx)
	} else {
		slog.ErrorContext(stdCtx, "Error processing the request", slog.Any("error", err))
	}

	ctx.Response.Header.SetContentType("text/plain; charset=utf-8")
	ctx.SetStatusCode(status)
	ctx.SetBodyString(http.StatusText(status))
}
