package controllers

import (
	"github.com/curaious/companion/internal/api/response"
	"github.com/curaious/companion/internal/perrors"
	"github.com/curaious/companion/internal/services"
	"github.com/curaious/companion/internal/services/companion"
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
)

func RegisterCompanionRoutes(r *router.Router, svc *services.Services) {
	// Create companion
	r.POST("/api/companion", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		var body companion.UpsertCompanionRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		created, err := svc.Companion.Create(stdCtx, &body)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to create companion", companionError("Failed to create companion", err))
			return
		}

		response.Created(stdCtx, "Companion created successfully", created, "/api/companion/"+created.ID.String()).Write(ctx)
	})

	// List companions
	r.GET("/api/companion", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		categoryID, err := optionalUUIDQuery(ctx, "categoryId")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid category ID", perrors.NewErrInvalidRequest("Invalid category ID", err))
			return
		}

		companions, err := svc.Companion.List(stdCtx, companion.ListFilter{
			CategoryID: categoryID,
			Name:       string(ctx.QueryArgs().Peek("name")),
		})
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list companions", perrors.NewErrInternalServerError("Failed to list companions", err))
			return
		}

		writeOK(ctx, stdCtx, "Companions retrieved successfully", companions)
	})

	// Get companion
	r.GET("/api/companion/{companionId}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		id, err := pathParamUUID(ctx, "companionId")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		c, err := svc.Companion.GetByID(stdCtx, id)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to get companion", companionError("Failed to get companion", err))
			return
		}

		writeOK(ctx, stdCtx, "Companion retrieved successfully", c)
	})

	// Update companion
	r.PATCH("/api/companion/{companionId}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		id, err := pathParamUUID(ctx, "companionId")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		var body companion.UpsertCompanionRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		updated, err := svc.Companion.Update(stdCtx, id, &body)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to update companion", companionError("Failed to update companion", err))
			return
		}

		writeOK(ctx, stdCtx, "Companion updated successfully", updated)
	})

	// Delete companion
	r.DELETE("/api/companion/{companionId}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		id, err := pathParamUUID(ctx, "companionId")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		if err := svc.Companion.Delete(stdCtx, id); err != nil {
			writeError(ctx, stdCtx, "Failed to delete companion", companionError("Failed to delete companion", err))
			return
		}

		writeOK(ctx, stdCtx, "Companion deleted successfully", nil)
	})
}
