package controllers

import (
	"github.com/curaious/companion/internal/perrors"
	"github.com/curaious/companion/internal/services"
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
)

func RegisterCategoryRoutes(r *router.Router, svc *services.Services) {
	// List categories
	r.GET("/api/categories", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		categories, err := svc.Category.List(stdCtx)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list categories", perrors.NewErrInternalServerError("Failed to list categories", err))
			return
		}

		writeOK(ctx, stdCtx, "Categories retrieved successfully", categories)
	})
}
