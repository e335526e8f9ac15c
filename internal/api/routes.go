package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/propagation"

	"github.com/curaious/companion/internal/api/controllers"
	"github.com/curaious/companion/internal/metrics"
	"github.com/curaious/companion/internal/services"
)

var tracePropagator = propagation.TraceContext{}

func (s *Server) initNewRoutes() fasthttp.RequestHandler {
	return NewHandler(s.services, s.conf.ALLOWED_HEADERS)
}

// NewHandler registers every route over svc and wraps them with the request middlewares.
func NewHandler(svc *services.Services, allowedHeaders string) fasthttp.RequestHandler {
	r := router.New()
	r.SaveMatchedRoutePath = true

	r.GET("/api/health", func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
		_, _ = ctx.Write([]byte("OK"))
	})
	r.GET("/metrics", metrics.Handler())

	controllers.RegisterCategoryRoutes(r, svc)
	controllers.RegisterCompanionRoutes(r, svc)
	controllers.RegisterFormRoutes(r, svc)

	return withMiddlewares(r.Handler, allowedHeaders)
}

func withMiddlewares(next fasthttp.RequestHandler, allowedHeaders string) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		applyCORS(ctx, allowedHeaders)
		if string(ctx.Method()) == fasthttp.MethodOptions {
			ctx.SetStatusCode(fasthttp.StatusNoContent)
			return
		}

		start := time.Now()
		method := string(ctx.Method())
		requestURI := string(ctx.URI().FullURI())
		slog.Info("Started processing", slog.String("method", method), slog.String("request_uri", requestURI))

		h := http.Header{}
		ctx.Request.Header.VisitAll(func(k, v []byte) {
			h[string(k)] = []string{string(v)}
		})
		traceCtx := tracePropagator.Extract(context.Background(), propagation.HeaderCarrier(h))
		ctx.SetUserValue(controllers.TraceContextKey, traceCtx)

		next(ctx)

		elapsed := time.Since(start)
		metrics.ObserveRequest(method, routePattern(ctx), ctx.Response.StatusCode(), elapsed)
		slog.Info("Finished processing", slog.String("method", method), slog.String("request_uri", requestURI), slog.Int("status", ctx.Response.StatusCode()), slog.Duration("duration", elapsed))
	}
}

// routePattern keeps metric label cardinality bounded by reporting the matched route, not the raw path.
func routePattern(ctx *fasthttp.RequestCtx) string {
	if p, ok := ctx.UserValue(router.MatchedRoutePathParam).(string); ok && p != "" {
		return p
	}
	return "unmatched"
}

func applyCORS(ctx *fasthttp.RequestCtx, allowedHeaders string) {
	headers := &ctx.Response.Header
	headers.Set("Access-Control-Allow-Origin", string(ctx.Request.Header.Peek("Origin")))
	headers.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS,PATCH")
	headers.Set("Access-Control-Allow-Headers", allowedHeaders)
	headers.Set("Access-Control-Allow-Credentials", "true")
}
