package api

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/curaious/companion/internal/config"
	"github.com/curaious/companion/internal/db"
	"github.com/curaious/companion/internal/migrations"
	"github.com/curaious/companion/internal/pubsub"
	"github.com/curaious/companion/internal/services"
)

// Server is the fasthttp server for the companion API and pages
type Server struct {
	srv      *fasthttp.Server
	addr     string
	conf     *config.Config
	services *services.Services
	pubsub   *pubsub.PubSub
}

// New connects the services, applies pending migrations and builds the routes
func New(conf *config.Config) *Server {
	svc := services.NewServices(conf)

	m, err := migrations.NewMigrator(svc.DB)
	if err != nil {
		panic("unable to create migrator")
	}

	err = m.Up(0)
	if err != nil {
		panic("unable to run migrations")
	}

	s := &Server{
		srv:      &fasthttp.Server{Name: "companion"},
		addr:     conf.SERVER_ADDR,
		conf:     conf,
		services: svc,
		pubsub:   pubsub.NewPubSub(db.ConnString(conf)),
	}

	s.srv.Handler = s.initNewRoutes()

	return s
}

// Start the rest server
func (s *Server) Start() {
	// Listing caches are shared across instances, so every write anywhere drops them
	s.pubsub.Subscribe(func(event pubsub.ChangeEvent) {
		slog.Debug("Invalidating companion listings", slog.String("operation", event.Operation))
		s.services.Companion.InvalidateListings(context.Background())
	})
	if err := s.pubsub.Start(); err != nil {
		slog.Warn("Change notifications unavailable", slog.Any("error", err))
	}

	slog.Info("Starting REST server...", slog.String("addr", s.addr))
	go func() {
		if err := s.srv.ListenAndServe(s.addr); err != nil {
			slog.Error("Server shutdown", slog.Any("error", err))
		}
	}()
	slog.Info("REST server started!")

	// Listen for OS interrupts
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	// Block till we receive an interrupt
	<-c
	slog.Info("Received interrupt...")

	// Create a timeout
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	s.shutdown(ctx)
}

// Shutdown shuts down the rest server
func (s *Server) shutdown(ctx context.Context) {
	slog.Info("Gracefully shutting down REST server...")
	s.pubsub.Stop()
	if err := s.srv.ShutdownWithContext(ctx); err != nil {
		slog.Error("Failed to shutdown the server", slog.Any("error", err))
	}
	if err := s.services.DB.Close(); err != nil {
		slog.Error("Failed to close database", slog.Any("error", err))
	}
	slog.Info("REST server shutdown!")
}
