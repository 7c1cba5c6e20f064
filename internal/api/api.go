package api

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/curaious/finca/internal/config"
	"github.com/curaious/finca/internal/migrations"
	"github.com/curaious/finca/internal/services"
	"github.com/valyala/fasthttp"
)

// Server is the farm management HTTP API
type Server struct {
	srv      *fasthttp.Server
	addr     string
	services *services.Services
}

// New runs pending migrations, wires the services and builds the router
func New(conf *config.Config) *Server {
	m, err := migrations.NewMigrator()
	if err != nil {
		log.Fatalf("unable to create migrator: %v", err)
	}

	if err := m.Up(0); err != nil {
		log.Fatalf("unable to run migrations: %v", err)
	}

	s := &Server{
		srv: &fasthttp.Server{
			Name:               "finca",
			MaxRequestBodySize: 12 << 20,
		},
		addr:     conf.HTTP_ADDR,
		services: services.NewServices(conf),
	}

	s.srv.Handler = s.initNewRoutes()

	return s
}

// Start the rest server
func (s *Server) Start() {
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
	if err := s.srv.ShutdownWithContext(ctx); err != nil {
		slog.Error("Failed to shutdown the server", slog.Any("error", err))
	}
	s.services.Close()
	slog.Info("REST server shutdown!")
}
