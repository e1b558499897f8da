package rest

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hashicorp/go-hclog"
	"github.com/pbinitiative/zenbpm-importer/internal/config"
	"github.com/pbinitiative/zenbpm-importer/internal/rest/middleware"
	"github.com/pbinitiative/zenbpm-importer/internal/supervisor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StatusSource reports the consumption state served on /system/status.
type StatusSource interface {
	Status() supervisor.Status
}

// Server exposes the system endpoints of the importer. It has no API surface of its own.
type Server struct {
	addr   string
	server *http.Server
	logger hclog.Logger
}

func NewServer(status StatusSource, conf config.Config, logger hclog.Logger) *Server {
	s := Server{
		addr:   conf.HttpServer.Addr,
		logger: logger,
		server: &http.Server{
			ReadHeaderTimeout: 3 * time.Second,
			Handler:           NewHandler(status, conf),
			Addr:              conf.HttpServer.Addr,
		},
	}
	return &s
}

func NewHandler(status StatusSource, conf config.Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Cors())
	r.Use(middleware.Opentelemetry(conf))
	r.Route("/system", func(r chi.Router) {
		r.Get("/metrics", promhttp.Handler().ServeHTTP)
		r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
			writeJsonResponse(w, http.StatusOK, status.Status())
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})
	return r
}

// Start binds the listener and serves in the background.
func (s *Server) Start() (net.Listener, error) {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return nil, err
	}
	s.logger.Info("System server listening", "addr", listener.Addr().String())
	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Error("System server stopped", "err", err)
		}
	}()
	return listener, nil
}

func (s *Server) Stop(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Error("Error stopping system server", "err", err)
	}
}

func writeJsonResponse(w http.ResponseWriter, status int, resp any) {
	body, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
