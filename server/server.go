// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package server serves the snapshot listing page and a read-only API over the network
// registry
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	snapshots "github.com/jaonoctus/bitcoin-snapshots"
	"github.com/jaonoctus/bitcoin-snapshots/view"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/text/language"
)

const (
	DefaultAddress = ":8080"

	readHeaderTimeout = 10 * time.Second
)

//go:embed templates/*.html
var templateFS embed.FS

// Server renders the registry over HTTP
type Server struct {
	address         string
	registry        *snapshots.Registry
	logger          *slog.Logger
	metricsRegistry *prometheus.Registry
	languages       []language.Tag
	machine         *view.Machine
	localizer       *localizer
	template        *template.Template
	metrics         *metrics
	router          *gin.Engine
	httpServer      *http.Server
	listener        net.Listener
	waitGroup       sync.WaitGroup
	onceStop        sync.Once
}

// New returns a server using the specified options
func New(options ...ServerOptionFunc) (*Server, error) {
	s := &Server{
		address: DefaultAddress,
	}
	// Apply provided options functions
	for _, option := range options {
		option(s)
	}
	if s.registry == nil {
		s.registry = snapshots.DefaultRegistry()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.metricsRegistry == nil {
		s.metricsRegistry = prometheus.NewRegistry()
		s.metricsRegistry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	if len(s.languages) == 0 {
		s.languages = DefaultLanguages
	}
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	s.template = tmpl
	s.machine = view.NewMachine(s.registry)
	s.localizer = newLocalizer(s.languages)
	s.metrics = newMetrics(s.metricsRegistry)
	s.metrics.networks.Set(float64(s.registry.Len()))
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router = gin.New()
	s.router.Use(
		requestIdMiddleware(),
		loggerMiddleware(s.logger),
		s.metrics.middleware(),
		gin.Recovery(),
	)
	s.router.GET("/", s.handlePage)
	s.router.GET(view.DownloadPathPrefix+":network/:kind", s.handleDownload)
	api := s.router.Group("/api")
	api.GET("/networks", s.handleNetworks)
	api.GET("/networks/:id", s.handleNetwork)
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET(
		"/metrics",
		gin.WrapH(promhttp.HandlerFor(s.metricsRegistry, promhttp.HandlerOpts{})),
	)
}

// Handler returns the HTTP handler serving all routes
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins listening and serving in the background
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.address, err)
	}
	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	s.logger.Info(
		"listening",
		"address", listener.Addr().String(),
		"networks", s.registry.Len(),
	)
	s.waitGroup.Add(1)
	go func() {
		defer s.waitGroup.Done()
		if err := s.httpServer.Serve(listener); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server failed", "error", err)
		}
	}()
	return nil
}

// Addr returns the listen address, or nil if the server has not been started
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop gracefully shuts down the server and waits for the serve loop to exit
func (s *Server) Stop(ctx context.Context) error {
	var err error
	s.onceStop.Do(func() {
		if s.httpServer == nil {
			return
		}
		s.logger.Info("shutting down HTTP server")
		err = s.httpServer.Shutdown(ctx)
		s.waitGroup.Wait()
	})
	return err
}
