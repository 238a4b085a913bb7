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

package server

import (
	"log/slog"

	snapshots "github.com/jaonoctus/bitcoin-snapshots"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/text/language"
)

// ServerOptionFunc is a type that represents functions that modify the Server config
type ServerOptionFunc func(*Server)

// WithAddress specifies the listen address. The default is DefaultAddress
func WithAddress(address string) ServerOptionFunc {
	return func(s *Server) {
		s.address = address
	}
}

// WithRegistry specifies the network registry to serve. The default is the built-in registry
func WithRegistry(registry *snapshots.Registry) ServerOptionFunc {
	return func(s *Server) {
		s.registry = registry
	}
}

// WithLogger specifies the logger to use. If none is provided, slog.Default() is used
func WithLogger(logger *slog.Logger) ServerOptionFunc {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetricsRegistry specifies the Prometheus registry to register metrics with and expose
// on /metrics. If none is provided, a new registry with the Go and process collectors is used
func WithMetricsRegistry(registry *prometheus.Registry) ServerOptionFunc {
	return func(s *Server) {
		s.metricsRegistry = registry
	}
}

// WithLanguages specifies the locales offered for number formatting. The first one is used
// when the client's Accept-Language matches none of them
func WithLanguages(languages ...language.Tag) ServerOptionFunc {
	return func(s *Server) {
		s.languages = languages
	}
}
