// Copyright 2025 Poiesic Systems
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


// Package httpapi exposes the question-answering service over HTTP.
//
// Endpoints:
//
//	POST /ask     {question, top_k} -> {question, results}
//	POST /reload  -> {ok, answerCount, alpha, minCos}
//	GET  /metrics -> persisted evaluation metrics, 404 when absent
//	GET  /health  -> {"status":"ok"}
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/poiesic/agroqa"
)

// Server wires the service into HTTP handlers.
type Server struct {
	service *agroqa.Service
	logger  *slog.Logger
}

// NewServer creates an HTTP server facade over a service.
func NewServer(service *agroqa.Service, logger *slog.Logger) (*Server, error) {
	if service == nil {
		return nil, ErrServiceRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		service: service,
		logger:  logger.With("component", "httpapi"),
	}, nil
}

// Handler returns the routed handler for the API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /ask", s.handleAsk)
	mux.HandleFunc("POST /reload", s.handleReload)
	mux.HandleFunc("GET /metrics", s.handleMetrics)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}
