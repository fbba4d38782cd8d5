// Package api exposes the skald transcoders over a REST API.
//
// Request bodies are raw bytes; successful transcode responses are the raw
// result (text/plain for textual encodings, application/octet-stream for
// byte output). Errors use the JSON APIResponse envelope.
package api

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newRouter wires the full route table for the given config. Split from
// StartServer so tests can drive the router without binding a socket.
func newRouter(config ServerConfig, metrics *Metrics) http.Handler {
	server := NewServer(config, metrics)

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API key authentication middleware for protected routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(metrics.InstrumentAuthMiddleware(apiKeyMiddleware(config.APIKey)))

		// Service surface
		r.Get("/health", metrics.InstrumentHandler("GET", "/api/v1/health", server.handleHealth))
		r.Get("/codecs", metrics.InstrumentHandler("GET", "/api/v1/codecs", server.handleCodecs))

		// Hex
		r.Post("/hex/encode", metrics.InstrumentHandler("POST", "/api/v1/hex/encode", server.handleHexEncode))
		r.Post("/hex/decode", metrics.InstrumentHandler("POST", "/api/v1/hex/decode", server.handleHexDecode))
		r.Post("/hex/dump", metrics.InstrumentHandler("POST", "/api/v1/hex/dump", server.handleHexDump))

		// URL
		r.Post("/url/encode", metrics.InstrumentHandler("POST", "/api/v1/url/encode", server.handleURLEncode))
		r.Post("/url/decode", metrics.InstrumentHandler("POST", "/api/v1/url/decode", server.handleURLDecode))

		// Run-length
		r.Post("/zero/encode", metrics.InstrumentHandler("POST", "/api/v1/zero/encode", server.handleZeroEncode))
		r.Post("/zero/decode", metrics.InstrumentHandler("POST", "/api/v1/zero/decode", server.handleZeroDecode))
		r.Post("/zero-one/encode", metrics.InstrumentHandler("POST", "/api/v1/zero-one/encode", server.handleZeroOneEncode))
		r.Post("/zero-one/decode", metrics.InstrumentHandler("POST", "/api/v1/zero-one/decode", server.handleZeroOneDecode))
	})

	return r
}

// StartServer starts the HTTP server with all routes configured
func StartServer(config ServerConfig) error {
	metrics := NewMetrics()
	r := newRouter(config, metrics)

	addr := fmt.Sprintf("%s:%d", config.Bind, config.Port)
	log.Printf("Starting skald REST API server on %s", addr)
	log.Printf("Metrics available at: http://%s/metrics", addr)

	return http.ListenAndServe(addr, r)
}
