// Package httptransport builds the HTTP server hosting the API surface.
package httptransport

import (
	"net/http"
	"time"
)

// ServerConfig contains tunables for the HTTP server.
type ServerConfig struct {
	Address           string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ReadHeaderTimeout time.Duration
}

// NewServer creates an *http.Server for the provided handler. A zero
// ReadHeaderTimeout falls back to ReadTimeout.
func NewServer(cfg ServerConfig, handler http.Handler) *http.Server {
	headerTimeout := cfg.ReadHeaderTimeout
	if headerTimeout == 0 {
		headerTimeout = cfg.ReadTimeout
	}
	return &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ReadHeaderTimeout: headerTimeout,
	}
}
