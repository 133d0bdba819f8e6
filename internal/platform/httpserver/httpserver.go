package httpserver

import (
	"net/http"
	"time"
)

// New builds the gate's HTTP server. The gate fronts browser traffic, so the
// header timeout guards against slow-loris clients while proxied responses
// stream without a write deadline.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
