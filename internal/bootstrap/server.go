package bootstrap

import (
	"net/http"
	"time"
)

// NewHTTPServer builds the HTTP server with sane timeouts. Write timeout stays
// unset because the websocket feed holds its connections open indefinitely.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
