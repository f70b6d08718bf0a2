package plot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// HTTPServer defines the HTTP server a Server registers its routes on
type HTTPServer interface {
	// RegisterHandler registers a handler for a specific route
	RegisterHandler(path string, handler http.HandlerFunc)

	// Start serves on port until ctx is done
	Start(ctx context.Context, port int) error
}

// StandardHTTPServer implements HTTPServer on its own ServeMux
type StandardHTTPServer struct {
	mux *http.ServeMux
}

// NewStandardHTTPServer creates a new instance of StandardHTTPServer
func NewStandardHTTPServer() *StandardHTTPServer {
	return &StandardHTTPServer{mux: http.NewServeMux()}
}

// RegisterHandler registers a handler for a specific route
func (s *StandardHTTPServer) RegisterHandler(path string, handler http.HandlerFunc) {
	s.mux.HandleFunc(path, handler)
}

// Handler returns the routes registered so far
func (s *StandardHTTPServer) Handler() http.Handler {
	return s.mux
}

// Start serves on port until ctx is done, then shuts down gracefully
func (s *StandardHTTPServer) Start(ctx context.Context, port int) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
