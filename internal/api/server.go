package api

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Server combines the HTTP router with the WebSocket hub.
type Server struct {
	engine      EngineInterface
	router      *chi.Mux
	wsHub       *WebSocketHub
	rateLimiter *IPRateLimiter
	httpServer  *http.Server
}

// NewServer creates the API server with production defaults.
//
// Background workers do NOT start until Start() is called, so tests can
// construct the server and use Router() without goroutines running.
func NewServer(engine EngineInterface, frames FrameSource, audio AudioSource) *Server {
	s := &Server{
		engine: engine,
		wsHub:  NewWebSocketHub(engine),
	}

	s.rateLimiter = NewIPRateLimiter(DefaultRateLimitConfig)

	s.router = NewRouter(RouterConfig{
		Engine:      engine,
		Frames:      frames,
		Audio:       audio,
		RateLimiter: s.rateLimiter,
	})

	// WebSocket route needs the hub instance, so it can't live in the
	// pure NewRouter factory.
	s.router.Get("/ws", s.wsHub.HandleWebSocket)

	return s
}

// Start begins serving and launches the hub workers. Blocks until the
// listener fails or Shutdown is called.
func (s *Server) Start(addr string) error {
	go s.wsHub.Run()
	s.wsHub.StartBroadcastLoop()

	s.httpServer = &http.Server{Addr: addr, Handler: s.router}

	log.Printf("api server listening on %s", addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the rate limiter.
func (s *Server) Shutdown(ctx context.Context) error {
	s.rateLimiter.Stop()
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Router returns the HTTP handler for use with httptest.
func (s *Server) Router() http.Handler {
	return s.router
}
