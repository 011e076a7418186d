package api

import (
	"net/http"

	"paddle-arena/internal/match"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// EngineInterface defines the engine methods the API layer calls.
// Kept minimal so tests can mock it without spinning up the tick loop.
type EngineInterface interface {
	// Snapshot returns the latest lock-free immutable snapshot.
	Snapshot() *match.Snapshot
	// SetInput replaces the engine's input mailbox.
	SetInput(in match.Input)
	// Config returns the court configuration.
	Config() match.Config
	// EventLogStats returns event log counters.
	EventLogStats() map[string]interface{}
}

// FrameSource renders the latest snapshot to an encoded PNG frame.
type FrameSource interface {
	FramePNG(snap *match.Snapshot) ([]byte, error)
}

// AudioSource supplies mixed PCM frames for the live audio endpoint.
// GenerateFrame must be safe to call from the request goroutine while
// the engine queues cues.
type AudioSource interface {
	GenerateFrame() []byte
	SampleRate() int
	Channels() int
	FrameRate() int
}

// RouterConfig contains the dependencies needed to construct the router.
//
// Example usage in tests:
//
//	cfg := api.RouterConfig{
//	    Engine: mockEngine,
//	    RateLimitConfig: &api.RateLimitConfig{
//	        RequestsPerSecond: 1000,
//	        Burst:             1000,
//	    },
//	}
//	router := api.NewRouter(cfg)
//	ts := httptest.NewServer(router)
type RouterConfig struct {
	// Engine drives the match (required).
	Engine EngineInterface

	// Frames serves the PNG frame endpoint; nil disables /api/frame.
	Frames FrameSource

	// Audio serves the live WAV stream endpoint; nil disables /api/audio.
	Audio AudioSource

	// RateLimiter is an optional pre-configured rate limiter.
	// If nil, one is created from RateLimitConfig.
	RateLimiter *IPRateLimiter

	// RateLimitConfig is used only when RateLimiter is nil; nil means
	// DefaultRateLimitConfig.
	RateLimitConfig *RateLimitConfig

	// CORSOrigins overrides the default localhost-only origins.
	CORSOrigins []string

	// DisableLogging disables the request logger middleware (benchmarks).
	DisableLogging bool
}

type routerHandlers struct {
	engine EngineInterface
	frames FrameSource
	audio  AudioSource
}

// NewRouter constructs the HTTP router with all middleware and routes.
//
// This function is PURE: no goroutines, no listeners, no background
// workers (the rate limiter cleanup goroutine excepted when one is
// created here). Safe to use with httptest.NewServer.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	// Rate limiting before CORS to reject early.
	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rateLimitCfg)
	}
	r.Use(rateLimiter.Middleware)

	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = []string{
			"http://localhost:*",
			"http://127.0.0.1:*",
		}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	h := &routerHandlers{
		engine: cfg.Engine,
		frames: cfg.Frames,
		audio:  cfg.Audio,
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", h.handleGetState)
		r.Get("/config", h.handleGetConfig)
		r.Get("/stats", h.handleGetStats)
		r.Post("/input", h.handleInput)

		if cfg.Frames != nil {
			r.Get("/frame", h.handleGetFrame)
		}
		if cfg.Audio != nil {
			r.Get("/audio", h.handleAudioStream)
		}
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
