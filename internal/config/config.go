// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for all court, render and server
// settings.
//
// IMPORTANT: When changing values, only modify this file.
// All other parts of the codebase should reference these values.
package config

import (
	"os"
	"strconv"

	"paddle-arena/internal/match"
)

// =============================================================================
// MATCH CONFIGURATION
// =============================================================================

// MatchFromEnv returns the court and gameplay configuration with environment
// variable overrides. Environment variables take precedence over defaults.
func MatchFromEnv() match.Config {
	cfg := match.DefaultConfig()

	if w := getEnvFloat("COURT_WIDTH", 0); w > 0 {
		cfg.Width = w
	}
	if h := getEnvFloat("COURT_HEIGHT", 0); h > 0 {
		cfg.Height = h
	}
	if d := getEnvFloat("COURT_DEPTH", -1); d >= 0 {
		cfg.Depth = d
	}
	if s := getEnvFloat("PADDLE_SPEED", 0); s > 0 {
		cfg.PaddleSpeed = s
	}
	if s := getEnvFloat("BALL_SPEED", 0); s > 0 {
		cfg.BallSpeed = s
	}
	if w := getEnvInt("WINNING_SCORE", 0); w > 0 {
		cfg.WinningScore = w
	}
	if d := os.Getenv("AI_DIFFICULTY"); d != "" {
		cfg.Difficulty = match.Difficulty(d)
	}
	if n := os.Getenv("AI_NAME"); n != "" {
		cfg.AIName = n
	}

	return cfg
}

// =============================================================================
// VIDEO & CANVAS CONFIGURATION
// =============================================================================

// VideoConfig holds all video/canvas related settings.
// These values are shared between the renderer and the frame endpoint.
type VideoConfig struct {
	Width    int // Canvas width in pixels
	Height   int // Canvas height in pixels
	TickRate int // Simulation ticks per second (also the frame rate)
}

// DefaultVideo returns the default video configuration.
func DefaultVideo() VideoConfig {
	return VideoConfig{
		Width:    1200,
		Height:   900,
		TickRate: 60,
	}
}

// VideoFromEnv returns video configuration with environment variable
// overrides.
func VideoFromEnv() VideoConfig {
	cfg := DefaultVideo()

	if w := getEnvInt("CANVAS_WIDTH", 0); w > 0 {
		cfg.Width = w
	}
	if h := getEnvInt("CANVAS_HEIGHT", 0); h > 0 {
		cfg.Height = h
	}
	if tr := getEnvInt("TICK_RATE", 0); tr > 0 {
		cfg.TickRate = tr
	}

	return cfg
}

// =============================================================================
// AUDIO CONFIGURATION
// =============================================================================

// AudioConfig holds audio mixer settings.
type AudioConfig struct {
	SampleRate int     // Audio sample rate in Hz
	Channels   int     // Number of audio channels (1=mono, 2=stereo)
	Volume     float64 // Master volume (0.0 to 1.0)
	Enabled    bool    // Whether sound cues and music are enabled
	MusicDir   string  // Directory with background music (ogg), empty disables music
	SoundDir   string  // Directory with cue samples (wav)
}

// DefaultAudio returns the default audio configuration.
func DefaultAudio() AudioConfig {
	return AudioConfig{
		SampleRate: 44100,
		Channels:   2, // Stereo
		Volume:     0.15,
		Enabled:    true,
		MusicDir:   "assets/music",
		SoundDir:   "assets/sounds",
	}
}

// AudioFromEnv returns audio configuration with environment variable
// overrides.
func AudioFromEnv() AudioConfig {
	cfg := DefaultAudio()

	if v := getEnvFloat("AUDIO_VOLUME", -1); v >= 0 {
		cfg.Volume = v
	}
	if os.Getenv("AUDIO_ENABLED") == "false" {
		cfg.Enabled = false
	}
	if d := os.Getenv("MUSIC_DIR"); d != "" {
		cfg.MusicDir = d
	}
	if d := os.Getenv("SOUND_DIR"); d != "" {
		cfg.SoundDir = d
	}

	return cfg
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           int
	MetricsPort    int    // Prometheus + pprof debug server, 0 disables
	MaxConnections int    // Hard cap on concurrent websocket clients
	EventLogPath   string // JSONL event log destination, empty disables
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:           3000,
		MetricsPort:    6060,
		MaxConnections: 100,
	}
}

// ServerFromEnv returns server configuration with environment variable
// overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if p := getEnvInt("METRICS_PORT", -1); p >= 0 {
		cfg.MetricsPort = p
	}
	if mc := getEnvInt("MAX_CONNECTIONS", 0); mc > 0 {
		cfg.MaxConnections = mc
	}
	if p := os.Getenv("EVENT_LOG_PATH"); p != "" {
		cfg.EventLogPath = p
	}

	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Match  match.Config
	Video  VideoConfig
	Audio  AudioConfig
	Server ServerConfig
	Limits match.ResourceLimits
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Match:  MatchFromEnv(),
		Video:  VideoFromEnv(),
		Audio:  AudioFromEnv(),
		Server: ServerFromEnv(),
		Limits: match.DefaultLimits,
	}
}

// Validate checks the loaded configuration. Called once at startup so a
// typo'd environment kills the process instead of warping the court.
func (c AppConfig) Validate() error {
	return c.Match.Validate()
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
