package config

import (
	"testing"

	"paddle-arena/internal/match"
)

// TestLoadDefaults checks the no-environment configuration is valid and
// carries the documented defaults.
func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Match.Width != 1200 || cfg.Match.Height != 900 {
		t.Errorf("expected 1200x900 court, got %gx%g", cfg.Match.Width, cfg.Match.Height)
	}
	if cfg.Match.WinningScore != 5 {
		t.Errorf("expected winning score 5, got %d", cfg.Match.WinningScore)
	}
	if cfg.Match.Difficulty != match.DifficultyMedium {
		t.Errorf("expected medium difficulty, got %v", cfg.Match.Difficulty)
	}
	if cfg.Video.TickRate != 60 {
		t.Errorf("expected 60 TPS, got %d", cfg.Video.TickRate)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("expected port 3000, got %d", cfg.Server.Port)
	}
}

// TestMatchEnvOverrides: environment variables take precedence.
func TestMatchEnvOverrides(t *testing.T) {
	t.Setenv("COURT_DEPTH", "400")
	t.Setenv("BALL_SPEED", "9")
	t.Setenv("WINNING_SCORE", "11")
	t.Setenv("AI_DIFFICULTY", "hard")
	t.Setenv("AI_NAME", "HAL")

	cfg := MatchFromEnv()
	if cfg.Depth != 400 {
		t.Errorf("expected depth 400, got %g", cfg.Depth)
	}
	if cfg.BallSpeed != 9 {
		t.Errorf("expected ball speed 9, got %g", cfg.BallSpeed)
	}
	if cfg.WinningScore != 11 {
		t.Errorf("expected winning score 11, got %d", cfg.WinningScore)
	}
	if cfg.Difficulty != match.DifficultyHard {
		t.Errorf("expected hard, got %v", cfg.Difficulty)
	}
	if cfg.AIName != "HAL" {
		t.Errorf("expected AI name HAL, got %q", cfg.AIName)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("override config should validate: %v", err)
	}
}

// TestBadEnvValuesIgnored: unparsable numbers fall back to defaults rather
// than zeroing the court.
func TestBadEnvValuesIgnored(t *testing.T) {
	t.Setenv("COURT_WIDTH", "wide")
	t.Setenv("PORT", "not-a-port")

	if cfg := MatchFromEnv(); cfg.Width != 1200 {
		t.Errorf("expected default width, got %g", cfg.Width)
	}
	if cfg := ServerFromEnv(); cfg.Port != 3000 {
		t.Errorf("expected default port, got %d", cfg.Port)
	}
}

// TestInvalidDifficultyFailsValidation: a typo'd difficulty must be caught
// at startup.
func TestInvalidDifficultyFailsValidation(t *testing.T) {
	t.Setenv("AI_DIFFICULTY", "nightmare")

	cfg := AppConfig{
		Match:  MatchFromEnv(),
		Video:  DefaultVideo(),
		Audio:  DefaultAudio(),
		Server: DefaultServer(),
		Limits: match.DefaultLimits,
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for unknown difficulty")
	}
}

// TestAudioEnvOverrides covers the volume and kill-switch toggles.
func TestAudioEnvOverrides(t *testing.T) {
	t.Setenv("AUDIO_VOLUME", "0.5")
	t.Setenv("AUDIO_ENABLED", "false")
	t.Setenv("MUSIC_DIR", "/tmp/music")

	cfg := AudioFromEnv()
	if cfg.Volume != 0.5 {
		t.Errorf("expected volume 0.5, got %g", cfg.Volume)
	}
	if cfg.Enabled {
		t.Error("expected audio disabled")
	}
	if cfg.MusicDir != "/tmp/music" {
		t.Errorf("expected music dir override, got %q", cfg.MusicDir)
	}
}
