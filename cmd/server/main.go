package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"paddle-arena/internal/api"
	"paddle-arena/internal/audio"
	"paddle-arena/internal/config"
	"paddle-arena/internal/match"
	"paddle-arena/internal/render"

	"github.com/joho/godotenv"
)

// frameService adapts the renderer to the API's FrameSource, tracking the
// wall clock for the cosmetic blink animation.
type frameService struct {
	renderer *render.Renderer
	started  time.Time
}

func (f *frameService) FramePNG(snap *match.Snapshot) ([]byte, error) {
	start := time.Now()
	data, err := f.renderer.RenderPNG(snap, time.Since(f.started))
	api.RecordRender(time.Since(start))
	return data, err
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("no .env file found, using environment variables only")
	}

	appConfig := config.Load()
	if err := appConfig.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	matchCfg := appConfig.Match
	videoCfg := appConfig.Video
	audioCfg := appConfig.Audio
	serverCfg := appConfig.Server

	log.Printf("court %gx%g (depth %g), ball %g px/tick, first to %d, AI %s",
		matchCfg.Width, matchCfg.Height, matchCfg.Depth,
		matchCfg.BallSpeed, matchCfg.WinningScore, matchCfg.Difficulty)

	engine := match.NewEngine(match.EngineConfig{
		Match:    matchCfg,
		TickRate: videoCfg.TickRate,
		Limits:   appConfig.Limits,
	})

	if serverCfg.EventLogPath != "" {
		if err := engine.StartEventLog(serverCfg.EventLogPath); err != nil {
			log.Printf("event log disabled: %v", err)
		} else {
			log.Printf("event log: %s", serverCfg.EventLogPath)
		}
	}

	// Tick duration feeds the Prometheus histogram.
	engine.OnTick = api.RecordTick

	// Audio cues ride the engine's event callback; listeners pull the
	// mixed output through the /api/audio stream.
	var mixer *audio.Mixer
	var audioSrc api.AudioSource
	if audioCfg.Enabled {
		musicPath := ""
		if audioCfg.MusicDir != "" {
			musicPath = filepath.Join(audioCfg.MusicDir, "arena_loop.ogg")
		}
		mixer = audio.NewMixer(audio.MixerConfig{
			SampleRate: audioCfg.SampleRate,
			Channels:   audioCfg.Channels,
			FrameRate:  videoCfg.TickRate,
			Volume:     audioCfg.Volume,
			SoundDir:   audioCfg.SoundDir,
			MusicPath:  musicPath,
		})
		engine.OnEvent = mixer.HandleEvent
		audioSrc = mixer
	}

	if serverCfg.MetricsPort > 0 && os.Getenv("DISABLE_DEBUG_SERVER") != "true" {
		debugCfg := api.DefaultObservabilityConfig()
		debugCfg.ListenAddr = "127.0.0.1:" + strconv.Itoa(serverCfg.MetricsPort)
		if err := api.StartDebugServer(debugCfg); err != nil {
			log.Printf("debug server disabled: %v", err)
		}
	}

	frames := &frameService{
		renderer: render.NewRenderer(videoCfg.Width, videoCfg.Height, matchCfg),
		started:  time.Now(),
	}

	server := api.NewServer(engine, frames, audioSrc)

	engine.Start()

	// Snapshot-derived gauges, refreshed off the hot path.
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for range ticker.C {
			snap := engine.Snapshot()
			api.UpdateMatchMetrics(int(snap.State), snap.PlayerScore, snap.AIScore, len(snap.Particles))
		}
	}()

	go func() {
		addr := ":" + strconv.Itoa(serverCfg.Port)
		if err := server.Start(addr); err != nil {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("server ready, press Ctrl+C to stop")
	<-quit

	log.Println("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
	if mixer != nil {
		mixer.Close()
	}
	engine.StopEventLog()
	engine.Stop()
}
