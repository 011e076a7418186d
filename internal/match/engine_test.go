package match

import (
	"math"
	"sync"
	"testing"
	"time"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(EngineConfig{
		Match:    DefaultConfig(),
		TickRate: 60,
		Seed:     42,
	})
}

// tickN runs n synchronous ticks spaced at the nominal interval.
func tickN(e *Engine, n int) {
	now := time.Now()
	step := time.Second / time.Duration(e.cfg.TickRate)
	for i := 0; i < n; i++ {
		now = now.Add(step)
		e.TickOnce(now)
	}
}

// TestNewEnginePanicsOnInvalidConfig surfaces wiring bugs at startup.
func TestNewEnginePanicsOnInvalidConfig(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on invalid match config")
		}
	}()
	cfg := DefaultConfig()
	cfg.BallSpeed = -1
	NewEngine(EngineConfig{Match: cfg})
}

// TestTickProgression: ticks advance the counter and publish fresh
// snapshots with monotonic sequences.
func TestTickProgression(t *testing.T) {
	e := newTestEngine(t)

	tickN(e, 1)
	first := e.Snapshot()
	if first.TickNumber != 1 {
		t.Errorf("expected tick 1, got %d", first.TickNumber)
	}
	if first.State != StateWelcome {
		t.Errorf("expected welcome on boot, got %v", first.State)
	}
	firstSeq := first.Sequence

	tickN(e, 5)
	snap := e.Snapshot()
	if snap.TickNumber != 6 {
		t.Errorf("expected tick 6, got %d", snap.TickNumber)
	}
	if snap.Sequence <= firstSeq {
		t.Errorf("sequence did not advance: %d then %d", firstSeq, snap.Sequence)
	}
}

// TestInputMailboxEdgeTrigger: request flags fire exactly once, movement
// holds across ticks.
func TestInputMailboxEdgeTrigger(t *testing.T) {
	e := newTestEngine(t)

	e.SetInput(Input{NameConfirmed: true, Name: "Alice", StartRequested: true})
	tickN(e, 1)
	if snap := e.Snapshot(); snap.State != StatePlaying {
		t.Fatalf("expected playing after start input, got %v", snap.State)
	}

	// The flags were consumed: further ticks see no start requests and no
	// repeated game_start events.
	tickN(e, 3)
	for _, ev := range e.Snapshot().Events {
		if ev.Type == EventTypeGameStart {
			t.Error("game_start re-emitted after the request was consumed")
		}
	}

	// Held movement persists without re-sending.
	before := e.Snapshot().PlayerY
	e.SetInput(Input{MoveUp: true})
	tickN(e, 10)
	after := e.Snapshot().PlayerY
	if after >= before {
		t.Errorf("held MoveUp should keep moving the paddle: %g -> %g", before, after)
	}
}

// TestStartStopIdempotence: double Start and double Stop are safe.
func TestStartStopIdempotence(t *testing.T) {
	e := newTestEngine(t)

	e.Start()
	e.Start()
	time.Sleep(50 * time.Millisecond)
	e.Stop()
	e.Stop()

	if snap := e.Snapshot(); snap.TickNumber == 0 {
		t.Error("engine never ticked while running")
	}
}

// TestOnEventCallback: tick events reach the registered observer.
func TestOnEventCallback(t *testing.T) {
	e := newTestEngine(t)

	var got []EventType
	e.OnEvent = func(ev TickEvent) {
		got = append(got, ev.Type)
	}

	e.SetInput(Input{NameConfirmed: true, Name: "Alice", StartRequested: true})
	tickN(e, 1)

	if len(got) != 1 || got[0] != EventTypeGameStart {
		t.Fatalf("expected [game_start], got %v", got)
	}
}

// TestStalledTickCapped: a huge gap between ticks advances the match by
// exactly four nominal frames, never teleporting it across the court.
func TestStalledTickCapped(t *testing.T) {
	e := newTestEngine(t)
	e.SetInput(Input{NameConfirmed: true, Name: "Alice", StartRequested: true})

	now := time.Now()
	e.TickOnce(now)
	before := e.Snapshot()

	// Ten seconds of stall, then one tick holding MoveUp.
	e.SetInput(Input{MoveUp: true})
	e.TickOnce(now.Add(10 * time.Second))
	after := e.Snapshot()

	cfg := e.Config()
	maxStep := cfg.BallSpeed * maxBallSpeedX * 4
	dx := after.Ball.X - before.Ball.X
	if dx < -maxStep || dx > maxStep {
		t.Errorf("stalled tick moved the ball %g, beyond the per-tick cap", dx)
	}

	// The paddle never collides, so its displacement shows the capped
	// frame scale exactly.
	dy := before.PlayerY - after.PlayerY
	want := cfg.PaddleSpeed * 4
	if math.Abs(dy-want) > 1e-9 {
		t.Errorf("stalled tick moved the paddle %g, want %g (four frames)", dy, want)
	}
}

// TestSnapshotParticleTrail: a running rally leaves a ball trail in the
// published snapshot.
func TestSnapshotParticleTrail(t *testing.T) {
	e := newTestEngine(t)
	e.SetInput(Input{NameConfirmed: true, Name: "Alice", StartRequested: true})

	tickN(e, 30)
	snap := e.Snapshot()
	if snap.State != StatePlaying {
		t.Fatalf("expected a running rally, got %v", snap.State)
	}
	if len(snap.Particles) == 0 {
		t.Error("expected trail particles after half a second of play")
	}
	if len(snap.Particles) > DefaultLimits.MaxParticles {
		t.Errorf("particle count %d above the cap", len(snap.Particles))
	}
}

// TestConcurrentSnapshotReads: host readers poll the snapshot while the
// tick loop runs; reads must always observe a complete, published slot.
func TestConcurrentSnapshotReads(t *testing.T) {
	e := newTestEngine(t)
	e.SetInput(Input{NameConfirmed: true, Name: "Alice", StartRequested: true})
	e.Start()
	defer e.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			deadline := time.After(100 * time.Millisecond)
			for {
				select {
				case <-deadline:
					return
				default:
					snap := e.Snapshot()
					_ = snap.Ball
					_ = snap.PlayerScore
				}
			}
		}()
	}
	wg.Wait()
}

// TestRestartClearsParticles: the restart path wipes decorative state so a
// fresh match starts clean.
func TestRestartClearsParticles(t *testing.T) {
	e := newTestEngine(t)
	e.SetInput(Input{NameConfirmed: true, Name: "Alice", StartRequested: true})
	tickN(e, 30)

	// Force a finished match, then restart through the input path.
	e.match.playerScore = e.cfg.Match.WinningScore
	e.match.winner = "Alice"
	e.match.state = StateGameOver

	e.SetInput(Input{RestartRequested: true})
	tickN(e, 1)

	snap := e.Snapshot()
	if snap.State != StateWelcome {
		t.Fatalf("expected welcome after restart, got %v", snap.State)
	}
	if len(snap.Particles) != 0 {
		t.Errorf("expected particles cleared on restart, got %d", len(snap.Particles))
	}
}
