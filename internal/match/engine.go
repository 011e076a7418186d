package match

import (
	"log"
	"math/rand"
	"sync"
	"time"
)

// EngineConfig bundles what the engine needs beyond the match rules.
type EngineConfig struct {
	Match    Config
	TickRate int // ticks per second; also the nominal frame rate
	Limits   ResourceLimits
	Seed     int64 // 0 means time-based
}

// Engine drives one Match with a fixed-rate tick loop and publishes an
// immutable snapshot after every tick. The match itself is single-threaded
// by contract; the engine provides the serialization: all mutation happens
// inside tick(), inputs arrive through a mailbox, reads go through the
// lock-free snapshot pool.
type Engine struct {
	mu    sync.Mutex
	match *Match
	cfg   EngineConfig

	// Latest-wins input mailbox. Edge-triggered fields are consumed by the
	// tick that reads them; level-triggered movement persists until the
	// host sends a new snapshot.
	inputMu sync.Mutex
	input   Input

	particles *particleSystem

	running  bool
	ticker   *time.Ticker
	stopChan chan struct{}
	stopOnce sync.Once

	tickCount uint64
	lastTick  time.Time

	rng     *rand.Rand
	rngSeed int64

	snapshotPool *SnapshotPool
	eventLog     *EventLog

	// OnEvent, when set before Start, observes every tick event after the
	// tick completes. Runs on the tick goroutine: keep it cheap.
	OnEvent func(TickEvent)

	// OnTick, when set before Start, observes tick duration for metrics.
	OnTick func(elapsed time.Duration)
}

// NewEngine creates an engine and its match. The match config must already
// be validated; NewEngine panics on invalid config to surface wiring bugs
// at startup rather than mid-game.
func NewEngine(cfg EngineConfig) *Engine {
	if err := cfg.Match.Validate(); err != nil {
		panic(err)
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	if cfg.Limits == (ResourceLimits{}) {
		cfg.Limits = DefaultLimits
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	rng := rand.New(rand.NewSource(seed))
	return &Engine{
		match:        NewMatch(cfg.Match, rng),
		cfg:          cfg,
		particles:    newParticleSystem(cfg.Limits.MaxParticles),
		stopChan:     make(chan struct{}),
		rng:          rng,
		rngSeed:      seed,
		snapshotPool: NewSnapshotPool(cfg.Limits),
		eventLog:     NewEventLog(),
	}
}

// Start begins the tick loop.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.lastTick = time.Now()
	e.mu.Unlock()

	e.ticker = time.NewTicker(time.Second / time.Duration(e.cfg.TickRate))

	go func() {
		for {
			select {
			case <-e.ticker.C:
				e.tick(time.Now())
			case <-e.stopChan:
				return
			}
		}
	}()

	log.Printf("match engine started at %d TPS (seed %d)", e.cfg.TickRate, e.rngSeed)
}

// Stop stops the tick loop. Safe to call more than once; a stopped tick is
// simply never invoked again, there is no mid-tick cancellation.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return
	}
	e.running = false
	if e.ticker != nil {
		e.ticker.Stop()
	}
	e.stopOnce.Do(func() { close(e.stopChan) })
	log.Printf("match engine stopped after %d ticks", e.tickCount)
}

// SetInput replaces the input mailbox. The next tick consumes it; request
// flags fire once, movement holds until the next SetInput.
func (e *Engine) SetInput(in Input) {
	e.inputMu.Lock()
	e.input = in
	e.inputMu.Unlock()
}

// tick advances the simulation one step. Exported indirectly through Start;
// tests call it through TickOnce.
func (e *Engine) tick(now time.Time) {
	start := time.Now()

	e.mu.Lock()
	defer e.mu.Unlock()

	dt := now.Sub(e.lastTick).Seconds()
	e.lastTick = now
	nominal := 1.0 / float64(e.cfg.TickRate)
	if dt <= 0 {
		dt = nominal
	} else if dt > 4*nominal {
		// Host stall: cap the catch-up so one tick moves the ball at
		// most four frames' worth.
		dt = 4 * nominal
	}
	frameScale := dt / nominal

	e.tickCount++

	in := e.takeInput()
	events := e.match.Step(in, frameScale)

	e.eventLog.EmitSimple(EventTypeTick, e.tickCount, TickPayload{
		RNGSeed:     e.rngSeed,
		State:       e.match.State(),
		DeltaTimeNs: int64(dt * 1e9),
	})

	for _, ev := range events {
		e.logEvent(ev)
		e.particles.handleEvent(e, ev)
		if ev.Type == EventTypeRestart {
			e.particles.clear()
		}
		if e.OnEvent != nil {
			e.OnEvent(ev)
		}
	}

	e.particles.update(e, dt, frameScale)
	e.publishSnapshot(events)

	if e.OnTick != nil {
		e.OnTick(time.Since(start))
	}
}

// TickOnce runs a single synchronous tick with the given wall-clock time.
// Intended for tests and offline (replay) stepping; do not mix with Start.
func (e *Engine) TickOnce(now time.Time) {
	e.tick(now)
}

// takeInput drains the mailbox, clearing edge-triggered fields so a
// request is consumed by exactly one tick.
func (e *Engine) takeInput() Input {
	e.inputMu.Lock()
	defer e.inputMu.Unlock()

	in := e.input
	e.input.StartRequested = false
	e.input.RestartRequested = false
	e.input.NameConfirmed = false
	e.input.Difficulty = ""
	return in
}

// logEvent records a tick event to the durable event log with its typed
// payload.
func (e *Engine) logEvent(ev TickEvent) {
	switch ev.Type {
	case EventTypeGameStart:
		e.eventLog.EmitSimple(ev.Type, e.tickCount, GameStartPayload{
			PlayerName: e.match.PlayerName(),
			Difficulty: e.match.Difficulty(),
		})
	case EventTypePaddleHit:
		ball := e.match.Ball()
		e.eventLog.EmitSimple(ev.Type, e.tickCount, PaddleHitPayload{
			Side:   ev.Side.String(),
			HitY:   ev.Y,
			SpeedX: ball.Vel.X,
			SpeedY: ball.Vel.Y,
		})
	case EventTypeWallHit:
		e.eventLog.EmitSimple(ev.Type, e.tickCount, WallHitPayload{
			Axis: ev.Axis.String(),
			X:    ev.X,
			Y:    ev.Y,
		})
	case EventTypeServe:
		ball := e.match.Ball()
		e.eventLog.EmitSimple(ev.Type, e.tickCount, ServePayload{
			TowardPlayer: ball.Vel.X < 0,
			SpeedX:       ball.Vel.X,
		})
	case EventTypeScore:
		player, ai := e.match.Scores()
		e.eventLog.EmitSimple(ev.Type, e.tickCount, ScorePayload{
			Side:        ev.Side.String(),
			PlayerScore: player,
			AIScore:     ai,
		})
	case EventTypeGameEnd:
		player, ai := e.match.Scores()
		e.eventLog.EmitSimple(ev.Type, e.tickCount, GameEndPayload{
			Winner:      e.match.Winner(),
			PlayerScore: player,
			AIScore:     ai,
		})
	case EventTypeRestart:
		e.eventLog.EmitSimple(ev.Type, e.tickCount, nil)
	}
}

// publishSnapshot copies the post-tick match state into the next snapshot
// slot and publishes it for lock-free host reads.
func (e *Engine) publishSnapshot(events []TickEvent) {
	snap := e.snapshotPool.AcquireWrite()
	snap.TickNumber = e.tickCount

	snap.State = e.match.State()
	snap.PlayerY, snap.AIY = e.match.PaddleYs()
	ball := e.match.Ball()
	snap.Ball = ball.Pos
	snap.BallVel = ball.Vel
	snap.PlayerScore, snap.AIScore = e.match.Scores()
	snap.PlayerName = e.match.PlayerName()
	snap.Difficulty = e.match.Difficulty()
	if snap.State == StateGameOver {
		snap.Winner = e.match.Winner()
	}

	for _, ev := range events {
		if len(snap.Events) >= e.cfg.Limits.MaxEvents {
			break
		}
		snap.Events = append(snap.Events, ev)
	}

	for _, p := range e.particles.particles {
		if len(snap.Particles) >= e.cfg.Limits.MaxParticles {
			break
		}
		snap.Particles = append(snap.Particles, ParticleSnapshot{
			X:     p.X,
			Y:     p.Y,
			Z:     p.Z,
			Size:  p.Size,
			Color: p.Color,
			Alpha: p.Alpha,
		})
	}

	e.snapshotPool.PublishWrite()
}

// Snapshot returns the latest published snapshot. Lock-free; this is the
// only read path hosts should use.
func (e *Engine) Snapshot() *Snapshot {
	return e.snapshotPool.AcquireRead()
}

// Config returns the match configuration.
func (e *Engine) Config() Config {
	return e.cfg.Match
}

// StartEventLog initializes durable event logging to filePath.
func (e *Engine) StartEventLog(filePath string) error {
	return e.eventLog.Start(filePath)
}

// StopEventLog flushes and stops the event log.
func (e *Engine) StopEventLog() {
	e.eventLog.Stop()
}

// EventLogStats returns event log counters for monitoring.
func (e *Engine) EventLogStats() map[string]interface{} {
	return e.eventLog.GetStats()
}
