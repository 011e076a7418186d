package match

import (
	"math"
	"math/rand"
)

// State is the match lifecycle phase. Exactly one value holds at any time
// and transitions are the only way scores, ball and paddles mutate
// meaningfully.
type State uint8

const (
	StateWelcome State = iota
	StatePlaying
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateWelcome:
		return "welcome"
	case StatePlaying:
		return "playing"
	case StateGameOver:
		return "game_over"
	}
	return "unknown"
}

// maxNameLength bounds the accepted player name.
const maxNameLength = 20

// Input is the diffed per-tick input snapshot the host delivers. Movement
// fields are level-triggered (held keys); request fields are edge-triggered
// and consumed by exactly one tick. The core keeps no "already processed"
// key bookkeeping: suppressing key repeat is the host's job.
type Input struct {
	MoveUp   bool `json:"moveUp"`
	MoveDown bool `json:"moveDown"`

	StartRequested   bool `json:"startRequested"`
	RestartRequested bool `json:"restartRequested"`

	// NameConfirmed submits Name as the player identity. Free-form name
	// entry and editing happen host-side; the core only stores the
	// confirmed result.
	NameConfirmed bool   `json:"nameConfirmed"`
	Name          string `json:"name"`

	// Difficulty selects the AI speed before the match starts; empty means
	// no selection this tick.
	Difficulty Difficulty `json:"difficulty,omitempty"`
}

// Match is the complete mutable state of one game. It is not safe for
// concurrent use; the Engine serializes all access through its tick.
type Match struct {
	cfg Config
	rng *rand.Rand

	state       State
	player      Paddle
	aiPaddle    Paddle
	ball        Ball
	playerScore int
	aiScore     int

	playerName    string
	nameConfirmed bool
	difficulty    Difficulty
	winner        string

	controller *AIController

	// Reused event buffer, valid until the next Step.
	events []TickEvent
}

// NewMatch creates a match in the welcome state. cfg must be validated.
// The rng drives serve directions; seed it for deterministic replays.
func NewMatch(cfg Config, rng *rand.Rand) *Match {
	m := &Match{
		cfg:        cfg,
		rng:        rng,
		difficulty: cfg.Difficulty,
		controller: NewAIController(cfg.Difficulty),
		events:     make([]TickEvent, 0, 8),
	}
	m.reset()
	return m
}

// Step advances the match by one tick. frameScale is the elapsed time in
// nominal ticks (1.0 at the configured tick rate); movement scales with it
// so variable frame rates keep speed stable. The returned slice is reused
// between calls.
func (m *Match) Step(in Input, frameScale float64) []TickEvent {
	m.events = m.events[:0]

	switch m.state {
	case StateWelcome:
		m.stepWelcome(in)
	case StatePlaying:
		m.stepPlaying(in, frameScale)
	case StateGameOver:
		if in.RestartRequested {
			m.reset()
			m.emit(TickEvent{Type: EventTypeRestart})
		}
	}

	return m.events
}

func (m *Match) stepWelcome(in Input) {
	if in.NameConfirmed && in.Name != "" {
		name := in.Name
		// Truncate on runes so a multi-byte name stays valid UTF-8.
		if runes := []rune(name); len(runes) > maxNameLength {
			name = string(runes[:maxNameLength])
		}
		m.playerName = name
		m.nameConfirmed = true
	}
	if in.Difficulty != "" {
		if _, ok := in.Difficulty.Multiplier(); ok {
			m.difficulty = in.Difficulty
			m.controller = NewAIController(in.Difficulty)
		}
	}
	if in.StartRequested && m.nameConfirmed {
		m.playerScore = 0
		m.aiScore = 0
		m.player.centerOn(m.cfg)
		m.aiPaddle.centerOn(m.cfg)
		m.serve()
		m.state = StatePlaying
		m.emit(TickEvent{Type: EventTypeGameStart})
	}
}

func (m *Match) stepPlaying(in Input, frameScale float64) {
	cfg := m.cfg

	// Player paddle from held input; clamped by MoveBy.
	if in.MoveUp {
		m.player.MoveBy(-cfg.PaddleSpeed*frameScale, cfg)
	}
	if in.MoveDown {
		m.player.MoveBy(cfg.PaddleSpeed*frameScale, cfg)
	}

	// AI paddle follows the ball.
	m.controller.Track(cfg, &m.aiPaddle, m.ball.Pos.Y, frameScale)

	// A stalled host or bad upstream data must not poison the simulation:
	// non-finite kinematics get replaced by a fresh serve.
	if !m.ball.Vel.Finite() || !m.ball.Pos.Finite() {
		m.serve()
		return
	}

	// Integrate, then resolve against walls and paddles using the full
	// trajectory segment of this frame.
	prev := m.ball.Pos
	m.ball.Pos = m.ball.Pos.Add(m.ball.Vel.Scale(frameScale))

	res := ResolveCollisions(cfg, prev, m.ball, m.player.Y, m.aiPaddle.Y)
	m.ball.Pos = res.Pos
	m.ball.Vel = res.Vel

	for _, axis := range res.WallAxes {
		m.emit(TickEvent{
			Type: EventTypeWallHit,
			Axis: axis,
			X:    m.ball.Pos.X,
			Y:    m.ball.Pos.Y,
		})
	}
	if res.PaddleSide != SideNone {
		m.emit(TickEvent{
			Type: EventTypePaddleHit,
			Side: res.PaddleSide,
			X:    m.ball.Pos.X,
			Y:    res.HitY,
		})
	}

	// Scoring: the ball left the court horizontally. At most one scoring
	// event per tick even if a stall made the ball cross both lines.
	if m.ball.Pos.X < cfg.BallRadius {
		m.scorePoint(SideAI)
	} else if m.ball.Pos.X > cfg.Width-cfg.BallRadius {
		m.scorePoint(SidePlayer)
	}
}

func (m *Match) scorePoint(side Side) {
	if side == SideAI {
		m.aiScore++
	} else {
		m.playerScore++
	}
	m.emit(TickEvent{
		Type: EventTypeScore,
		Side: side,
		X:    m.ball.Pos.X,
		Y:    m.ball.Pos.Y,
	})

	if m.playerScore >= m.cfg.WinningScore || m.aiScore >= m.cfg.WinningScore {
		m.winner = m.cfg.AIName
		if m.playerScore >= m.cfg.WinningScore {
			m.winner = m.playerName
		}
		m.state = StateGameOver
		m.emit(TickEvent{Type: EventTypeGameEnd})
		return
	}

	m.serve()
	m.emit(TickEvent{Type: EventTypeServe, X: m.ball.Pos.X, Y: m.ball.Pos.Y})
}

// serve re-centers the ball and launches it toward a random paddle. The
// horizontal speed is BallSpeed scaled by a ±20% variation, floored at
// 0.8×BallSpeed so the ball never stalls near-vertical. Vertical speed
// starts at zero; 2.5D courts get a small random depth drift.
func (m *Match) serve() {
	cfg := m.cfg

	vx := cfg.BallSpeed * (0.8 + m.rng.Float64()*0.4)
	if m.rng.Float64() > 0.5 {
		vx = -vx
	}
	if math.Abs(vx) < cfg.BallSpeed*0.8 {
		vx = math.Copysign(cfg.BallSpeed*0.8, vx)
	}

	var vz float64
	if cfg.Depth > 0 {
		vz = (m.rng.Float64() - 0.5) * cfg.BallSpeed * 0.2
	}

	m.ball = Ball{
		Pos: Vec3{X: cfg.Width / 2, Y: cfg.Height / 2},
		Vel: Vec3{X: vx, Y: 0, Z: vz},
	}
}

// reset restores all mutable state to welcome-screen defaults. The chosen
// difficulty survives a restart; the identity does not.
func (m *Match) reset() {
	m.playerScore = 0
	m.aiScore = 0
	m.player = Paddle{Side: SidePlayer}
	m.aiPaddle = Paddle{Side: SideAI}
	m.player.centerOn(m.cfg)
	m.aiPaddle.centerOn(m.cfg)
	m.serve()
	m.playerName = ""
	m.nameConfirmed = false
	m.winner = ""
	m.state = StateWelcome
}

func (m *Match) emit(ev TickEvent) {
	m.events = append(m.events, ev)
}

// State returns the current lifecycle phase.
func (m *Match) State() State { return m.state }

// Scores returns (player, ai).
func (m *Match) Scores() (int, int) { return m.playerScore, m.aiScore }

// Ball returns the ball's kinematic state.
func (m *Match) Ball() Ball { return m.ball }

// PaddleYs returns the top edges of (player, ai).
func (m *Match) PaddleYs() (float64, float64) { return m.player.Y, m.aiPaddle.Y }

// PlayerName returns the confirmed identity, empty until confirmed.
func (m *Match) PlayerName() string { return m.playerName }

// Difficulty returns the effective AI difficulty.
func (m *Match) Difficulty() Difficulty { return m.difficulty }

// Winner returns the winner's display name; valid only in StateGameOver.
func (m *Match) Winner() string { return m.winner }
