package match

import "fmt"

// Difficulty selects the AI paddle speed as a fraction of the player's.
// It is a plain configuration value: the multiplier table below is the
// whole policy.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var difficultyMultipliers = map[Difficulty]float64{
	DifficultyEasy:   0.5,
	DifficultyMedium: 0.7,
	DifficultyHard:   0.9,
}

// Multiplier returns the AI speed scalar for this difficulty.
// The second return value is false for unknown difficulties.
func (d Difficulty) Multiplier() (float64, bool) {
	m, ok := difficultyMultipliers[d]
	return m, ok
}

// Config holds the immutable parameters of a match.
// All distances are in court units (canvas pixels), speeds in units per
// nominal tick.
type Config struct {
	Width  float64 // court width
	Height float64 // court height

	// Depth enables the 2.5D court: the ball gains a z axis bounded by
	// ±Depth/2 with its own wall bounces and paddle spin. Zero means a
	// flat court.
	Depth float64

	PaddleWidth  float64
	PaddleHeight float64
	BallRadius   float64

	PaddleSpeed float64 // player paddle speed; AI gets PaddleSpeed × difficulty
	BallSpeed   float64 // initial ball speed; paddle hits grow it up to 2.5×

	WinningScore int
	Difficulty   Difficulty

	// AIName is the display name used when the AI wins.
	AIName string
}

// DefaultConfig returns the standard court.
func DefaultConfig() Config {
	return Config{
		Width:        1200,
		Height:       900,
		Depth:        0,
		PaddleWidth:  20,
		PaddleHeight: 150,
		BallRadius:   15,
		PaddleSpeed:  7.5,
		BallSpeed:    6.0,
		WinningScore: 5,
		Difficulty:   DifficultyMedium,
		AIName:       "Computer",
	}
}

// Validate rejects configurations the simulation cannot run on.
// Invalid values fail fast here and are never silently clamped.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("match: court dimensions must be positive, got %gx%g", c.Width, c.Height)
	}
	if c.Depth < 0 {
		return fmt.Errorf("match: court depth must be non-negative, got %g", c.Depth)
	}
	if c.PaddleWidth <= 0 || c.PaddleHeight <= 0 {
		return fmt.Errorf("match: paddle dimensions must be positive, got %gx%g", c.PaddleWidth, c.PaddleHeight)
	}
	if c.PaddleHeight > c.Height {
		return fmt.Errorf("match: paddle height %g exceeds court height %g", c.PaddleHeight, c.Height)
	}
	if c.BallRadius <= 0 {
		return fmt.Errorf("match: ball radius must be positive, got %g", c.BallRadius)
	}
	if c.PaddleSpeed <= 0 {
		return fmt.Errorf("match: paddle speed must be positive, got %g", c.PaddleSpeed)
	}
	if c.BallSpeed <= 0 {
		return fmt.Errorf("match: ball speed must be positive, got %g", c.BallSpeed)
	}
	if c.WinningScore < 1 {
		return fmt.Errorf("match: winning score must be at least 1, got %d", c.WinningScore)
	}
	if _, ok := c.Difficulty.Multiplier(); !ok {
		return fmt.Errorf("match: unknown difficulty %q", c.Difficulty)
	}
	if c.AIName == "" {
		return fmt.Errorf("match: AI display name must not be empty")
	}
	return nil
}

// maxBallSpeedX is the horizontal speed cap relative to BallSpeed.
const maxBallSpeedX = 2.5

// maxBallSpeedY is the vertical speed cap relative to BallSpeed.
const maxBallSpeedY = 1.5

// maxBallSpeedZ is the depth speed cap relative to BallSpeed (2.5D only).
const maxBallSpeedZ = 0.8

// paddleHitGrowth is the horizontal speed multiplier applied on paddle hits.
const paddleHitGrowth = 1.05
