package match

// aiDeadZone is the tolerance, in court units, within which the AI paddle
// holds position instead of chasing the ball. Prevents jitter when the
// paddle center is already on the ball.
const aiDeadZone = 10.0

// AIController is the reactive paddle policy: follow the ball's vertical
// position at a fraction of the player's paddle speed. Deliberately no
// lookahead or intercept prediction; difficulty is purely a speed scalar.
type AIController struct {
	multiplier float64
}

// NewAIController builds the controller for a difficulty. The difficulty
// must already be validated by Config.Validate.
func NewAIController(d Difficulty) *AIController {
	m, ok := d.Multiplier()
	if !ok {
		m, _ = DifficultyMedium.Multiplier()
	}
	return &AIController{multiplier: m}
}

// Track moves the AI paddle one frame toward ballY. frameScale compensates
// for variable tick intervals; 1.0 is one nominal tick.
func (a *AIController) Track(cfg Config, paddle *Paddle, ballY, frameScale float64) {
	center := paddle.Center(cfg)
	step := cfg.PaddleSpeed * a.multiplier * frameScale

	switch {
	case center < ballY-aiDeadZone:
		paddle.MoveBy(step, cfg)
	case center > ballY+aiDeadZone:
		paddle.MoveBy(-step, cfg)
	}
}
