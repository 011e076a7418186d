package match

// CollisionResult carries the corrected ball state plus what happened during
// one resolver pass.
type CollisionResult struct {
	Pos Vec3
	Vel Vec3

	WallAxes   []Axis  // wall bounces this frame, in resolution order
	PaddleSide Side    // SideNone when no paddle was struck
	HitY       float64 // interpolated contact Y, valid when PaddleSide != SideNone
}

// ResolveCollisions resolves one frame of ball movement against walls and
// paddles. It is a pure function of its inputs: prev is the ball position
// before integration, pos/vel the state after. The swept paddle test uses
// the prev→pos trajectory segment, so a fast ball cannot tunnel through a
// paddle in a single frame.
func ResolveCollisions(cfg Config, prev Vec3, ball Ball, playerY, aiY float64) CollisionResult {
	res := CollisionResult{Pos: ball.Pos, Vel: ball.Vel, PaddleSide: SideNone}
	r := cfg.BallRadius

	// Top and bottom walls: invert vertical speed and snap to the boundary
	// so the ball never rests outside the court on the next frame.
	if res.Pos.Y <= r || res.Pos.Y >= cfg.Height-r {
		res.Vel.Y = -res.Vel.Y
		if res.Pos.Y <= r {
			res.Pos.Y = r
		} else {
			res.Pos.Y = cfg.Height - r
		}
		res.WallAxes = append(res.WallAxes, AxisY)
	}

	// Depth walls on 2.5D courts, same rule on the z axis.
	if cfg.Depth > 0 {
		half := cfg.Depth / 2
		if res.Pos.Z <= -half || res.Pos.Z >= half {
			res.Vel.Z = -res.Vel.Z
			if res.Pos.Z <= -half {
				res.Pos.Z = -half
			} else {
				res.Pos.Z = half
			}
			res.WallAxes = append(res.WallAxes, AxisZ)
		}
	}

	// Player paddle (left). Only tested while the ball moves toward it.
	if res.Vel.X < 0 {
		plane := cfg.PaddleWidth
		if prev.X > plane && res.Pos.X <= plane {
			t := (plane - prev.X) / (res.Pos.X - prev.X)
			hitY := prev.Y + (res.Pos.Y-prev.Y)*t
			if hitY >= playerY-r && hitY <= playerY+cfg.PaddleHeight+r {
				res.Pos.X = plane
				res.reflect(cfg, playerY, hitY, SidePlayer)
			}
		}
	}

	// AI paddle (right).
	if res.Vel.X > 0 {
		paddleX := cfg.Width - cfg.PaddleWidth
		plane := paddleX - r
		if prev.X < paddleX && res.Pos.X >= plane {
			t := (plane - prev.X) / (res.Pos.X - prev.X)
			hitY := prev.Y + (res.Pos.Y-prev.Y)*t
			if hitY >= aiY-r && hitY <= aiY+cfg.PaddleHeight+r {
				res.Pos.X = plane
				res.reflect(cfg, aiY, hitY, SideAI)
			}
		}
	}

	return res
}

// reflect applies the paddle bounce: horizontal reflection with capped speed
// growth, and vertical (plus depth) spin derived from where on the paddle
// the ball struck.
func (res *CollisionResult) reflect(cfg Config, paddleY, hitY float64, side Side) {
	res.Vel.X = clampMagnitude(-res.Vel.X*paddleHitGrowth, cfg.BallSpeed*maxBallSpeedX)

	// offset ∈ [−1, 1]: +1 at the paddle's top edge, −1 at the bottom.
	offset := (paddleY + cfg.PaddleHeight/2 - hitY) / (cfg.PaddleHeight / 2)
	res.Vel.Y = clampMagnitude(-offset*cfg.BallSpeed, cfg.BallSpeed*maxBallSpeedY)

	if cfg.Depth > 0 {
		z := offset * cfg.BallSpeed * 0.5
		if side == SideAI {
			z = -z
		}
		res.Vel.Z = clampMagnitude(z, cfg.BallSpeed*maxBallSpeedZ)
	}

	res.PaddleSide = side
	res.HitY = hitY
}
