package match

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// TestWallReflection verifies the wall bounce invariant: vertical speed
// magnitude unchanged, sign flipped, position snapped inside the court.
func TestWallReflection(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name  string
		pos   Vec3
		vel   Vec3
		wantY float64
	}{
		{"top wall", Vec3{X: 600, Y: 5}, Vec3{X: 3, Y: -4}, cfg.BallRadius},
		{"bottom wall", Vec3{X: 600, Y: cfg.Height + 2}, Vec3{X: 3, Y: 4}, cfg.Height - cfg.BallRadius},
		{"exactly at radius", Vec3{X: 600, Y: cfg.BallRadius}, Vec3{X: 3, Y: -4}, cfg.BallRadius},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := tt.pos.Add(tt.vel.Scale(-1))
			res := ResolveCollisions(cfg, prev, Ball{Pos: tt.pos, Vel: tt.vel}, 400, 400)

			if len(res.WallAxes) != 1 || res.WallAxes[0] != AxisY {
				t.Fatalf("expected one Y wall bounce, got %v", res.WallAxes)
			}
			if !almostEqual(res.Vel.Y, -tt.vel.Y) {
				t.Errorf("expected vy %g, got %g", -tt.vel.Y, res.Vel.Y)
			}
			if !almostEqual(math.Abs(res.Vel.Y), math.Abs(tt.vel.Y)) {
				t.Errorf("wall bounce changed speed magnitude: %g -> %g", tt.vel.Y, res.Vel.Y)
			}
			if res.Pos.Y != tt.wantY {
				t.Errorf("expected y snapped to %g, got %g", tt.wantY, res.Pos.Y)
			}
		})
	}
}

// TestSweptPaddleHitCenter reproduces the canonical center hit: a ball
// crossing the player paddle plane at paddle center reflects to +speed×1.05
// with near-zero vertical speed.
func TestSweptPaddleHitCenter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PaddleWidth = 4
	cfg.BallRadius = 1

	paddleY := cfg.Height/2 - cfg.PaddleHeight/2 // covers [H/2-75, H/2+75]
	prev := Vec3{X: 5, Y: cfg.Height / 2}
	vel := Vec3{X: -6}
	pos := prev.Add(vel)

	res := ResolveCollisions(cfg, prev, Ball{Pos: pos, Vel: vel}, paddleY, paddleY)

	if res.PaddleSide != SidePlayer {
		t.Fatalf("expected player paddle hit, got %v", res.PaddleSide)
	}
	if !almostEqual(res.Vel.X, 6.3) {
		t.Errorf("expected vx 6.3 after hit, got %g", res.Vel.X)
	}
	if math.Abs(res.Vel.Y) > 1e-9 {
		t.Errorf("center hit should give ~0 vertical speed, got %g", res.Vel.Y)
	}
	if res.Pos.X != cfg.PaddleWidth {
		t.Errorf("ball should snap to paddle plane %g, got %g", cfg.PaddleWidth, res.Pos.X)
	}
}

// TestSweptPaddleHitOffset checks the spin derivation: hitting near the top
// edge sends the ball upward, scaled by the offset.
func TestSweptPaddleHitOffset(t *testing.T) {
	cfg := DefaultConfig()

	paddleY := 300.0
	hitY := paddleY + 15 // near the top edge, offset = (75-15)/75 = 0.8
	prev := Vec3{X: cfg.PaddleWidth + 3, Y: hitY}
	vel := Vec3{X: -6}
	pos := prev.Add(vel)

	res := ResolveCollisions(cfg, prev, Ball{Pos: pos, Vel: vel}, paddleY, paddleY)

	if res.PaddleSide != SidePlayer {
		t.Fatalf("expected player paddle hit, got %v", res.PaddleSide)
	}
	wantVy := -0.8 * cfg.BallSpeed
	if !almostEqual(res.Vel.Y, wantVy) {
		t.Errorf("expected vy %g, got %g", wantVy, res.Vel.Y)
	}
}

// TestAIPaddleSwept mirrors the swept test on the right paddle.
func TestAIPaddleSwept(t *testing.T) {
	cfg := DefaultConfig()

	aiY := 400.0
	hitY := aiY + cfg.PaddleHeight/2
	plane := cfg.Width - cfg.PaddleWidth - cfg.BallRadius
	prev := Vec3{X: plane - 4, Y: hitY}
	vel := Vec3{X: 8}
	pos := prev.Add(vel)

	res := ResolveCollisions(cfg, prev, Ball{Pos: pos, Vel: vel}, 400, aiY)

	if res.PaddleSide != SideAI {
		t.Fatalf("expected AI paddle hit, got %v", res.PaddleSide)
	}
	if res.Vel.X >= 0 {
		t.Errorf("expected reflected vx < 0, got %g", res.Vel.X)
	}
	if res.Pos.X != plane {
		t.Errorf("ball should snap to AI plane %g, got %g", plane, res.Pos.X)
	}
}

// TestPaddleSpeedCaps verifies the growth clamps: |vx| ≤ 2.5×speed and
// |vy| ≤ 1.5×speed regardless of incoming speed or hit offset.
func TestPaddleSpeedCaps(t *testing.T) {
	cfg := DefaultConfig()

	// Incoming at far beyond the cap.
	prev := Vec3{X: cfg.PaddleWidth + 50, Y: 450}
	vel := Vec3{X: -100}
	pos := prev.Add(vel)
	paddleY := 450 - cfg.PaddleHeight/2

	res := ResolveCollisions(cfg, prev, Ball{Pos: pos, Vel: vel}, paddleY, paddleY)
	if res.PaddleSide != SidePlayer {
		t.Fatal("expected paddle hit")
	}
	if got, max := math.Abs(res.Vel.X), maxBallSpeedX*cfg.BallSpeed; got > max {
		t.Errorf("|vx| %g exceeds cap %g", got, max)
	}

	// Edge hit with the radius buffer: raw offset slightly above 1.
	hitY := paddleY - cfg.BallRadius + 1
	prev = Vec3{X: cfg.PaddleWidth + 6, Y: hitY}
	vel = Vec3{X: -6}
	pos = prev.Add(vel)

	res = ResolveCollisions(cfg, prev, Ball{Pos: pos, Vel: vel}, paddleY, paddleY)
	if res.PaddleSide != SidePlayer {
		t.Fatal("expected edge paddle hit")
	}
	if got, max := math.Abs(res.Vel.Y), maxBallSpeedY*cfg.BallSpeed; got > max {
		t.Errorf("|vy| %g exceeds cap %g", got, max)
	}
}

// TestFastBallNoTunneling: a ball fast enough to jump the paddle region in
// one frame must still register through the trajectory segment.
func TestFastBallNoTunneling(t *testing.T) {
	cfg := DefaultConfig()

	paddleY := 375.0
	prev := Vec3{X: 300, Y: 450}
	vel := Vec3{X: -400} // crosses the whole left region in one frame
	pos := prev.Add(vel)

	res := ResolveCollisions(cfg, prev, Ball{Pos: pos, Vel: vel}, paddleY, paddleY)

	if res.PaddleSide != SidePlayer {
		t.Fatal("fast ball tunneled through the paddle")
	}
}

// TestNoHitWhenMovingAway: the resolver only tests the paddle the ball is
// moving toward.
func TestNoHitWhenMovingAway(t *testing.T) {
	cfg := DefaultConfig()

	prev := Vec3{X: cfg.PaddleWidth - 2, Y: 450}
	vel := Vec3{X: 6}
	pos := prev.Add(vel)
	paddleY := 450 - cfg.PaddleHeight/2

	res := ResolveCollisions(cfg, prev, Ball{Pos: pos, Vel: vel}, paddleY, paddleY)
	if res.PaddleSide != SideNone {
		t.Errorf("outgoing ball should not hit the paddle, got %v", res.PaddleSide)
	}
}

// TestMissAbovePaddle: crossing the plane outside the paddle span is a miss.
func TestMissAbovePaddle(t *testing.T) {
	cfg := DefaultConfig()

	paddleY := 600.0
	prev := Vec3{X: cfg.PaddleWidth + 3, Y: 100}
	vel := Vec3{X: -6}
	pos := prev.Add(vel)

	res := ResolveCollisions(cfg, prev, Ball{Pos: pos, Vel: vel}, paddleY, paddleY)
	if res.PaddleSide != SideNone {
		t.Errorf("ball above the paddle should miss, got %v", res.PaddleSide)
	}
}

// TestDepthWallBounce exercises the 2.5D z axis: bounce and snap at
// ±Depth/2, and a depth spin component on paddle hits.
func TestDepthWallBounce(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Depth = 400

	pos := Vec3{X: 600, Y: 450, Z: 210}
	vel := Vec3{X: 3, Y: 0, Z: 4}
	prev := pos.Add(vel.Scale(-1))

	res := ResolveCollisions(cfg, prev, Ball{Pos: pos, Vel: vel}, 375, 375)

	if len(res.WallAxes) != 1 || res.WallAxes[0] != AxisZ {
		t.Fatalf("expected one Z wall bounce, got %v", res.WallAxes)
	}
	if !almostEqual(res.Vel.Z, -4) {
		t.Errorf("expected vz -4, got %g", res.Vel.Z)
	}
	if res.Pos.Z != cfg.Depth/2 {
		t.Errorf("expected z snapped to %g, got %g", cfg.Depth/2, res.Pos.Z)
	}
}

// TestDepthSpinOnPaddleHit: off-center hits impart bounded depth speed.
func TestDepthSpinOnPaddleHit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Depth = 400

	paddleY := 300.0
	hitY := paddleY + 15 // offset 0.8
	prev := Vec3{X: cfg.PaddleWidth + 3, Y: hitY}
	vel := Vec3{X: -6}
	pos := prev.Add(vel)

	res := ResolveCollisions(cfg, prev, Ball{Pos: pos, Vel: vel}, paddleY, paddleY)
	if res.PaddleSide != SidePlayer {
		t.Fatal("expected paddle hit")
	}

	wantVz := 0.8 * cfg.BallSpeed * 0.5
	if !almostEqual(res.Vel.Z, wantVz) {
		t.Errorf("expected vz %g, got %g", wantVz, res.Vel.Z)
	}
	if math.Abs(res.Vel.Z) > maxBallSpeedZ*cfg.BallSpeed {
		t.Errorf("|vz| exceeds cap")
	}
}
