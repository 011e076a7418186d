package match

import "math"

// Vec3 is a position or velocity in court space. Z is zero on flat courts.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v + w.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Finite reports whether all components are finite numbers.
func (v Vec3) Finite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}

// Side identifies a paddle owner.
type Side int

const (
	SideNone Side = iota
	SidePlayer
	SideAI
)

func (s Side) String() string {
	switch s {
	case SidePlayer:
		return "player"
	case SideAI:
		return "ai"
	default:
		return "none"
	}
}

// Axis identifies a wall bounce axis.
type Axis int

const (
	AxisNone Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "none"
	}
}

// Paddle is a vertical bat at one side of the court. Y is the top edge,
// always clamped to [0, Height−PaddleHeight].
type Paddle struct {
	Side Side
	Y    float64
}

// MoveBy shifts the paddle vertically and clamps it to the court.
func (p *Paddle) MoveBy(dy float64, cfg Config) {
	p.Y = clamp(p.Y+dy, 0, cfg.Height-cfg.PaddleHeight)
}

// Center returns the paddle's vertical center.
func (p *Paddle) Center(cfg Config) float64 {
	return p.Y + cfg.PaddleHeight/2
}

// centerOn places the paddle centered on the court.
func (p *Paddle) centerOn(cfg Config) {
	p.Y = cfg.Height/2 - cfg.PaddleHeight/2
}

// Ball is the ball's kinematic state. Only the integration step and the
// collision resolver mutate it, and only while the match is playing.
type Ball struct {
	Pos Vec3
	Vel Vec3
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampMagnitude limits |v| to max, preserving sign.
func clampMagnitude(v, max float64) float64 {
	if v > max {
		return max
	}
	if v < -max {
		return -max
	}
	return v
}
