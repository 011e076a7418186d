package match

// Decorative particle system: ball trail plus collision bursts. Particles
// consume the tick's events and the published snapshot only; they can never
// mutate match state.

const (
	trailInterval      = 0.05 // seconds between trail spawns
	trailCount         = 2
	wallBurstCount     = 10
	paddleBurstCount   = 15
	particleFadePerMin = 0.02 // alpha lost per nominal tick
)

// Particle is a short-lived visual spark.
type Particle struct {
	X, Y, Z    float64
	VX, VY, VZ float64
	Size       float64
	Color      string
	Alpha      float64
	Life       float64
}

// particleSystem owns the live particle set. Single goroutine use only
// (the engine tick); capped at limits.MaxParticles.
type particleSystem struct {
	particles []*Particle
	limit     int

	// Accumulated time since the last trail spawn. Explicit elapsed-time
	// bookkeeping keeps the cadence testable without a real clock.
	trailClock float64
}

func newParticleSystem(limit int) *particleSystem {
	return &particleSystem{
		particles: make([]*Particle, 0, limit),
		limit:     limit,
	}
}

// update advances and filters particles in place (zero-allocation), then
// spawns the ball trail while the match is playing.
func (ps *particleSystem) update(e *Engine, dt float64, frameScale float64) {
	n := 0
	for _, p := range ps.particles {
		p.X += p.VX * frameScale
		p.Y += p.VY * frameScale
		p.Z += p.VZ * frameScale
		p.Life -= particleFadePerMin * frameScale
		p.Size -= 0.1 * frameScale
		p.Alpha = p.Life

		if p.Life > 0 && p.Size > 0 {
			ps.particles[n] = p
			n++
		}
	}
	ps.particles = ps.particles[:n]

	if e.match.State() == StatePlaying {
		ps.trailClock += dt
		for ps.trailClock >= trailInterval {
			ps.trailClock -= trailInterval
			ball := e.match.Ball()
			ps.spawn(e, ball.Pos, trailCount, ballColor, 1.0)
		}
	}
}

// handleEvent spawns collision bursts for the tick's events.
func (ps *particleSystem) handleEvent(e *Engine, ev TickEvent) {
	switch ev.Type {
	case EventTypeWallHit:
		color := accentColor
		if ev.Axis == AxisZ {
			color = accentColorAlt
		}
		ps.spawn(e, Vec3{X: ev.X, Y: ev.Y}, wallBurstCount, color, 2.0)
	case EventTypePaddleHit:
		color := playerPaddleColor
		if ev.Side == SideAI {
			color = aiPaddleColor
		}
		ps.spawn(e, Vec3{X: ev.X, Y: ev.Y}, paddleBurstCount, color, 2.0)
	}
}

// spawn creates count particles around pos. speedScale > 1 marks collision
// bursts, which fly faster than trail sparks.
func (ps *particleSystem) spawn(e *Engine, pos Vec3, count int, color string, speedScale float64) {
	for i := 0; i < count; i++ {
		// Hard cap: silently drop when full.
		if len(ps.particles) >= ps.limit {
			return
		}
		ps.particles = append(ps.particles, &Particle{
			X:     pos.X,
			Y:     pos.Y,
			Z:     pos.Z,
			VX:    (e.rng.Float64() - 0.5) * 3 * speedScale,
			VY:    (e.rng.Float64() - 0.5) * 3 * speedScale,
			VZ:    (e.rng.Float64() - 0.5) * 3 * speedScale,
			Size:  e.rng.Float64()*5 + 2,
			Color: color,
			Alpha: 1.0,
			Life:  1.0,
		})
	}
}

// clear drops all live particles (match restart).
func (ps *particleSystem) clear() {
	ps.particles = ps.particles[:0]
	ps.trailClock = 0
}

// Palette shared with the renderer.
const (
	ballColor         = "#ffffff"
	accentColor       = "#00c8ff"
	accentColorAlt    = "#ff3264"
	playerPaddleColor = "#00c8ff"
	aiPaddleColor     = "#ff3264"
)
