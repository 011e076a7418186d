package match

import (
	"sync/atomic"
	"time"
)

// ResourceLimits defines hard caps on per-tick decorative state so a stalled
// or hostile host can never balloon memory.
type ResourceLimits struct {
	MaxParticles int // Per frame particle limit
	MaxEvents    int // Per tick event limit copied into snapshots
}

// DefaultLimits provides production-safe default limits
var DefaultLimits = ResourceLimits{
	MaxParticles: 200,
	MaxEvents:    16,
}

// ParticleSnapshot is an immutable particle for rendering
type ParticleSnapshot struct {
	X, Y, Z float64
	Size    float64
	Color   string
	Alpha   float64
}

// Snapshot is a complete immutable view of the match for host consumption:
// rendering, audio triggering, and API responses. Produced once per tick;
// hosts must never write through it back into the match.
type Snapshot struct {
	Sequence   uint64    // Monotonic sequence for ordering
	Timestamp  time.Time // When snapshot was created
	TickNumber uint64    // Game tick this represents

	State       State
	PlayerY     float64
	AIY         float64
	Ball        Vec3
	BallVel     Vec3
	PlayerScore int
	AIScore     int
	PlayerName  string
	Difficulty  Difficulty

	// Winner is valid only while State == StateGameOver.
	Winner string

	// Events of the tick this snapshot closed, for audio cues and host
	// effects. Capped at MaxEvents.
	Events []TickEvent

	// Decorative particles (ball trail, collision bursts). Pure output:
	// hosts may render or ignore them.
	Particles []ParticleSnapshot
}

// SnapshotPool pre-allocates snapshots to avoid GC pressure.
// Uses triple buffering for lock-free producer/consumer: the tick goroutine
// writes, any number of host goroutines read the latest published slot.
type SnapshotPool struct {
	snapshots [3]Snapshot
	limits    ResourceLimits
	writeIdx  uint32 // atomic - producer index
	readIdx   uint32 // atomic - consumer index
	sequence  uint64 // atomic - monotonic sequence
}

// NewSnapshotPool creates a pool with pre-allocated slices
func NewSnapshotPool(limits ResourceLimits) *SnapshotPool {
	pool := &SnapshotPool{limits: limits}

	for i := 0; i < 3; i++ {
		pool.snapshots[i] = Snapshot{
			Events:    make([]TickEvent, 0, limits.MaxEvents),
			Particles: make([]ParticleSnapshot, 0, limits.MaxParticles),
		}
	}

	return pool
}

// AcquireWrite gets the next write slot (producer only, called from the
// tick). Slices are reset but keep their capacity.
func (p *SnapshotPool) AcquireWrite() *Snapshot {
	idx := atomic.AddUint32(&p.writeIdx, 1) % 3
	snap := &p.snapshots[idx]

	snap.Events = snap.Events[:0]
	snap.Particles = snap.Particles[:0]
	snap.Winner = ""

	snap.Sequence = atomic.AddUint64(&p.sequence, 1)
	snap.Timestamp = time.Now()

	return snap
}

// PublishWrite marks the write complete and advances the read pointer.
func (p *SnapshotPool) PublishWrite() {
	atomic.StoreUint32(&p.readIdx, atomic.LoadUint32(&p.writeIdx))
}

// AcquireRead gets the latest complete snapshot (consumers, lock-free).
func (p *SnapshotPool) AcquireRead() *Snapshot {
	idx := atomic.LoadUint32(&p.readIdx) % 3
	return &p.snapshots[idx]
}

// GetLimits returns the resource limits
func (p *SnapshotPool) GetLimits() ResourceLimits {
	return p.limits
}
