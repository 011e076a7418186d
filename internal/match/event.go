package match

import (
	"encoding/json"
	"time"
)

// EventType enum for event classification
type EventType uint8

const (
	EventTypeUnknown EventType = iota
	EventTypeTick              // Tick boundary with RNG seed
	EventTypeGameStart
	EventTypePaddleHit
	EventTypeWallHit
	EventTypeServe
	EventTypeScore
	EventTypeGameEnd
	EventTypeRestart
)

// EventVersion for backwards compatibility in replay
const EventVersion uint8 = 1

// Event is the durable event record written to the event log.
type Event struct {
	Version   uint8     `json:"version"`   // Schema version
	Type      EventType `json:"type"`      // Event type
	Timestamp int64     `json:"timestamp"` // Unix nano
	Sequence  uint64    `json:"sequence"`  // Monotonic sequence
	TickNum   uint64    `json:"tickNum"`   // Game tick this occurred in
	Payload   []byte    `json:"payload"`   // JSON-encoded payload
}

// String returns human-readable event type
func (t EventType) String() string {
	switch t {
	case EventTypeTick:
		return "tick"
	case EventTypeGameStart:
		return "game_start"
	case EventTypePaddleHit:
		return "paddle_hit"
	case EventTypeWallHit:
		return "wall_hit"
	case EventTypeServe:
		return "serve"
	case EventTypeScore:
		return "score"
	case EventTypeGameEnd:
		return "game_end"
	case EventTypeRestart:
		return "restart"
	default:
		return "unknown"
	}
}

// TickEvent is the in-memory event a single Step produces. The engine fans
// these out to the event log, the particle system and the snapshot; hosts
// key audio cues off the Type.
type TickEvent struct {
	Type EventType
	Side Side // PaddleHit, Score: which side hit / conceded
	Axis Axis // WallHit: bounce axis
	X    float64
	Y    float64
}

// Typed payloads for the event log

// TickPayload contains tick boundary information for replay
type TickPayload struct {
	RNGSeed     int64 `json:"rngSeed"`
	State       State `json:"state"`
	DeltaTimeNs int64 `json:"deltaTimeNs"`
}

// GameStartPayload records who is playing and against what difficulty.
type GameStartPayload struct {
	PlayerName string     `json:"playerName"`
	Difficulty Difficulty `json:"difficulty"`
}

// PaddleHitPayload contains paddle collision details
type PaddleHitPayload struct {
	Side   string  `json:"side"`
	HitY   float64 `json:"hitY"`
	SpeedX float64 `json:"speedX"`
	SpeedY float64 `json:"speedY"`
}

// WallHitPayload contains wall bounce details
type WallHitPayload struct {
	Axis string  `json:"axis"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// ServePayload records the randomized serve after a point.
type ServePayload struct {
	TowardPlayer bool    `json:"towardPlayer"`
	SpeedX       float64 `json:"speedX"`
}

// ScorePayload contains scoring details
type ScorePayload struct {
	Side        string `json:"side"`
	PlayerScore int    `json:"playerScore"`
	AIScore     int    `json:"aiScore"`
}

// GameEndPayload contains final match results
type GameEndPayload struct {
	Winner      string `json:"winner"`
	PlayerScore int    `json:"playerScore"`
	AIScore     int    `json:"aiScore"`
}

// EncodePayload marshals a payload to JSON bytes
func EncodePayload(payload interface{}) []byte {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}

// NewEvent creates a new event with the current timestamp
func NewEvent(eventType EventType, tickNum uint64, payload interface{}) Event {
	return Event{
		Version:   EventVersion,
		Type:      eventType,
		Timestamp: time.Now().UnixNano(),
		TickNum:   tickNum,
		Payload:   EncodePayload(payload),
	}
}
