// Package audio mixes event-driven sound cues with streamed background
// music into interleaved 16-bit PCM frames.
package audio

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"sync"

	"paddle-arena/internal/match"
)

// maxConcurrentCues bounds simultaneous effects; the oldest is dropped
// when a new cue arrives at the cap.
const maxConcurrentCues = 8

// cueFiles maps match events to sample files under the sound directory.
var cueFiles = map[match.EventType]string{
	match.EventTypePaddleHit: "paddle_hit.wav",
	match.EventTypeWallHit:   "wall_hit.wav",
	match.EventTypeScore:     "score.wav",
	match.EventTypeGameStart: "game_start.wav",
	match.EventTypeGameEnd:   "game_end.wav",
}

// Mixer turns match events into audio. Cue samples are loaded once at
// startup; missing files simply mute that cue so a bare container still
// runs.
type Mixer struct {
	mu            sync.Mutex
	sampleRate    int
	channels      int
	frameRate     int // audio frames generated per second, matches the tick rate
	bytesPerFrame int
	volume        float64

	cues   map[match.EventType][]int16
	active []*activeCue

	music *MusicPlayer
}

type activeCue struct {
	data     []int16
	position int
	volume   float64
}

// MixerConfig configures the mixer.
type MixerConfig struct {
	SampleRate int
	Channels   int
	FrameRate  int // frames per second the host pulls; must match the tick rate
	Volume     float64
	SoundDir   string
	MusicPath  string // empty disables music
}

// NewMixer loads cue samples and optionally the background music stream.
func NewMixer(cfg MixerConfig) *Mixer {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 44100
	}
	if cfg.Channels <= 0 {
		cfg.Channels = 2
	}
	if cfg.FrameRate <= 0 {
		cfg.FrameRate = 60
	}

	m := &Mixer{
		sampleRate: cfg.SampleRate,
		channels:   cfg.Channels,
		frameRate:  cfg.FrameRate,
		volume:     cfg.Volume,
		cues:       make(map[match.EventType][]int16),
	}
	m.bytesPerFrame = (m.sampleRate / m.frameRate) * m.channels * 2

	m.loadCues(cfg.SoundDir)

	if cfg.MusicPath != "" {
		m.music = NewMusicPlayer(cfg.MusicPath, cfg.Volume, cfg.SampleRate)
	}

	return m
}

func (m *Mixer) loadCues(dir string) {
	for eventType, file := range cueFiles {
		data, err := loadWAV(filepath.Join(dir, file))
		if err != nil {
			continue
		}
		m.cues[eventType] = data
	}
}

// HandleEvent queues the cue mapped to the event, if any. Safe to call
// from the engine's event callback.
func (m *Mixer) HandleEvent(ev match.TickEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.cues[ev.Type]
	if !ok {
		return
	}

	m.active = append(m.active, &activeCue{data: data, volume: 1.0})
	if len(m.active) > maxConcurrentCues {
		m.active = m.active[1:]
	}
}

// GenerateFrame mixes one frame of audio: music first, then the active
// cues, soft-limited at ±30000 so stacked cues compress instead of
// clipping.
func (m *Mixer) GenerateFrame() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	samplesPerFrame := m.sampleRate / m.frameRate
	mixBuffer := make([]int32, samplesPerFrame*m.channels)

	if m.music != nil && m.music.IsLoaded() {
		musicSamples := make([]int16, len(mixBuffer))
		m.music.ReadSamples(musicSamples)
		for i := range mixBuffer {
			mixBuffer[i] += int32(musicSamples[i])
		}
	}

	alive := m.active[:0]
	for _, cue := range m.active {
		remaining := len(cue.data) - cue.position
		if remaining <= 0 {
			continue
		}

		toRead := min(len(mixBuffer), remaining)
		for i := 0; i < toRead; i++ {
			mixBuffer[i] += int32(float64(cue.data[cue.position+i]) * cue.volume)
		}

		cue.position += toRead
		if cue.position < len(cue.data) {
			alive = append(alive, cue)
		}
	}
	m.active = alive

	output := make([]byte, m.bytesPerFrame)
	for i := 0; i < len(mixBuffer) && i*2+1 < len(output); i++ {
		binary.LittleEndian.PutUint16(output[i*2:], uint16(softLimit(mixBuffer[i])))
	}

	return output
}

// SampleRate returns the output sample rate in Hz.
func (m *Mixer) SampleRate() int { return m.sampleRate }

// Channels returns the number of interleaved output channels.
func (m *Mixer) Channels() int { return m.channels }

// FrameRate returns the number of frames generated per second.
func (m *Mixer) FrameRate() int { return m.frameRate }

// HasCue reports whether a sample is loaded for the event type.
func (m *Mixer) HasCue(t match.EventType) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.cues[t]
	return ok
}

// ActiveCues returns the number of cues currently playing.
func (m *Mixer) ActiveCues() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active)
}

// Close releases the music decoder.
func (m *Mixer) Close() error {
	if m.music != nil {
		return m.music.Close()
	}
	return nil
}

// softLimit compresses above ±30000, hard clamps at int16 range.
func softLimit(sample int32) int16 {
	if sample > 30000 {
		sample = 30000 + (sample-30000)/4
	} else if sample < -30000 {
		sample = -30000 + (sample+30000)/4
	}

	if sample > 32767 {
		sample = 32767
	} else if sample < -32768 {
		sample = -32768
	}
	return int16(sample)
}

// loadWAV reads raw PCM from a 44-byte-header WAV file.
func loadWAV(path string) ([]int16, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) < 44 {
		return nil, os.ErrInvalid
	}

	pcmData := data[44:]
	samples := make([]int16, len(pcmData)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(pcmData[i*2:]))
	}
	return samples, nil
}

// GenerateTone synthesizes a stereo sine burst; used by tests and as a
// stand-in cue when assets are absent.
func GenerateTone(frequency, duration float64, sampleRate int) []int16 {
	numSamples := int(duration * float64(sampleRate))
	samples := make([]int16, numSamples*2)

	for i := 0; i < numSamples; i++ {
		t := float64(i) / float64(sampleRate)
		sample := int16(math.Sin(2*math.Pi*frequency*t) * 16000)
		samples[i*2] = sample
		samples[i*2+1] = sample
	}

	return samples
}
