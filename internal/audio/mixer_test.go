package audio

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"paddle-arena/internal/match"
)

// writeWAV writes a minimal WAV (44-byte header + PCM) for cue loading.
func writeWAV(t *testing.T, path string, samples []int16) {
	t.Helper()
	data := make([]byte, 44+len(samples)*2)
	copy(data, "RIFF")
	copy(data[8:], "WAVEfmt ")
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[44+i*2:], uint16(s))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write wav: %v", err)
	}
}

func newTestMixer(t *testing.T) *Mixer {
	t.Helper()
	dir := t.TempDir()
	tone := GenerateTone(440, 0.1, 44100)
	writeWAV(t, filepath.Join(dir, "paddle_hit.wav"), tone)
	writeWAV(t, filepath.Join(dir, "score.wav"), tone)

	return NewMixer(MixerConfig{
		SampleRate: 44100,
		Channels:   2,
		FrameRate:  60,
		Volume:     0.15,
		SoundDir:   dir,
	})
}

// TestMixerLoadsCues: present files load, absent ones mute.
func TestMixerLoadsCues(t *testing.T) {
	m := newTestMixer(t)

	if !m.HasCue(match.EventTypePaddleHit) {
		t.Error("paddle_hit cue should be loaded")
	}
	if !m.HasCue(match.EventTypeScore) {
		t.Error("score cue should be loaded")
	}
	if m.HasCue(match.EventTypeWallHit) {
		t.Error("missing wall_hit.wav should leave the cue muted")
	}
}

// TestFrameSizeAndSilence: frames are always full-size; no cues means
// silence.
func TestFrameSizeAndSilence(t *testing.T) {
	m := newTestMixer(t)

	frame := m.GenerateFrame()
	wantBytes := (44100 / 60) * 2 * 2
	if len(frame) != wantBytes {
		t.Fatalf("expected %d byte frame, got %d", wantBytes, len(frame))
	}
	for i, b := range frame {
		if b != 0 {
			t.Fatalf("expected silence with no active cues, byte %d = %d", i, b)
		}
	}
}

// TestCuePlaybackAndDrain: a queued cue produces signal, then finishes.
func TestCuePlaybackAndDrain(t *testing.T) {
	m := newTestMixer(t)

	m.HandleEvent(match.TickEvent{Type: match.EventTypePaddleHit})
	if m.ActiveCues() != 1 {
		t.Fatalf("expected one active cue, got %d", m.ActiveCues())
	}

	frame := m.GenerateFrame()
	nonZero := false
	for _, b := range frame {
		if b != 0 {
			nonZero = true
			break
		}
	}
	if !nonZero {
		t.Fatal("expected signal while a cue plays")
	}

	// The 0.1s tone spans 0.1 * 60 = 6 frames; drain generously.
	for i := 0; i < 20; i++ {
		m.GenerateFrame()
	}
	if m.ActiveCues() != 0 {
		t.Errorf("expected cues drained, %d still active", m.ActiveCues())
	}
}

// TestUnmappedEventIgnored: serve and restart carry no cue.
func TestUnmappedEventIgnored(t *testing.T) {
	m := newTestMixer(t)

	m.HandleEvent(match.TickEvent{Type: match.EventTypeServe})
	m.HandleEvent(match.TickEvent{Type: match.EventTypeRestart})
	if m.ActiveCues() != 0 {
		t.Errorf("unmapped events queued %d cues", m.ActiveCues())
	}
}

// TestConcurrentCueCap: the oldest cue is dropped past the cap.
func TestConcurrentCueCap(t *testing.T) {
	m := newTestMixer(t)

	for i := 0; i < maxConcurrentCues+5; i++ {
		m.HandleEvent(match.TickEvent{Type: match.EventTypePaddleHit})
	}
	if m.ActiveCues() != maxConcurrentCues {
		t.Errorf("expected %d active cues at the cap, got %d", maxConcurrentCues, m.ActiveCues())
	}
}

// TestSoftLimit: the limiter compresses above ±30000 and never exceeds
// int16 range.
func TestSoftLimit(t *testing.T) {
	tests := []struct {
		in   int32
		want int16
	}{
		{0, 0},
		{1000, 1000},
		{-29999, -29999},
		{30000, 30000},
		{34000, 31000},
		{-34000, -31000},
		{1 << 20, 32767},
		{-(1 << 20), -32768},
	}
	for _, tt := range tests {
		if got := softLimit(tt.in); got != tt.want {
			t.Errorf("softLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

// TestLoadWAVRejectsShortFiles: anything under the header size errors.
func TestLoadWAVRejectsShortFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stub.wav")
	if err := os.WriteFile(path, []byte("RIFF"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadWAV(path); err == nil {
		t.Error("expected error for truncated wav")
	}
}

// TestMusicFallback: a bad path degrades to a silent, unloaded player.
func TestMusicFallback(t *testing.T) {
	mp := NewMusicPlayer("/nonexistent/track.ogg", 0.2, 44100)
	if mp.IsLoaded() {
		t.Fatal("missing file should leave the player unloaded")
	}

	buf := make([]int16, 128)
	buf[0] = 1234
	n := mp.ReadSamples(buf)
	if n != len(buf) {
		t.Errorf("expected full buffer, got %d", n)
	}
	for i, s := range buf {
		if s != 0 {
			t.Fatalf("expected silence, sample %d = %d", i, s)
		}
	}
	if err := mp.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
}
