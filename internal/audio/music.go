package audio

import (
	"log"
	"os"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/vorbis"
)

// MusicPlayer streams OGG Vorbis with on-demand decoding: a ~64KB decode
// buffer instead of the full decoded PCM of the track in memory. Loops
// seamlessly by seeking back to the start when the stream drains.
type MusicPlayer struct {
	mu sync.Mutex

	streamer  beep.StreamSeekCloser
	format    beep.Format
	resampled beep.Streamer

	volume  float64
	enabled bool
	loaded  bool

	filePath         string
	targetSampleRate int

	// Pre-allocated beep sample buffer, sized for one frame.
	beepBuffer [][2]float64
}

// NewMusicPlayer opens the track for streaming. Load failures degrade to
// silence rather than killing the host: the match plays on without music.
func NewMusicPlayer(filePath string, volume float64, sampleRate int) *MusicPlayer {
	mp := &MusicPlayer{
		filePath:         filePath,
		volume:           volume,
		enabled:          true,
		targetSampleRate: sampleRate,
		beepBuffer:       make([][2]float64, sampleRate/30),
	}

	if err := mp.load(); err != nil {
		log.Printf("background music disabled: %v", err)
		mp.loaded = false
	}

	return mp
}

func (mp *MusicPlayer) load() error {
	file, err := os.Open(mp.filePath)
	if err != nil {
		return err
	}

	streamer, format, err := vorbis.Decode(file)
	if err != nil {
		file.Close()
		return err
	}

	mp.streamer = streamer
	mp.format = format
	mp.loaded = true

	log.Printf("background music loaded: %s (%d Hz, %d ch)",
		mp.filePath, format.SampleRate, format.NumChannels)

	if int(format.SampleRate) != mp.targetSampleRate {
		log.Printf("resampling music from %d Hz to %d Hz", format.SampleRate, mp.targetSampleRate)
		mp.resampled = beep.Resample(4, format.SampleRate, beep.SampleRate(mp.targetSampleRate), mp.streamer)
	} else {
		mp.resampled = mp.streamer
	}

	return nil
}

// ReadSamples fills the buffer with interleaved stereo int16 PCM. Always
// fills the whole buffer; silence when no track is loaded.
func (mp *MusicPlayer) ReadSamples(buffer []int16) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if !mp.loaded || !mp.enabled || mp.resampled == nil {
		for i := range buffer {
			buffer[i] = 0
		}
		return len(buffer)
	}

	numStereoSamples := len(buffer) / 2
	if numStereoSamples > len(mp.beepBuffer) {
		numStereoSamples = len(mp.beepBuffer)
	}

	workBuffer := mp.beepBuffer[:numStereoSamples]
	n, ok := mp.resampled.Stream(workBuffer)

	if !ok || n < numStereoSamples {
		// Track drained: seek back and keep filling from the top.
		if err := mp.streamer.Seek(0); err != nil {
			log.Printf("music loop seek failed: %v", err)
		}
		if n < numStereoSamples {
			mp.resampled.Stream(workBuffer[n:numStereoSamples])
		}
	}

	vol := mp.volume
	for i := 0; i < numStereoSamples; i++ {
		buffer[i*2] = floatToInt16(workBuffer[i][0] * vol)
		buffer[i*2+1] = floatToInt16(workBuffer[i][1] * vol)
	}

	return len(buffer)
}

// floatToInt16 converts a [-1, 1] sample to int16 with soft clipping at
// ±30000 to keep headroom for the cue mix.
func floatToInt16(sample float64) int16 {
	scaled := sample * 32767.0
	if scaled > 30000 {
		scaled = 30000 + (scaled-30000)/4
	} else if scaled < -30000 {
		scaled = -30000 + (scaled+30000)/4
	}
	if scaled > 32767 {
		scaled = 32767
	} else if scaled < -32768 {
		scaled = -32768
	}
	return int16(scaled)
}

// SetVolume adjusts playback volume, clamped to [0, 1].
func (mp *MusicPlayer) SetVolume(v float64) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	mp.volume = v
}

// SetEnabled toggles playback without tearing down the decoder.
func (mp *MusicPlayer) SetEnabled(e bool) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.enabled = e
}

// IsLoaded reports whether a track is ready to stream.
func (mp *MusicPlayer) IsLoaded() bool {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.loaded
}

// Close releases the decoder.
func (mp *MusicPlayer) Close() error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.loaded = false
	if mp.streamer != nil {
		return mp.streamer.Close()
	}
	return nil
}
