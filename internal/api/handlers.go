package api

import (
	"encoding/binary"
	"encoding/json"
	"net/http"
	"time"

	"paddle-arena/internal/match"
)

// Handler methods for routerHandlers, shared by the standalone router
// (tests) and the full Server.

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, snapshotJSON(h.engine.Snapshot()))
}

func (h *routerHandlers) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg := h.engine.Config()
	writeJSON(w, map[string]interface{}{
		"width":        cfg.Width,
		"height":       cfg.Height,
		"depth":        cfg.Depth,
		"paddleWidth":  cfg.PaddleWidth,
		"paddleHeight": cfg.PaddleHeight,
		"ballRadius":   cfg.BallRadius,
		"winningScore": cfg.WinningScore,
		"aiName":       cfg.AIName,
	})
}

func (h *routerHandlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	snap := h.engine.Snapshot()
	writeJSON(w, map[string]interface{}{
		"tick":      snap.TickNumber,
		"sequence":  snap.Sequence,
		"state":     snap.State.String(),
		"particles": len(snap.Particles),
		"eventLog":  h.engine.EventLogStats(),
	})
}

// handleInput accepts one input snapshot and hands it to the engine
// mailbox. The body is the wire form of match.Input; unknown fields are
// rejected so client typos surface instead of silently dropping keys.
func (h *routerHandlers) handleInput(w http.ResponseWriter, r *http.Request) {
	var in match.Input

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		writeError(w, "invalid input payload", http.StatusBadRequest)
		return
	}

	h.engine.SetInput(in)
	writeJSON(w, map[string]bool{"accepted": true})
}

func (h *routerHandlers) handleGetFrame(w http.ResponseWriter, r *http.Request) {
	data, err := h.frames.FramePNG(h.engine.Snapshot())
	if err != nil {
		writeError(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(data)
}

// handleAudioStream pulls mixed PCM from the audio source at its frame
// rate and streams it as an endless WAV. One GET per listener; the loop
// runs until the client disconnects.
func (h *routerHandlers) handleAudioStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(wavStreamHeader(h.audio.SampleRate(), h.audio.Channels()))
	flusher.Flush()

	ticker := time.NewTicker(time.Second / time.Duration(h.audio.FrameRate()))
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := w.Write(h.audio.GenerateFrame()); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// wavStreamHeader builds a 44-byte PCM WAV header with unknown data
// length, which players treat as a live stream.
func wavStreamHeader(sampleRate, channels int) []byte {
	const bitsPerSample = 16
	blockAlign := channels * bitsPerSample / 8
	byteRate := sampleRate * blockAlign

	header := make([]byte, 44)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], 0xFFFFFFFF)
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(header[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], bitsPerSample)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], 0xFFFFFFFF)
	return header
}

// snapshotJSON flattens a snapshot into the wire shape clients consume.
func snapshotJSON(snap *match.Snapshot) map[string]interface{} {
	events := make([]map[string]interface{}, 0, len(snap.Events))
	for _, ev := range snap.Events {
		events = append(events, map[string]interface{}{
			"type": ev.Type.String(),
			"side": ev.Side.String(),
			"axis": ev.Axis.String(),
			"x":    ev.X,
			"y":    ev.Y,
		})
	}

	out := map[string]interface{}{
		"tick":        snap.TickNumber,
		"state":       snap.State.String(),
		"playerY":     snap.PlayerY,
		"aiY":         snap.AIY,
		"ball":        map[string]float64{"x": snap.Ball.X, "y": snap.Ball.Y, "z": snap.Ball.Z},
		"ballVel":     map[string]float64{"x": snap.BallVel.X, "y": snap.BallVel.Y, "z": snap.BallVel.Z},
		"playerScore": snap.PlayerScore,
		"aiScore":     snap.AIScore,
		"playerName":  snap.PlayerName,
		"difficulty":  string(snap.Difficulty),
		"events":      events,
	}
	if snap.State == match.StateGameOver {
		out["winner"] = snap.Winner
	}
	return out
}

// Helper functions (package-level for reuse)

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
