package render

import (
	"bytes"
	"image"
	"image/png"
	"testing"
	"time"

	"paddle-arena/internal/match"
)

func testSnapshot(state match.State) *match.Snapshot {
	cfg := match.DefaultConfig()
	return &match.Snapshot{
		State:       state,
		PlayerY:     375,
		AIY:         375,
		Ball:        match.Vec3{X: cfg.Width / 2, Y: cfg.Height / 2},
		PlayerScore: 2,
		AIScore:     1,
		PlayerName:  "Alice",
		Difficulty:  match.DifficultyMedium,
		Winner:      "Alice",
	}
}

// TestRenderAllStates: every lifecycle phase produces a full-size frame
// without panicking, with or without a system font.
func TestRenderAllStates(t *testing.T) {
	r := NewRenderer(400, 300, match.DefaultConfig())

	for _, state := range []match.State{match.StateWelcome, match.StatePlaying, match.StateGameOver} {
		t.Run(state.String(), func(t *testing.T) {
			img := r.Render(testSnapshot(state), 700*time.Millisecond)
			bounds := img.Bounds()
			if bounds.Dx() != 400 || bounds.Dy() != 300 {
				t.Errorf("expected 400x300 frame, got %dx%d", bounds.Dx(), bounds.Dy())
			}
		})
	}
}

// TestRenderBackgroundGradient: the court backdrop darkens toward the top.
func TestRenderBackgroundGradient(t *testing.T) {
	r := NewRenderer(100, 100, match.DefaultConfig())
	img := r.Render(testSnapshot(match.StatePlaying), 0)

	rgba, ok := img.(*image.RGBA)
	if !ok {
		t.Fatal("expected RGBA frame")
	}
	topR, _, topB, _ := rgba.At(2, 2).RGBA()
	botR, _, botB, _ := rgba.At(2, 97).RGBA()
	if botR <= topR || botB <= topB {
		t.Errorf("expected bottom brighter than top: top (%d,%d) bottom (%d,%d)",
			topR, topB, botR, botB)
	}
}

// TestRenderParticles: snapshot particles end up on the canvas.
func TestRenderParticles(t *testing.T) {
	cfg := match.DefaultConfig()
	r := NewRenderer(120, 90, cfg)

	snap := testSnapshot(match.StatePlaying)
	// Park ball and paddles away from the probe point.
	snap.Ball = match.Vec3{X: 100, Y: 100}
	snap.Particles = []match.ParticleSnapshot{
		{X: cfg.Width / 2, Y: cfg.Height * 0.75, Size: 40, Color: "#00c8ff", Alpha: 1},
	}

	img := r.Render(snap, 0)
	rgba := img.(*image.RGBA)

	px := rgba.RGBAAt(60, 67)
	if px.B < 200 || px.G < 100 {
		t.Errorf("expected a cyan particle at the probe point, got %v", px)
	}
}

// TestPerspectiveScale: flat courts ignore depth, 2.5D courts shrink with
// it, and the scale stays within the clamp band.
func TestPerspectiveScale(t *testing.T) {
	flat := NewRenderer(100, 100, match.DefaultConfig())
	if s := flat.perspectiveScale(300); s != 1 {
		t.Errorf("flat court should ignore z, got %g", s)
	}

	cfg := match.DefaultConfig()
	cfg.Depth = 400
	deep := NewRenderer(100, 100, cfg)
	near := deep.perspectiveScale(-150)
	far := deep.perspectiveScale(150)
	if far >= near {
		t.Errorf("deeper objects should be smaller: near %g far %g", near, far)
	}
	if s := deep.perspectiveScale(10_000); s < 0.4 {
		t.Errorf("scale fell below the clamp: %g", s)
	}
}

// TestRenderPNG: the frame endpoint payload decodes back to the canvas
// size.
func TestRenderPNG(t *testing.T) {
	r := NewRenderer(160, 120, match.DefaultConfig())

	data, err := r.RenderPNG(testSnapshot(match.StatePlaying), 0)
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 160 || img.Bounds().Dy() != 120 {
		t.Errorf("expected 160x120, got %v", img.Bounds())
	}
}

// TestParseHexColor covers the fallback on malformed input.
func TestParseHexColor(t *testing.T) {
	if c := parseHexColor("#00c8ff"); c.R != 0 || c.G != 0xc8 || c.B != 0xff {
		t.Errorf("bad parse: %v", c)
	}
	white := parseHexColor("not-a-color")
	if white.R != 255 || white.G != 255 || white.B != 255 {
		t.Errorf("malformed input should fall back to white, got %v", white)
	}
}
