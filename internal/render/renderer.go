// Package render turns match snapshots into frames. All drawing reads the
// immutable snapshot only; the renderer never touches the engine.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"time"

	"github.com/fogleman/gg"

	"paddle-arena/internal/match"
)

// Court palette.
var (
	bgTop        = color.RGBA{10, 15, 30, 255}
	bgBottom     = color.RGBA{30, 40, 70, 255}
	lineColor    = color.RGBA{255, 255, 255, 60}
	playerColor  = color.RGBA{0, 200, 255, 255}
	aiColor      = color.RGBA{255, 50, 100, 255}
	ballFill     = color.RGBA{255, 255, 255, 255}
	overlayColor = color.RGBA{0, 0, 0, 150}
)

// blinkPeriod drives the welcome prompt blink.
const blinkPeriod = time.Second

// Renderer draws frames from snapshots. Double-buffered: two contexts
// alternate so the previous frame can still be encoded while the next is
// drawn.
type Renderer struct {
	width, height int
	cfg           match.Config
	scaleX        float64
	scaleY        float64

	contexts [2]*gg.Context
	frameIdx int
	fast     *FastRenderer

	fontPath string
}

// NewRenderer creates a renderer mapping the court onto a width×height
// canvas.
func NewRenderer(width, height int, cfg match.Config) *Renderer {
	r := &Renderer{
		width:  width,
		height: height,
		cfg:    cfg,
		scaleX: float64(width) / cfg.Width,
		scaleY: float64(height) / cfg.Height,
		contexts: [2]*gg.Context{
			gg.NewContext(width, height),
			gg.NewContext(width, height),
		},
		fast:     NewFastRenderer(width, height, nil),
		fontPath: findFontPath(),
	}
	return r
}

// Render draws one frame. elapsed is the wall time since engine start and
// only drives cosmetic animation (the prompt blink); simulation state comes
// entirely from the snapshot.
func (r *Renderer) Render(snap *match.Snapshot, elapsed time.Duration) image.Image {
	r.frameIdx = (r.frameIdx + 1) % 2
	dc := r.contexts[r.frameIdx]

	rgba, ok := dc.Image().(*image.RGBA)
	if !ok {
		// gg always backs its context with *image.RGBA; guard anyway.
		rgba = image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	}
	r.fast.SetBuffer(rgba.Pix)

	r.drawBackground()
	r.drawCenterLine()

	switch snap.State {
	case match.StateWelcome:
		r.drawWelcome(dc, snap, elapsed)
	case match.StatePlaying:
		r.drawCourt(dc, snap)
	case match.StateGameOver:
		r.drawCourt(dc, snap)
		r.drawGameOver(dc, snap, elapsed)
	}

	return dc.Image()
}

// RenderPNG renders and encodes one frame; used by the HTTP frame endpoint.
func (r *Renderer) RenderPNG(snap *match.Snapshot, elapsed time.Duration) ([]byte, error) {
	img := r.Render(snap, elapsed)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return buf.Bytes(), nil
}

// drawBackground paints a vertical gradient row by row through the fast
// path; a per-pixel vector fill here would dominate the frame budget.
func (r *Renderer) drawBackground() {
	for y := 0; y < r.height; y++ {
		t := float64(y) / float64(r.height)
		c := color.RGBA{
			R: uint8(float64(bgTop.R) + t*(float64(bgBottom.R)-float64(bgTop.R))),
			G: uint8(float64(bgTop.G) + t*(float64(bgBottom.G)-float64(bgTop.G))),
			B: uint8(float64(bgTop.B) + t*(float64(bgBottom.B)-float64(bgTop.B))),
			A: 255,
		}
		r.fast.FillRect(0, y, r.width, 1, c)
	}
}

func (r *Renderer) drawCenterLine() {
	r.fast.VerticalDashes(r.width/2, 18, 14, 3, lineColor)
}

// perspectiveScale shrinks objects with depth on 2.5D courts; flat courts
// always return 1.
func (r *Renderer) perspectiveScale(z float64) float64 {
	if r.cfg.Depth <= 0 {
		return 1
	}
	s := 1 - z/(r.cfg.Depth*2)
	return math.Max(0.4, math.Min(1.6, s))
}

func (r *Renderer) drawCourt(dc *gg.Context, snap *match.Snapshot) {
	r.drawPaddle(dc, 0, snap.PlayerY, playerColor)
	r.drawPaddle(dc, r.cfg.Width-r.cfg.PaddleWidth, snap.AIY, aiColor)
	r.drawParticles(snap.Particles)
	r.drawBall(dc, snap.Ball)
	r.drawScores(dc, snap)
}

func (r *Renderer) drawPaddle(dc *gg.Context, courtX, courtY float64, c color.RGBA) {
	x := courtX * r.scaleX
	y := courtY * r.scaleY
	w := r.cfg.PaddleWidth * r.scaleX
	h := r.cfg.PaddleHeight * r.scaleY

	// Glow halo behind the paddle body.
	glow := c
	glow.A = 60
	dc.SetColor(glow)
	dc.DrawRoundedRectangle(x-4, y-4, w+8, h+8, 8)
	dc.Fill()

	dc.SetColor(c)
	dc.DrawRoundedRectangle(x, y, w, h, 5)
	dc.Fill()
}

func (r *Renderer) drawBall(dc *gg.Context, pos match.Vec3) {
	scale := r.perspectiveScale(pos.Z)
	x := pos.X * r.scaleX
	y := pos.Y * r.scaleY
	radius := r.cfg.BallRadius * r.scaleX * scale

	glow := ballFill
	glow.A = 50
	dc.SetColor(glow)
	dc.DrawCircle(x, y, radius*1.8)
	dc.Fill()

	dc.SetColor(ballFill)
	dc.DrawCircle(x, y, radius)
	dc.Fill()
}

// drawParticles goes through the fast path: a rally can carry a couple
// hundred discs per frame.
func (r *Renderer) drawParticles(particles []match.ParticleSnapshot) {
	for _, p := range particles {
		c := parseHexColor(p.Color)
		c.A = uint8(math.Max(0, math.Min(255, p.Alpha*255)))
		scale := r.perspectiveScale(p.Z)
		r.fast.FillCircleBlend(
			int(p.X*r.scaleX),
			int(p.Y*r.scaleY),
			p.Size*scale,
			c,
		)
	}
}

func (r *Renderer) drawScores(dc *gg.Context, snap *match.Snapshot) {
	if !r.loadFont(dc, 48) {
		return
	}
	dc.SetColor(color.RGBA{255, 255, 255, 200})
	cx := float64(r.width) / 2
	dc.DrawStringAnchored(fmt.Sprintf("%d", snap.PlayerScore), cx-80, 60, 0.5, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("%d", snap.AIScore), cx+80, 60, 0.5, 0.5)

	if r.loadFont(dc, 18) {
		dc.SetColor(color.RGBA{255, 255, 255, 120})
		name := snap.PlayerName
		if name == "" {
			name = "Player"
		}
		dc.DrawStringAnchored(name, cx-80, 95, 0.5, 0.5)
		dc.DrawStringAnchored(r.cfg.AIName, cx+80, 95, 0.5, 0.5)
	}
}

func (r *Renderer) drawWelcome(dc *gg.Context, snap *match.Snapshot, elapsed time.Duration) {
	cx := float64(r.width) / 2
	cy := float64(r.height) / 2

	if r.loadFont(dc, 64) {
		dc.SetColor(color.RGBA{255, 255, 255, 255})
		dc.DrawStringAnchored("PADDLE ARENA", cx, cy-120, 0.5, 0.5)
	}

	if r.loadFont(dc, 24) {
		dc.SetColor(color.RGBA{200, 200, 220, 255})
		name := snap.PlayerName
		if name == "" {
			name = "enter your name"
		}
		dc.DrawStringAnchored(name, cx, cy-30, 0.5, 0.5)
		dc.DrawStringAnchored(fmt.Sprintf("difficulty: %s", snap.Difficulty), cx, cy+10, 0.5, 0.5)
	}

	// Blink the prompt at a steady cadence from the explicit clock.
	if (elapsed/(blinkPeriod/2))%2 == 0 && r.loadFont(dc, 28) {
		dc.SetColor(playerColor)
		dc.DrawStringAnchored("press start", cx, cy+90, 0.5, 0.5)
	}
}

func (r *Renderer) drawGameOver(dc *gg.Context, snap *match.Snapshot, elapsed time.Duration) {
	dc.SetColor(overlayColor)
	dc.DrawRectangle(0, 0, float64(r.width), float64(r.height))
	dc.Fill()

	cx := float64(r.width) / 2
	cy := float64(r.height) / 2

	if r.loadFont(dc, 56) {
		dc.SetColor(color.RGBA{255, 255, 255, 255})
		dc.DrawStringAnchored(fmt.Sprintf("%s wins!", snap.Winner), cx, cy-40, 0.5, 0.5)
	}
	if r.loadFont(dc, 32) {
		dc.SetColor(color.RGBA{255, 255, 255, 220})
		dc.DrawStringAnchored(fmt.Sprintf("%d - %d", snap.PlayerScore, snap.AIScore), cx, cy+20, 0.5, 0.5)
	}
	if (elapsed/(blinkPeriod/2))%2 == 0 && r.loadFont(dc, 24) {
		dc.SetColor(aiColor)
		dc.DrawStringAnchored("press restart to play again", cx, cy+90, 0.5, 0.5)
	}
}

// loadFont loads the system font at the given size; text is skipped when no
// font is available so headless containers still render geometry.
func (r *Renderer) loadFont(dc *gg.Context, size float64) bool {
	if r.fontPath == "" {
		return false
	}
	return dc.LoadFontFace(r.fontPath, size) == nil
}

func findFontPath() string {
	paths := []string{
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/TTF/DejaVuSans.ttf",
		"/System/Library/Fonts/Helvetica.ttc",
		"C:\\Windows\\Fonts\\arial.ttf",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func parseHexColor(hex string) color.RGBA {
	if len(hex) != 7 || hex[0] != '#' {
		return color.RGBA{255, 255, 255, 255}
	}

	var r, g, b uint8
	fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b)
	return color.RGBA{r, g, b, 255}
}
