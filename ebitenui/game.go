// Package ebitenui runs a canopy Scene in an Ebitengine window: it paints
// the tree into the screen image and feeds mouse input to the scene.
package ebitenui

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"go.uber.org/zap"

	"github.com/phanxgames/canopy"
)

// RunConfig configures Run.
type RunConfig struct {
	Title      string
	Width      int
	Height     int
	Background canopy.Color
	ShowFPS    bool
}

// Game adapts a Scene to ebiten.Game.
type Game struct {
	Scene      *canopy.Scene
	Width      int
	Height     int
	Background canopy.Color
	ShowFPS    bool

	canvas *Canvas
}

// NewGame wraps scene. Width and Height fix the logical screen size; zero
// uses the window size.
func NewGame(scene *canopy.Scene, cfg RunConfig) *Game {
	return &Game{
		Scene:      scene,
		Width:      cfg.Width,
		Height:     cfg.Height,
		Background: cfg.Background,
		ShowFPS:    cfg.ShowFPS,
	}
}

// Update reads the mouse unless injected input is pending, then runs one
// scene frame. Layout failures are logged, not returned, so one broken
// subtree does not close the window.
func (g *Game) Update() error {
	if g.Scene.PendingInput() == 0 {
		if err := g.Scene.HandlePointer(readPointer()); err != nil {
			g.Scene.Logger().Warn("pointer dispatch", zap.Error(err))
		}
	}
	if err := g.Scene.Update(); err != nil {
		g.Scene.Logger().Warn("frame", zap.Uint64("frame", g.Scene.Frame()), zap.Error(err))
	}
	return nil
}

// Draw clears the screen to the background color and paints the scene.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.Background.RGBA())
	if g.canvas == nil {
		g.canvas = NewCanvas(screen)
	}
	g.canvas.Target = screen
	if err := g.Scene.Paint(g.canvas); err != nil {
		g.Scene.Logger().Error("paint", zap.Error(err))
	}
	if g.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
}

// Layout returns the fixed logical size, or the outside size when unset.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.Width > 0 && g.Height > 0 {
		return g.Width, g.Height
	}
	return outsideWidth, outsideHeight
}

// Run opens a window and runs scene until the window is closed. The scene is
// closed for posting afterwards.
func Run(scene *canopy.Scene, cfg RunConfig) error {
	defer scene.Close()
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	if cfg.Width > 0 && cfg.Height > 0 {
		ebiten.SetWindowSize(cfg.Width, cfg.Height)
	}
	ebiten.SetTPS(scene.Config().TPS)
	return ebiten.RunGame(NewGame(scene, cfg))
}

// --- Input ---

// readPointer samples the mouse. While no button is held the left button is
// reported.
func readPointer() canopy.PointerEvent {
	mx, my := ebiten.CursorPosition()
	pe := canopy.PointerEvent{X: float64(mx), Y: float64(my), Modifiers: readModifiers()}

	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	middle := ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)
	switch {
	case left:
		pe.Pressed, pe.Button = true, canopy.MouseButtonLeft
	case right:
		pe.Pressed, pe.Button = true, canopy.MouseButtonRight
	case middle:
		pe.Pressed, pe.Button = true, canopy.MouseButtonMiddle
	}
	return pe
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() canopy.KeyModifiers {
	var mods canopy.KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= canopy.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= canopy.ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= canopy.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= canopy.ModMeta
	}
	return mods
}
