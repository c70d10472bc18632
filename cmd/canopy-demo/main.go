// Command canopy-demo shows a small interactive canopy UI: a row of buttons
// that count clicks, hover tweens, and a clock updated from a background
// goroutine through Scene.Post.
//
// With -headless it runs a fixed number of frames without a window (useful
// with -script) and writes a final screenshot.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi"
	"go.uber.org/zap"

	"github.com/phanxgames/canopy"
	"github.com/phanxgames/canopy/ebitenui"
	"github.com/phanxgames/canopy/ecs"
	"github.com/phanxgames/canopy/flex"
)

const (
	windowTitle = "Canopy Demo"
	screenW     = 640
	screenH     = 480
)

var (
	background = canopy.Color{R: 0.137, G: 0.118, B: 0.176, A: 1}
	panelColor = canopy.Color{R: 0.22, G: 0.2, B: 0.28, A: 1}
	buttonIdle = canopy.Color{R: 0.3, G: 0.7, B: 0.9, A: 1}
	buttonHot  = canopy.Color{R: 1.0, G: 0.7, B: 0.2, A: 1}
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	scriptPath := flag.String("script", "", "YAML script of injected input")
	headless := flag.Int("headless", 0, "run this many frames without a window")
	dump := flag.Bool("dump", false, "print the node tree after the run")
	flag.Parse()

	cfg := canopy.DefaultConfig()
	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		if cfg, err = canopy.LoadConfig(data); err != nil {
			log.Fatal(err)
		}
	}
	if cfg.Viewport.Width == 0 && cfg.Viewport.Height == 0 {
		cfg.Viewport = canopy.Viewport{Width: screenW, Height: screenH}
	}
	logger, err := newLogger(cfg.Debug)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()
	cfg.Logger = logger

	scene := canopy.NewScene(cfg)
	world := donburi.NewWorld()
	scene.SetEntityStore(ecs.NewInteractionBridge(world))
	scene.SetAccessibilitySink(ecs.NewAccessibilityBridge(world))

	clock, err := build(scene)
	if err != nil {
		log.Fatal(err)
	}

	if *scriptPath != "" {
		data, err := os.ReadFile(*scriptPath)
		if err != nil {
			log.Fatal(err)
		}
		runner, err := canopy.LoadScript(data)
		if err != nil {
			log.Fatal(err)
		}
		scene.SetTestRunner(runner)
	}

	stop := make(chan struct{})
	go tick(scene, clock, stop)
	defer close(stop)

	if *headless > 0 {
		for i := 0; i < *headless; i++ {
			if err := scene.Update(); err != nil {
				logger.Warn("frame", zap.Int("frame", i), zap.Error(err))
			}
			ecs.InteractionEventType.ProcessEvents(world)
		}
		if err := scene.SaveScreenshot("canopy-demo.png"); err != nil {
			log.Fatal(err)
		}
	} else if err := ebitenui.Run(scene, ebitenui.RunConfig{
		Title:      windowTitle,
		Width:      int(cfg.Viewport.Width),
		Height:     int(cfg.Viewport.Height),
		Background: background,
		ShowFPS:    cfg.Debug,
	}); err != nil {
		log.Fatal(err)
	}

	if *dump {
		fmt.Println(scene.DumpTree())
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// build creates the demo tree and returns the clock label.
func build(scene *canopy.Scene) (canopy.Handle, error) {
	tr := scene.Tree()
	root := scene.Root()
	if err := tr.SetPadding(root, flex.EdgeAll(24)); err != nil {
		return canopy.Handle{}, err
	}
	if err := tr.SetGap(root, 16); err != nil {
		return canopy.Handle{}, err
	}

	if _, err := tr.InsertUnder(root, canopy.Text("title", "canopy: click the buttons")); err != nil {
		return canopy.Handle{}, err
	}

	rowStyle := canopy.DefaultStyle()
	rowStyle.Layout.Direction = flex.Row
	rowStyle.Layout.Gap = 12
	rowStyle.Layout.Padding = flex.EdgeAll(12)
	rowStyle.Background = panelColor
	row, err := tr.InsertUnder(root, canopy.Container("buttons", rowStyle))
	if err != nil {
		return canopy.Handle{}, err
	}

	for i := 0; i < 3; i++ {
		if err := addButton(scene, row, i); err != nil {
			return canopy.Handle{}, err
		}
	}

	clock, err := tr.InsertUnder(root, canopy.Text("clock", ""))
	if err != nil {
		return canopy.Handle{}, err
	}
	return clock, nil
}

func addButton(scene *canopy.Scene, row canopy.Handle, i int) error {
	tr := scene.Tree()
	st := canopy.DefaultStyle()
	st.Layout.Padding = flex.EdgeSymmetric(8, 12)
	st.Layout.AlignItems = flex.AlignCenter
	st.Background = buttonIdle
	btn, err := tr.InsertUnder(row, canopy.Container(fmt.Sprintf("button%d", i), st))
	if err != nil {
		return err
	}
	label, err := tr.InsertUnder(btn, canopy.Text(fmt.Sprintf("label%d", i), fmt.Sprintf("button %d: 0", i)))
	if err != nil {
		return err
	}
	if err := tr.SetTextColor(label, canopy.Color{A: 1}); err != nil {
		return err
	}
	if err := tr.SetLabel(btn, fmt.Sprintf("button %d", i)); err != nil {
		return err
	}
	if err := tr.SetEntityID(btn, uint32(i+1)); err != nil {
		return err
	}

	clicks := 0
	if err := tr.SetHandler(btn, canopy.EventClick, func(t *canopy.Tree, ev canopy.Event) {
		clicks++
		_ = t.SetText(label, fmt.Sprintf("button %d: %d", i, clicks))
	}); err != nil {
		return err
	}
	f := &fader{scene: scene}
	hover := func(to canopy.Color) canopy.Handler {
		return func(t *canopy.Tree, ev canopy.Event) {
			f.to(t, ev.Target, to)
		}
	}
	if err := tr.SetHandler(btn, canopy.EventPointerEnter, hover(buttonHot)); err != nil {
		return err
	}
	return tr.SetHandler(btn, canopy.EventPointerLeave, hover(buttonIdle))
}

// fader runs at most one background tween per button.
type fader struct {
	scene *canopy.Scene
	group *canopy.TweenGroup
}

// to stops the running fade and starts one towards c.
func (f *fader) to(t *canopy.Tree, h canopy.Handle, c canopy.Color) {
	if f.group != nil {
		f.group.Done = true
	}
	g, err := canopy.TweenBackground(t, h, c, 0.15, ease.OutQuad)
	if err != nil {
		f.group = nil
		return
	}
	f.group = g
	f.scene.AddTween(g)
}

// tick posts a clock update once per second until stop is closed.
func tick(scene *canopy.Scene, clock canopy.Handle, stop <-chan struct{}) {
	t := time.NewTicker(time.Second)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case now := <-t.C:
			text := now.Format("15:04:05")
			scene.Post(func(tr *canopy.Tree) {
				_ = tr.SetText(clock, text)
			})
		}
	}
}
