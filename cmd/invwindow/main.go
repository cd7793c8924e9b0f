package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"invui/internal/config"
	"invui/internal/demo"
	"invui/internal/input"
	"invui/internal/layout"
	"invui/internal/logging"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/xlab/closer"
)

var (
	configPath = flag.String("config", "", "configuration file (defaults to $CONFIG_PATH)")
	scale      = flag.Float64("scale", 3, "interface scale")
)

func init() {
	runtime.LockOSThread()
}

func main() {
	flag.Parse()
	defer closer.Close()

	path := *configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			closer.Exit(1)
		}
	}
	log, err := logging.New(cfg.Logging, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		closer.Exit(1)
	}

	if err := glfw.Init(); err != nil {
		log.WithError(err).Error("failed to initialize glfw")
		closer.Exit(1)
	}
	closer.Bind(glfw.Terminate)

	grid := layout.ChestGrid(cfg.Demo.ChestRows, float32(*scale))
	window, err := setupWindow(grid)
	if err != nil {
		log.WithError(err).Error("failed to create window")
		closer.Exit(1)
	}

	session, err := demo.New(cfg, demo.WithLogger(log))
	if err != nil {
		log.WithError(err).Error("failed to build demo")
		closer.Exit(1)
	}
	closer.Bind(func() { session.Close() })

	input.NewSlotInput(grid, session.Window).Install(window)

	runLoop(window, session, cfg.Scheduler.TickRate, log)
}

func setupWindow(grid *layout.Grid) (*glfw.Window, error) {
	// Slots are drawn by the host renderer; the window only provides input.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	size := grid.Size.Mul(grid.Scale).Add(mgl32.Vec2{64, 64})
	window, err := glfw.CreateWindow(int(size.X()), int(size.Y()), "invui", nil, nil)
	if err != nil {
		return nil, err
	}
	w, h := window.GetSize()
	grid.Center(mgl32.Vec2{float32(w), float32(h)})
	return window, nil
}
