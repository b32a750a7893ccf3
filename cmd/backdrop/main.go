// Command backdrop renders procedural animated backdrops in a window, in the terminal or to a PNG.
//
// Keys: N/P cycle scenes, 1-9 pick one, R remounts, Esc or Q quits.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Carmen-Shannon/oxy-backdrop/engine"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/scene"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/terminal"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/window"
)

type options struct {
	preset     string
	configPath string
	output     string
	outPath    string
	at         float64
	fps        float64
	width      int
	height     int
	seed       int64
	profile    bool
	dump       bool
	logPath    string
}

func main() {
	var o options
	flag.StringVar(&o.preset, "preset", "portfolio", "built-in scene: "+strings.Join(scene.PresetNames(), ", "))
	flag.StringVar(&o.configPath, "config", "", "YAML scene file; overrides -preset")
	flag.StringVar(&o.output, "output", "window", "where to render: window, term or png")
	flag.StringVar(&o.outPath, "out", "backdrop.png", "PNG path for -output png")
	flag.Float64Var(&o.at, "time", 3, "seconds of animation before the PNG snapshot")
	flag.Float64Var(&o.fps, "fps", 60, "frame rate cap, and the PNG simulation rate")
	flag.IntVar(&o.width, "width", 1280, "window or PNG width in pixels")
	flag.IntVar(&o.height, "height", 720, "window or PNG height in pixels")
	flag.Int64Var(&o.seed, "seed", 0, "override the scene's random seed")
	flag.BoolVar(&o.profile, "profile", false, "log frame rate, memory and GPU resource counts")
	flag.BoolVar(&o.dump, "dump", false, "print the resolved scene as YAML and exit")
	flag.StringVar(&o.logPath, "log", "", "log file; the terminal output discards logs without one")
	flag.Parse()

	cfg, err := resolveScene(o)
	if err != nil {
		log.Fatalf("[Backdrop] %v", err)
	}
	if o.dump {
		if err := cfg.WriteYAML(os.Stdout); err != nil {
			log.Fatalf("[Backdrop] %v", err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, o, cfg); err != nil {
		log.Fatalf("[Backdrop] %v", err)
	}
}

func resolveScene(o options) (scene.Config, error) {
	var (
		cfg scene.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = scene.LoadConfig(o.configPath)
	} else {
		cfg, err = scene.Preset(o.preset)
	}
	if err != nil {
		return scene.Config{}, err
	}
	if o.seed != 0 {
		cfg.Seed = o.seed
	}
	return cfg, nil
}

func run(ctx context.Context, o options, cfg scene.Config) error {
	if o.logPath != "" {
		f, err := os.Create(o.logPath)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	switch o.output {
	case "png":
		return runSnapshot(ctx, o, cfg)
	case "term":
		if o.logPath == "" {
			log.SetOutput(io.Discard)
		}
		term, err := terminal.NewTerminal()
		if err != nil {
			return err
		}
		defer term.Close()
		return runInteractive(ctx, o, cfg, term, term.SetKeyDownCallback, renderer.BackendTypeRaster, nil)
	case "window":
		win, err := window.NewWindow(
			window.WithTitle("oxy-backdrop - "+cfg.Name),
			window.WithSize(o.width, o.height),
		)
		if err != nil {
			return err
		}
		defer win.Close()
		retitle := func(s scene.SceneManager) { win.SetTitle("oxy-backdrop - " + s.Name()) }
		return runInteractive(ctx, o, cfg, win, win.SetKeyDownCallback, renderer.BackendTypeAuto, retitle)
	default:
		return fmt.Errorf("unknown output %q, want window, term or png", o.output)
	}
}

// runInteractive drives a window or terminal until the user quits, swapping scenes on key presses.
func runInteractive(
	ctx context.Context,
	o options,
	cfg scene.Config,
	host engine.LoopHost,
	onKey func(func(keyCode uint32)),
	backend renderer.RendererBackendType,
	onMount func(scene.SceneManager),
) error {
	list, err := newPlaylist(cfg, o.seed)
	if err != nil {
		return err
	}

	opts := []engine.EngineBuilderOption{
		engine.WithProfiling(o.profile),
		engine.WithRenderFrameLimit(o.fps),
		engine.WithSceneOptions(scene.WithBackend(backend)),
	}
	if onMount != nil {
		opts = append(opts, engine.WithMountCallback(onMount))
	}
	eng := engine.NewEngine(host, opts...)

	onKey(func(keyCode uint32) {
		next, ok := list.handle(keyCode)
		if !ok {
			return
		}
		if err := eng.Mount(next); err != nil {
			log.Printf("[Backdrop] %v", err)
		}
	})

	if err := eng.Mount(list.current()); err != nil {
		return err
	}
	return eng.Run(ctx)
}

// runSnapshot simulates the scene off-screen at a fixed step and saves the last frame.
func runSnapshot(ctx context.Context, o options, cfg scene.Config) error {
	if o.fps <= 0 || o.at < 0 {
		return fmt.Errorf("need -fps > 0 and -time >= 0, got %g and %g", o.fps, o.at)
	}
	step := time.Duration(float64(time.Second) / o.fps)
	frames := int(o.at*o.fps) + 1

	host := engine.NewHeadlessHost(o.width, o.height, step, frames)
	eng := engine.NewEngine(host,
		engine.WithProfiling(o.profile),
		engine.WithSceneOptions(scene.WithBackend(renderer.BackendTypeRaster)),
	)
	if err := eng.Mount(cfg); err != nil {
		return err
	}
	started := time.Now()
	if err := eng.Run(ctx); err != nil {
		return err
	}
	if err := host.SavePNG(o.outPath); err != nil {
		return err
	}
	log.Printf("[Backdrop] rendered %s at t=%.2fs (%d frames, %dx%d) to %s in %s",
		cfg.Name, eng.Scene().Elapsed(), host.Frames(), o.width, o.height, o.outPath, time.Since(started).Round(time.Millisecond))
	return nil
}
