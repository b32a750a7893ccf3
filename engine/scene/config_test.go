package scene

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/chewxy/math32"
)

func TestPresetsBuild(t *testing.T) {
	for _, name := range PresetNames() {
		t.Run(name, func(t *testing.T) {
			cfg, err := Preset(name)
			if err != nil {
				t.Fatalf("Preset() error: %v", err)
			}
			if cfg.Name != name {
				t.Errorf("Name = %q, want %q", cfg.Name, name)
			}
			if err := cfg.Validate(); err != nil {
				t.Fatalf("Validate() error: %v", err)
			}
			a, err := buildArena(&cfg)
			if err != nil {
				t.Fatalf("buildArena() error: %v", err)
			}
			if len(a.draw) == 0 {
				t.Errorf("preset %s builds no drawable entities", name)
			}
		})
	}
}

func TestPresetNames(t *testing.T) {
	got := strings.Join(PresetNames(), ",")
	if got != "home,portfolio,waves" {
		t.Errorf("PresetNames() = %s, want home,portfolio,waves", got)
	}
	if _, err := Preset("aurora"); !errors.Is(err, common.ErrConfiguration) {
		t.Errorf("Preset(aurora) error = %v, want ConfigurationError", err)
	}
}

func TestPresetReturnsCopy(t *testing.T) {
	a, _ := Preset("home")
	a.Particles[0].Palette[0] = "#123456"
	a.Camera.Drift.Amplitude[0] = 99
	a.Bodies = nil

	b, _ := Preset("home")
	if b.Particles[0].Palette[0] == "#123456" {
		t.Errorf("palette edit leaked into the preset table")
	}
	if b.Camera.Drift.Amplitude[0] == 99 {
		t.Errorf("drift edit leaked into the preset table")
	}
	if len(b.Bodies) == 0 {
		t.Errorf("bodies edit leaked into the preset table")
	}
}

func TestPortfolioPreset(t *testing.T) {
	cfg, _ := Preset("portfolio")
	for i, p := range cfg.Particles {
		if p.Constellation != nil && p.Constellation.Stride > 0 {
			t.Errorf("particles[%d] has a constellation, want none", i)
		}
	}
	if len(cfg.Lights.Points) != 4 {
		t.Fatalf("len(Lights.Points) = %d, want 4", len(cfg.Lights.Points))
	}
	for i, l := range cfg.Lights.Points {
		rate := 0.5 + 0.2*float32(i)
		if l.Intensity != 1.5 || l.Phase != 0 {
			t.Errorf("light %d intensity %g phase %g, want 1.5 and 0", i, l.Intensity, l.Phase)
		}
		if math32.Abs(l.Rate-rate) > 1e-6 || math32.Abs(l.DepthRate-0.7*rate) > 1e-6 {
			t.Errorf("light %d rates = (%g, %g), want (%g, %g)", i, l.Rate, l.DepthRate, rate, 0.7*rate)
		}
	}
}

func TestConfigRoundTrip(t *testing.T) {
	for _, name := range PresetNames() {
		t.Run(name, func(t *testing.T) {
			cfg, _ := Preset(name)
			var first bytes.Buffer
			if err := cfg.WriteYAML(&first); err != nil {
				t.Fatalf("WriteYAML() error: %v", err)
			}
			parsed, err := ParseConfig(bytes.NewReader(first.Bytes()))
			if err != nil {
				t.Fatalf("ParseConfig() error: %v\n%s", err, first.String())
			}
			var second bytes.Buffer
			if err := parsed.WriteYAML(&second); err != nil {
				t.Fatalf("WriteYAML() error: %v", err)
			}
			if first.String() != second.String() {
				t.Errorf("round trip changed the config:\n%s\n---\n%s", first.String(), second.String())
			}
		})
	}
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ParseConfig() error: %v", err)
	}
	if cfg.Name != "custom" || cfg.Seed != 1 || cfg.Background != "#000000" {
		t.Errorf("top level defaults = (%q, %d, %q)", cfg.Name, cfg.Seed, cfg.Background)
	}
	if cfg.Camera.Fov != 75 || cfg.Camera.Position != [3]float32{0, 0, 50} {
		t.Errorf("camera defaults = fov %g at %v", cfg.Camera.Fov, cfg.Camera.Position)
	}

	src := `
name: sparse
particles:
  - count: 50
    palette: ["#ff0000"]
waves:
  - colors: ["#000000", "#ffffff"]
`
	cfg, err = ParseConfig(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseConfig() error: %v", err)
	}
	p := cfg.Particles[0]
	if p.Law != "uniform-cube" || p.Blending != "additive" || p.Size != [2]float32{1, 4} {
		t.Errorf("particle defaults = law %q, blending %q, size %v", p.Law, p.Blending, p.Size)
	}
	w := cfg.Waves[0]
	if w.Resolution != 64 || w.Width != 60 || w.TimeScale != 1 {
		t.Errorf("wave defaults = resolution %d, width %g, time scale %g", w.Resolution, w.Width, w.TimeScale)
	}
}

func TestParseConfigKeepsExplicitZeroOpacity(t *testing.T) {
	src := `
particles:
  - count: 50
    palette: ["#ff0000"]
    opacity: 0
    constellation: {stride: 5, opacity: 0}
  - count: 50
    palette: ["#ff0000"]
waves:
  - colors: ["#000000", "#ffffff"]
    opacity: 0
bodies:
  - count: 2
    colors: ["#ffffff"]
    opacity: 0
`
	cfg, err := ParseConfig(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseConfig() error: %v", err)
	}
	tests := []struct {
		name string
		got  *float32
		want float32
	}{
		{"particles[0]", cfg.Particles[0].Opacity, 0},
		{"particles[0].constellation", cfg.Particles[0].Constellation.Opacity, 0},
		{"particles[1]", cfg.Particles[1].Opacity, 0.8},
		{"waves[0]", cfg.Waves[0].Opacity, 0},
		{"bodies[0]", cfg.Bodies[0].Opacity, 0},
	}
	for _, tt := range tests {
		if tt.got == nil || *tt.got != tt.want {
			t.Errorf("%s opacity = %v, want %g", tt.name, tt.got, tt.want)
		}
	}

	if _, err := buildArena(&cfg); err != nil {
		t.Errorf("transparent layers failed to build: %v", err)
	}
}

func TestParseConfigRejects(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		field string
	}{
		{"unknown key", "name: x\nsparkle: true\n", "yaml"},
		{"bad background", "background: blue\n", "background.color"},
		{"fov out of range", "camera:\n  fov: 190\n", "camera.fov"},
		{"target equals position", "camera:\n  position: [1, 2, 3]\n  target: [1, 2, 3]\n", "camera.target"},
		{"zero particles", "particles:\n  - count: -1\n    palette: [\"#fff\"]\n", "particles[0].count"},
		{"empty palette", "particles:\n  - count: 10\n", "particles[0].palette"},
		{"unknown law", "particles:\n  - count: 10\n    palette: [\"#fff\"]\n    law: spiral\n", "particles[0].law"},
		{"bad blending", "particles:\n  - count: 10\n    palette: [\"#fff\"]\n    blending: multiply\n", "particles[0].blending"},
		{"coarse wave", "waves:\n  - resolution: 1\n    colors: [\"#000\", \"#fff\"]\n", "waves[0].resolution"},
		{"too many bodies", "bodies:\n  - count: 13\n    colors: [\"#fff\"]\n", "bodies[0].count"},
		{"unknown shape", "bodies:\n  - count: 2\n    colors: [\"#fff\"]\n    shape: torus\n", "bodies[0].shape"},
		{"inverted speed", "bodies:\n  - count: 2\n    colors: [\"#fff\"]\n    speed: [2, 1]\n", "bodies[0].speed"},
		{"too many lights", "lights:\n  points: [{}, {}, {}, {}, {}]\n", "lights.points"},
		{"opaque beyond one", "waves:\n  - colors: [\"#000\", \"#fff\"]\n    opacity: 1.5\n", "waves[0].opacity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig(strings.NewReader(tt.src))
			var ce *common.ConfigurationError
			if !errors.As(err, &ce) {
				t.Fatalf("ParseConfig() error = %v, want ConfigurationError", err)
			}
			if ce.Field != tt.field {
				t.Errorf("Field = %q, want %q", ce.Field, tt.field)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	cfg, _ := Preset("portfolio")
	var buf bytes.Buffer
	if err := cfg.WriteYAML(&buf); err != nil {
		t.Fatalf("WriteYAML() error: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if loaded.Name != "portfolio" || len(loaded.Bodies) != 4 || len(loaded.Lights.Points) != 4 {
		t.Errorf("loaded %s with %d body groups and %d lights", loaded.Name, len(loaded.Bodies), len(loaded.Lights.Points))
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("LoadConfig(missing) error = nil")
	}
}
