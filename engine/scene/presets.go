package scene

import (
	"fmt"
	"maps"
	"slices"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/chewxy/math32"
	"github.com/jinzhu/copier"
)

const (
	purple = "#c084fc"
	cyan   = "#4cc9f0"
	pink   = "#f472b6"
	yellow = "#facc15"
)

var presets = map[string]Config{
	"waves":     wavesPreset(),
	"home":      homePreset(),
	"portfolio": portfolioPreset(),
}

// Preset returns a deep copy of a built-in scene config, defaulted and ready to mount.
//
// Parameters:
//   - name: one of PresetNames
//
// Returns:
//   - Config: a copy the caller may modify freely
//   - error: a ConfigurationError for an unknown name
func Preset(name string) (Config, error) {
	p, ok := presets[name]
	if !ok {
		return Config{}, &common.ConfigurationError{Field: "preset", Reason: fmt.Sprintf("unknown preset %q, want one of %v", name, PresetNames())}
	}
	var c Config
	if err := copier.CopyWithOption(&c, &p, copier.Option{DeepCopy: true}); err != nil {
		return Config{}, fmt.Errorf("failed to copy preset %s: %w", name, err)
	}
	c.Defaults()
	return c, nil
}

// PresetNames lists the built-in presets in sorted order.
func PresetNames() []string {
	return slices.Sorted(maps.Keys(presets))
}

// wavesPreset is two counter-rotated wave planes under a slowly turning starfield.
func wavesPreset() Config {
	return Config{
		Name:       "waves",
		Background: "#000000",
		Camera: CameraConfig{
			Fov:      45,
			Position: [3]float32{0, 10, 35},
		},
		Waves: []WaveConfig{
			{
				Label:      "wave_primary",
				Width:      60,
				Height:     60,
				Resolution: 221,
				Colors:     [2]string{cyan, purple},
				Rotation:   [3]float32{-math32.Pi / 2.4, 0, 0},
				Position:   [3]float32{0, -10, 0},
				TimeScale:  1,
			},
			{
				Label:      "wave_secondary",
				Width:      60,
				Height:     60,
				Resolution: 221,
				Colors:     [2]string{pink, yellow},
				Rotation:   [3]float32{-math32.Pi / 2.4, math32.Pi / 6, 0},
				Position:   [3]float32{0, -12, 0},
				TimeScale:  0.9,
			},
		},
		Particles: []ParticleConfig{
			{
				Label:    "stars",
				Count:    600,
				Palette:  []string{"#ffffff"},
				Law:      "uniform-cube",
				Center:   [3]float32{0, 40, 0},
				Extent:   [3]float32{60, 40, 60},
				Size:     [2]float32{0.5, 0.5},
				Opacity:  Opacity(0.35),
				Spin:     [3]float32{0, 0.03, 0},
				Blending: blendingAlpha,
			},
		},
	}
}

// homePreset is a drifting particle cube with pulsing orbs, three orbiting lights and
// constellation lines.
func homePreset() Config {
	return Config{
		Name:       "home",
		Background: "#000000",
		Camera: CameraConfig{
			Fov:      75,
			Position: [3]float32{0, 0, 50},
			Drift: &DriftConfig{
				Amplitude: [3]float32{5, 5, 0},
				Rate:      [3]float32{0.1, 0.1, 0},
			},
		},
		Particles: []ParticleConfig{
			{
				Label:      "dust",
				Count:      2000,
				Palette:    []string{purple, cyan, pink},
				Law:        "uniform-cube",
				Extent:     [3]float32{100, 100, 100},
				Size:       [2]float32{1, 4},
				Opacity:    Opacity(0.8),
				Drift:      2,
				Spin:       [3]float32{0, 0.1, 0},
				Wobble:     [3]float32{0.1, 0, 0},
				WobbleRate: 0.1,
				Blending:   blendingAdditive,
				Constellation: &ConstellationConfig{
					Stride:  10,
					Color:   "#ffffff",
					Opacity: Opacity(0.1),
				},
			},
		},
		Bodies: []BodyGroupConfig{
			{
				Label:         "orbs",
				Count:         8,
				Colors:        []string{purple, cyan, pink},
				Shape:         "sphere",
				ShapeRadius:   1,
				Opacity:       Opacity(0.3),
				Emissive:      0.5,
				Radius:        [2]float32{20, 75},
				Speed:         [2]float32{0.01, 0.03},
				RotationSpeed: [3]float32{0.6, 0.6, 0},
				Scale:         [2]float32{10, 25},
				Depth:         [2]float32{-50, 50},
				DepthMotion:   &MotionConfig{Amplitude: 6, Rate: 0.2},
				Pulse:         &MotionConfig{Amplitude: 2, Rate: 2},
			},
		},
		Lights: LightsConfig{
			Ambient:          "#ffffff",
			AmbientIntensity: 0.5,
			Points: []PointLightConfig{
				{Color: purple, Intensity: 1, Range: 200, Center: [3]float32{0, 0, 50}, Orbit: [3]float32{50, 50, 0}, Rate: 0.5},
				{Color: cyan, Intensity: 1, Range: 200, Center: [3]float32{0, 0, 50}, Orbit: [3]float32{50, -50, 0}, Rate: 0.3, Phase: math32.Pi / 2},
				{Color: pink, Intensity: 1, Range: 200, Center: [3]float32{0, 0, 100}, Orbit: [3]float32{0, 0, 30}, DepthRate: 0.4},
			},
		},
	}
}

// portfolioPreset is a pulsing particle shell around wireframe icosahedra, a ring of
// tetrahedra and four pulsing lights, with a camera that leans toward the pointer.
func portfolioPreset() Config {
	c := Config{
		Name:            "portfolio",
		Background:      "#000000",
		PointerReactive: true,
		Camera: CameraConfig{
			Fov:      75,
			Position: [3]float32{0, 0, 50},
			Drift: &DriftConfig{
				Amplitude: [3]float32{0, 0, 5},
				Rate:      [3]float32{0, 0, 0.3},
			},
			Follow: &FollowConfig{Strength: 8, Smoothing: 0.03},
		},
		Particles: []ParticleConfig{
			{
				Label:       "shell",
				Count:       3000,
				Palette:     []string{purple, cyan, pink},
				Law:         "spherical-shell",
				InnerRadius: 50,
				OuterRadius: 80,
				Size:        [2]float32{0.5, 2.5},
				Opacity:     Opacity(0.9),
				Pulse:       1,
				Glow:        1,
				Spin:        [3]float32{0.05, 0.08, 0},
				Blending:    blendingAdditive,
			},
		},
		Lights: LightsConfig{
			Ambient:          "#ffffff",
			AmbientIntensity: 0.4,
		},
	}

	shells := []struct {
		color   string
		radius  float32
		opacity float32
		detail  int
		spin    [3]float32
	}{
		{purple, 30, 0.25, 2, [3]float32{0.6, 0.6, 0.6}},
		{cyan, 20, 0.2, 1, [3]float32{0.9, 0.9, 0.9}},
		{pink, 15, 0.15, 1, [3]float32{0.3, 0.3, 0.3}},
	}
	for i, s := range shells {
		c.Bodies = append(c.Bodies, BodyGroupConfig{
			Label:         fmt.Sprintf("shell_%d", i),
			Count:         1,
			Colors:        []string{s.color},
			Shape:         "icosahedron",
			ShapeRadius:   s.radius,
			Detail:        s.detail,
			Wireframe:     true,
			Opacity:       Opacity(s.opacity),
			RotationSpeed: s.spin,
			Scale:         [2]float32{1, 1},
			PhaseOffset:   float32(i),
			Pulse:         &MotionConfig{Amplitude: 0.1, Rate: 2},
		})
	}
	c.Bodies = append(c.Bodies, BodyGroupConfig{
		Label:         "shards",
		Count:         12,
		Colors:        []string{purple, cyan, pink},
		Shape:         "tetrahedron",
		ShapeRadius:   2,
		Opacity:       Opacity(0.4),
		Emissive:      0.3,
		Radius:        [2]float32{35, 50},
		Speed:         [2]float32{0.01, 0.03},
		RotationSpeed: [3]float32{1.5, 1.5, 1.5},
		Scale:         [2]float32{0.7, 0.7},
		Depth:         [2]float32{-20, 20},
		DepthMotion:   &MotionConfig{Amplitude: 12, Rate: 0.5},
		Pulse:         &MotionConfig{Amplitude: 0.3, Rate: 3},
	})

	colors := []string{purple, cyan, pink, purple}
	for i := range 4 {
		rate := 0.5 + 0.2*float32(i)
		c.Lights.Points = append(c.Lights.Points, PointLightConfig{
			Color:          colors[i],
			Intensity:      1.5,
			Range:          200,
			Center:         [3]float32{0, 0, 50},
			Orbit:          [3]float32{60, 60, 30},
			Rate:           rate,
			DepthRate:      rate * 0.7,
			PulseRate:      2,
			PulseAmplitude: 0.3,
		})
	}
	return c
}
