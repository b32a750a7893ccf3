package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/light"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/model"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/orbit"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/particle"
	"gopkg.in/yaml.v3"
)

// Config describes one scene: its camera, background and every entity mounted into it.
// Zero-valued fields take the defaults filled in by Defaults.
type Config struct {
	Name            string            `yaml:"name"`
	Seed            int64             `yaml:"seed"`
	Background      string            `yaml:"background"`
	PointerReactive bool              `yaml:"pointer_reactive"`
	Camera          CameraConfig      `yaml:"camera"`
	Particles       []ParticleConfig  `yaml:"particles,omitempty"`
	Waves           []WaveConfig      `yaml:"waves,omitempty"`
	Bodies          []BodyGroupConfig `yaml:"bodies,omitempty"`
	Lights          LightsConfig      `yaml:"lights"`
}

// CameraConfig places the perspective camera.
type CameraConfig struct {
	Fov      float32       `yaml:"fov"`
	Position [3]float32    `yaml:"position,flow"`
	Target   [3]float32    `yaml:"target,flow"`
	Near     float32       `yaml:"near"`
	Far      float32       `yaml:"far"`
	Drift    *DriftConfig  `yaml:"drift,omitempty"`
	Follow   *FollowConfig `yaml:"follow,omitempty"`
}

// DriftConfig is the camera's periodic offset from its base position.
type DriftConfig struct {
	Amplitude [3]float32 `yaml:"amplitude,flow"`
	Rate      [3]float32 `yaml:"rate,flow"`
}

// FollowConfig is the pointer-follow easing. It only applies when the scene is pointer reactive.
type FollowConfig struct {
	Strength  float32 `yaml:"strength"`
	Smoothing float32 `yaml:"smoothing"`
}

// ParticleConfig describes one particle field.
type ParticleConfig struct {
	Label         string               `yaml:"label,omitempty"`
	Count         int                  `yaml:"count"`
	Palette       []string             `yaml:"palette,flow"`
	Law           string               `yaml:"law"`
	Center        [3]float32           `yaml:"center,flow,omitempty"`
	Extent        [3]float32           `yaml:"extent,flow,omitempty"`
	InnerRadius   float32              `yaml:"inner_radius,omitempty"`
	OuterRadius   float32              `yaml:"outer_radius,omitempty"`
	Size          [2]float32           `yaml:"size,flow"`
	SizeScale     float32              `yaml:"size_scale"`
	Opacity       *float32             `yaml:"opacity"`
	Drift         float32              `yaml:"drift,omitempty"`
	Pulse         float32              `yaml:"pulse,omitempty"`
	Glow          float32              `yaml:"glow,omitempty"`
	Spin          [3]float32           `yaml:"spin,flow,omitempty"`
	Wobble        [3]float32           `yaml:"wobble,flow,omitempty"`
	WobbleRate    float32              `yaml:"wobble_rate,omitempty"`
	Blending      string               `yaml:"blending"`
	Constellation *ConstellationConfig `yaml:"constellation,omitempty"`
}

// ConstellationConfig draws lines through every Stride-th particle. A zero stride disables it.
type ConstellationConfig struct {
	Stride  int      `yaml:"stride"`
	Color   string   `yaml:"color"`
	Opacity *float32 `yaml:"opacity"`
}

// WaveConfig describes one wave plane.
type WaveConfig struct {
	Label      string     `yaml:"label,omitempty"`
	Width      float32    `yaml:"width"`
	Height     float32    `yaml:"height"`
	Resolution int        `yaml:"resolution"`
	Colors     [2]string  `yaml:"colors,flow"`
	Rotation   [3]float32 `yaml:"rotation,flow"`
	Position   [3]float32 `yaml:"position,flow"`
	TimeScale  float32    `yaml:"time_scale"`
	Amplitude  float32    `yaml:"amplitude"`
	Opacity    *float32   `yaml:"opacity"`
	Glow       float32    `yaml:"glow"`
}

// BodyGroupConfig describes one group of orbiting bodies sharing a shape and material.
type BodyGroupConfig struct {
	Label         string        `yaml:"label,omitempty"`
	Count         int           `yaml:"count"`
	Colors        []string      `yaml:"colors,flow"`
	Shape         string        `yaml:"shape"`
	ShapeRadius   float32       `yaml:"shape_radius"`
	Detail        int           `yaml:"detail,omitempty"`
	Wireframe     bool          `yaml:"wireframe,omitempty"`
	Opacity       *float32      `yaml:"opacity"`
	Emissive      float32       `yaml:"emissive,omitempty"`
	Center        [3]float32    `yaml:"center,flow,omitempty"`
	Radius        [2]float32    `yaml:"radius,flow"`
	Speed         [2]float32    `yaml:"speed,flow"`
	RotationSpeed [3]float32    `yaml:"rotation_speed,flow"`
	Scale         [2]float32    `yaml:"scale,flow"`
	Depth         [2]float32    `yaml:"depth,flow"`
	PhaseOffset   float32       `yaml:"phase_offset,omitempty"`
	DepthMotion   *MotionConfig `yaml:"depth_motion,omitempty"`
	Pulse         *MotionConfig `yaml:"pulse,omitempty"`
}

// MotionConfig is one sinusoidal term.
type MotionConfig struct {
	Amplitude float32 `yaml:"amplitude"`
	Rate      float32 `yaml:"rate"`
}

// LightsConfig is the scene's light rig.
type LightsConfig struct {
	Ambient          string             `yaml:"ambient"`
	AmbientIntensity float32            `yaml:"ambient_intensity"`
	Points           []PointLightConfig `yaml:"points,omitempty"`
}

// PointLightConfig is one orbiting, pulsing point light.
type PointLightConfig struct {
	Color          string     `yaml:"color"`
	Intensity      float32    `yaml:"intensity"`
	Range          float32    `yaml:"range"`
	Center         [3]float32 `yaml:"center,flow"`
	Orbit          [3]float32 `yaml:"orbit,flow,omitempty"`
	Rate           float32    `yaml:"rate,omitempty"`
	DepthRate      float32    `yaml:"depth_rate,omitempty"`
	Phase          float32    `yaml:"phase,omitempty"`
	PulseRate      float32    `yaml:"pulse_rate,omitempty"`
	PulseAmplitude float32    `yaml:"pulse_amplitude,omitempty"`
}

const (
	blendingAdditive = "additive"
	blendingAlpha    = "alpha"
)

// Opacity returns a pointer to v for the Opacity fields of a Config literal.
// An unset (nil) opacity takes the layer's default; an explicit 0 stays 0.
func Opacity(v float32) *float32 {
	return &v
}

func defaultOpacity(o *float32, def float32) *float32 {
	if o == nil {
		return Opacity(def)
	}
	return o
}

// validOpacity reports whether o is unset or within [0, 1].
func validOpacity(o *float32) bool {
	return o == nil || (*o >= 0 && *o <= 1)
}

// Defaults fills every zero-valued field that has a default.
func (c *Config) Defaults() {
	c.Name = common.Coalesce(c.Name, "custom")
	c.Seed = common.Coalesce(c.Seed, 1)
	c.Background = common.Coalesce(c.Background, "#000000")

	c.Camera.Fov = common.Coalesce(c.Camera.Fov, 75)
	c.Camera.Position = common.Coalesce(c.Camera.Position, [3]float32{0, 0, 50})
	c.Camera.Near = common.Coalesce(c.Camera.Near, 0.1)
	c.Camera.Far = common.Coalesce(c.Camera.Far, 1000)

	for i := range c.Particles {
		p := &c.Particles[i]
		p.Law = common.Coalesce(p.Law, string(particle.LawUniformCube))
		p.Extent = common.Coalesce(p.Extent, [3]float32{100, 100, 100})
		p.InnerRadius = common.Coalesce(p.InnerRadius, 50)
		p.OuterRadius = common.Coalesce(p.OuterRadius, 80)
		p.Size = common.Coalesce(p.Size, [2]float32{1, 4})
		p.SizeScale = common.Coalesce(p.SizeScale, 300)
		p.Opacity = defaultOpacity(p.Opacity, 0.8)
		p.Blending = common.Coalesce(p.Blending, blendingAdditive)
		if p.Constellation != nil {
			p.Constellation.Color = common.Coalesce(p.Constellation.Color, "#ffffff")
			p.Constellation.Opacity = defaultOpacity(p.Constellation.Opacity, 0.1)
		}
	}
	for i := range c.Waves {
		w := &c.Waves[i]
		w.Width = common.Coalesce(w.Width, 60)
		w.Height = common.Coalesce(w.Height, 60)
		w.Resolution = common.Coalesce(w.Resolution, 64)
		w.TimeScale = common.Coalesce(w.TimeScale, 1)
		w.Amplitude = common.Coalesce(w.Amplitude, 1.2)
		w.Opacity = defaultOpacity(w.Opacity, 0.5)
		w.Glow = common.Coalesce(w.Glow, 0.25)
	}
	for i := range c.Bodies {
		b := &c.Bodies[i]
		b.Shape = common.Coalesce(b.Shape, string(model.ShapeSphere))
		b.ShapeRadius = common.Coalesce(b.ShapeRadius, 1)
		b.Opacity = defaultOpacity(b.Opacity, 1)
		b.Scale = common.Coalesce(b.Scale, [2]float32{1, 1})
	}
	c.Lights.Ambient = common.Coalesce(c.Lights.Ambient, "#ffffff")
	c.Lights.AmbientIntensity = common.Coalesce(c.Lights.AmbientIntensity, 0.4)
	for i := range c.Lights.Points {
		l := &c.Lights.Points[i]
		l.Color = common.Coalesce(l.Color, "#ffffff")
		l.Intensity = common.Coalesce(l.Intensity, 1)
		l.Range = common.Coalesce(l.Range, 200)
	}
}

// Validate reports the first invalid field of a defaulted config.
//
// Returns:
//   - error: a ConfigurationError naming the field, or nil
func (c *Config) Validate() error {
	if _, err := common.ParseColor(c.Background); err != nil {
		return fieldError("background", err)
	}
	if err := c.Camera.validate(); err != nil {
		return err
	}
	for i := range c.Particles {
		if err := c.Particles[i].validate(); err != nil {
			return fieldError(fmt.Sprintf("particles[%d]", i), err)
		}
	}
	for i := range c.Waves {
		if err := c.Waves[i].validate(); err != nil {
			return fieldError(fmt.Sprintf("waves[%d]", i), err)
		}
	}
	for i := range c.Bodies {
		if err := c.Bodies[i].validate(); err != nil {
			return fieldError(fmt.Sprintf("bodies[%d]", i), err)
		}
	}
	return c.Lights.validate()
}

func (c *CameraConfig) validate() error {
	switch {
	case c.Fov <= 0 || c.Fov >= 180:
		return &common.ConfigurationError{Field: "camera.fov", Reason: fmt.Sprintf("must be within (0, 180), got %g", c.Fov)}
	case c.Near <= 0:
		return &common.ConfigurationError{Field: "camera.near", Reason: "must be positive"}
	case c.Far <= c.Near:
		return &common.ConfigurationError{Field: "camera.far", Reason: "must exceed near"}
	case c.Position == c.Target:
		return &common.ConfigurationError{Field: "camera.target", Reason: "must differ from position"}
	case c.Follow != nil && (c.Follow.Smoothing <= 0 || c.Follow.Smoothing > 1):
		return &common.ConfigurationError{Field: "camera.follow.smoothing", Reason: "must be within (0, 1]"}
	}
	return nil
}

func (p *ParticleConfig) validate() error {
	if p.Count <= 0 {
		return &common.ConfigurationError{Field: "count", Reason: fmt.Sprintf("must be positive, got %d", p.Count)}
	}
	if _, err := common.ParsePalette("palette", p.Palette); err != nil {
		return err
	}
	law, err := particle.ParseLaw(p.Law)
	if err != nil {
		return err
	}
	if law == particle.LawSphericalShell && (p.InnerRadius < 0 || p.OuterRadius < p.InnerRadius) {
		return &common.ConfigurationError{Field: "outer_radius", Reason: "must not be below inner_radius"}
	}
	if p.Size[0] <= 0 || p.Size[1] < p.Size[0] {
		return &common.ConfigurationError{Field: "size", Reason: fmt.Sprintf("need 0 < min <= max, got %v", p.Size)}
	}
	if !validOpacity(p.Opacity) {
		return &common.ConfigurationError{Field: "opacity", Reason: "must be within [0, 1]"}
	}
	if p.Blending != blendingAdditive && p.Blending != blendingAlpha {
		return &common.ConfigurationError{Field: "blending", Reason: fmt.Sprintf("must be %q or %q, got %q", blendingAdditive, blendingAlpha, p.Blending)}
	}
	if cc := p.Constellation; cc != nil {
		if cc.Stride < 0 {
			return &common.ConfigurationError{Field: "constellation.stride", Reason: "must not be negative"}
		}
		if cc.Stride > 0 && p.Count <= cc.Stride {
			return &common.ConfigurationError{Field: "constellation.stride", Reason: "selects fewer than two points"}
		}
		if _, err := common.ParseColor(cc.Color); err != nil {
			return fieldError("constellation.color", err)
		}
		if !validOpacity(cc.Opacity) {
			return &common.ConfigurationError{Field: "constellation.opacity", Reason: "must be within [0, 1]"}
		}
	}
	return nil
}

func (w *WaveConfig) validate() error {
	if w.Resolution < 2 {
		return &common.ConfigurationError{Field: "resolution", Reason: fmt.Sprintf("must be at least 2, got %d", w.Resolution)}
	}
	if w.Width <= 0 || w.Height <= 0 {
		return &common.ConfigurationError{Field: "size", Reason: "width and height must be positive"}
	}
	for i, hex := range w.Colors {
		if _, err := common.ParseColor(hex); err != nil {
			return fieldError(fmt.Sprintf("colors[%d]", i), err)
		}
	}
	if !validOpacity(w.Opacity) {
		return &common.ConfigurationError{Field: "opacity", Reason: "must be within [0, 1]"}
	}
	return nil
}

func (b *BodyGroupConfig) validate() error {
	if b.Count < 1 || b.Count > orbit.MaxBodies {
		return &common.ConfigurationError{Field: "count", Reason: fmt.Sprintf("must be within [1, %d], got %d", orbit.MaxBodies, b.Count)}
	}
	if _, err := common.ParsePalette("colors", b.Colors); err != nil {
		return err
	}
	if _, err := model.ParseShape(b.Shape); err != nil {
		return err
	}
	if b.ShapeRadius <= 0 {
		return &common.ConfigurationError{Field: "shape_radius", Reason: "must be positive"}
	}
	if b.Detail < 0 {
		return &common.ConfigurationError{Field: "detail", Reason: "must not be negative"}
	}
	if !validOpacity(b.Opacity) {
		return &common.ConfigurationError{Field: "opacity", Reason: "must be within [0, 1]"}
	}
	if b.Radius[0] < 0 || b.Radius[1] < b.Radius[0] {
		return &common.ConfigurationError{Field: "radius", Reason: fmt.Sprintf("need 0 <= min <= max, got %v", b.Radius)}
	}
	if b.Scale[0] <= 0 || b.Scale[1] < b.Scale[0] {
		return &common.ConfigurationError{Field: "scale", Reason: fmt.Sprintf("need 0 < min <= max, got %v", b.Scale)}
	}
	if b.Speed[1] < b.Speed[0] {
		return &common.ConfigurationError{Field: "speed", Reason: fmt.Sprintf("need min <= max, got %v", b.Speed)}
	}
	if b.Depth[1] < b.Depth[0] {
		return &common.ConfigurationError{Field: "depth", Reason: fmt.Sprintf("need min <= max, got %v", b.Depth)}
	}
	return nil
}

func (l *LightsConfig) validate() error {
	if _, err := common.ParseColor(l.Ambient); err != nil {
		return fieldError("lights.ambient", err)
	}
	if l.AmbientIntensity < 0 {
		return &common.ConfigurationError{Field: "lights.ambient_intensity", Reason: "must not be negative"}
	}
	if len(l.Points) > light.MaxLights {
		return &common.ConfigurationError{Field: "lights.points", Reason: fmt.Sprintf("at most %d lights are supported, got %d", light.MaxLights, len(l.Points))}
	}
	for i, p := range l.Points {
		field := fmt.Sprintf("lights.points[%d]", i)
		if _, err := common.ParseColor(p.Color); err != nil {
			return fieldError(field+".color", err)
		}
		if p.Intensity <= 0 {
			return &common.ConfigurationError{Field: field + ".intensity", Reason: fmt.Sprintf("must be positive, got %g", p.Intensity)}
		}
		if p.Range <= 0 {
			return &common.ConfigurationError{Field: field + ".range", Reason: "must be positive"}
		}
	}
	return nil
}

// fieldError qualifies a ConfigurationError's field with a path prefix. Other errors are
// wrapped into a ConfigurationError for the prefix itself.
func fieldError(prefix string, err error) error {
	var ce *common.ConfigurationError
	if errors.As(err, &ce) {
		return &common.ConfigurationError{Field: prefix + "." + ce.Field, Reason: ce.Reason}
	}
	return &common.ConfigurationError{Field: prefix, Reason: err.Error()}
}

// ParseConfig decodes a YAML scene description, fills defaults and validates it.
// Unknown keys are rejected.
//
// Parameters:
//   - r: the YAML source
//
// Returns:
//   - Config: the defaulted config
//   - error: a ConfigurationError for malformed or invalid input
func ParseConfig(r io.Reader) (Config, error) {
	var c Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, &common.ConfigurationError{Field: "yaml", Reason: err.Error()}
	}
	c.Defaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadConfig reads a YAML scene description from a file.
//
// Parameters:
//   - path: the file to read
//
// Returns:
//   - Config: the defaulted, validated config
//   - error: the read error, or a ConfigurationError for invalid content
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read scene config: %w", err)
	}
	c, err := ParseConfig(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// WriteYAML encodes the config so ParseConfig reads it back unchanged.
//
// Parameters:
//   - w: the destination
//
// Returns:
//   - error: an encoding or write error
func (c *Config) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode scene config: %w", err)
	}
	return enc.Close()
}
