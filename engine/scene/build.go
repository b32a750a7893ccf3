package scene

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/camera"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/light"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/model"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/orbit"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/particle"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/wave"
	"github.com/go-gl/mathgl/mgl32"
)

// entity is anything a scene owns, poses each tick and draws.
type entity interface {
	Init(r renderer.Renderer) error
	Update(t float64)
	Writes() []bind_group_provider.BufferWrite
	Draw(r renderer.Renderer, scene renderer.SceneBindings) error
	Release()
}

// arena holds a scene's entities, addressable by kind and index.
// draw lists them in draw order: waves, bodies, lines, then particles.
type arena struct {
	rig            light.Rig
	waves          []wave.Plane
	groups         []orbit.Group
	constellations []*particle.Constellation
	fields         []particle.Field

	draw []entity
}

func newCamera(cfg CameraConfig, pointerReactive bool, width, height int) camera.Camera {
	ctrlOpts := []camera.CameraControllerOption{
		camera.WithPosition(cfg.Position),
		camera.WithTarget(cfg.Target),
	}
	if cfg.Drift != nil {
		ctrlOpts = append(ctrlOpts, camera.WithDrift(cfg.Drift.Amplitude, cfg.Drift.Rate))
	}
	if pointerReactive && cfg.Follow != nil {
		ctrlOpts = append(ctrlOpts, camera.WithFollow(cfg.Follow.Strength, cfg.Follow.Smoothing))
	}
	return camera.NewCamera(
		camera.WithController(camera.NewCameraController(ctrlOpts...)),
		camera.WithFov(mgl32.DegToRad(cfg.Fov)),
		camera.WithNear(cfg.Near),
		camera.WithFar(cfg.Far),
		camera.WithViewport(width, height),
	)
}

// buildArena generates every entity of a config on the CPU. Nothing touches the renderer.
func buildArena(cfg *Config) (*arena, error) {
	a := &arena{}

	rig, err := buildRig(cfg.Lights)
	if err != nil {
		return nil, err
	}
	a.rig = rig

	for i, wc := range cfg.Waves {
		p, err := buildWave(wc)
		if err != nil {
			return nil, fieldError(fmt.Sprintf("waves[%d]", i), err)
		}
		a.waves = append(a.waves, p)
		a.draw = append(a.draw, p)
	}

	for i, bc := range cfg.Bodies {
		g, err := buildGroup(bc, cfg.Seed+100+int64(i))
		if err != nil {
			return nil, fieldError(fmt.Sprintf("bodies[%d]", i), err)
		}
		a.groups = append(a.groups, g)
		a.draw = append(a.draw, g)
	}

	for i, pc := range cfg.Particles {
		f, err := buildField(pc, cfg.Seed+int64(i))
		if err != nil {
			return nil, fieldError(fmt.Sprintf("particles[%d]", i), err)
		}
		a.fields = append(a.fields, f)

		if cc := pc.Constellation; cc != nil && cc.Stride > 0 {
			color, err := common.ParseColor(cc.Color)
			if err != nil {
				return nil, fieldError(fmt.Sprintf("particles[%d].constellation.color", i), err)
			}
			c, err := particle.NewConstellation(f, color, *cc.Opacity)
			if err != nil {
				return nil, fieldError(fmt.Sprintf("particles[%d]", i), err)
			}
			a.constellations = append(a.constellations, c)
			a.draw = append(a.draw, c)
		}
	}
	for _, f := range a.fields {
		a.draw = append(a.draw, f)
	}
	return a, nil
}

func buildRig(cfg LightsConfig) (light.Rig, error) {
	ambient, err := common.ParseColor(cfg.Ambient)
	if err != nil {
		return nil, fieldError("lights.ambient", err)
	}
	lights := make([]light.Light, len(cfg.Points))
	for i, pc := range cfg.Points {
		color, err := common.ParseColor(pc.Color)
		if err != nil {
			return nil, fieldError(fmt.Sprintf("lights.points[%d].color", i), err)
		}
		lights[i] = light.NewLight(
			light.WithColor(color),
			light.WithIntensity(pc.Intensity),
			light.WithRange(pc.Range),
			light.WithCenter(pc.Center),
			light.WithOrbit(pc.Orbit, pc.Rate, pc.DepthRate, pc.Phase),
			light.WithPulse(pc.PulseRate, pc.PulseAmplitude),
		)
	}
	return light.Spawn(lights, light.WithAmbient(ambient, cfg.AmbientIntensity))
}

func buildWave(cfg WaveConfig) (wave.Plane, error) {
	colorA, err := common.ParseColor(cfg.Colors[0])
	if err != nil {
		return nil, fieldError("colors[0]", err)
	}
	colorB, err := common.ParseColor(cfg.Colors[1])
	if err != nil {
		return nil, fieldError("colors[1]", err)
	}
	opts := []wave.PlaneBuilderOption{
		wave.WithPosition(cfg.Position),
		wave.WithTimeScale(cfg.TimeScale),
		wave.WithAmplitude(cfg.Amplitude),
		wave.WithOpacity(*cfg.Opacity),
		wave.WithGlow(cfg.Glow),
	}
	if cfg.Label != "" {
		opts = append(opts, wave.WithLabel(cfg.Label))
	}
	return wave.Generate(cfg.Width, cfg.Height, cfg.Resolution, colorA, colorB, cfg.Rotation, opts...)
}

func buildGroup(cfg BodyGroupConfig, seed int64) (orbit.Group, error) {
	colors, err := common.ParsePalette("colors", cfg.Colors)
	if err != nil {
		return nil, err
	}
	shape, err := model.ParseShape(cfg.Shape)
	if err != nil {
		return nil, err
	}

	spawnOpts := []orbit.SpawnOption{
		orbit.WithSeed(seed),
		orbit.WithCenter(cfg.Center),
		orbit.WithRadius(cfg.Radius[0], cfg.Radius[1]),
		orbit.WithSpeed(cfg.Speed[0], cfg.Speed[1]),
		orbit.WithRotationSpeed(cfg.RotationSpeed),
		orbit.WithScale(cfg.Scale[0], cfg.Scale[1]),
		orbit.WithDepth(cfg.Depth[0], cfg.Depth[1]),
		orbit.WithPhaseOffset(cfg.PhaseOffset),
	}
	if cfg.DepthMotion != nil {
		spawnOpts = append(spawnOpts, orbit.WithDepthMotion(cfg.DepthMotion.Amplitude, cfg.DepthMotion.Rate))
	}
	if cfg.Pulse != nil {
		spawnOpts = append(spawnOpts, orbit.WithPulse(cfg.Pulse.Amplitude, cfg.Pulse.Rate))
	}
	bodies, err := orbit.Spawn(cfg.Count, colors, spawnOpts...)
	if err != nil {
		return nil, err
	}

	groupOpts := []orbit.GroupBuilderOption{
		orbit.WithShapeRadius(cfg.ShapeRadius),
		orbit.WithDetail(cfg.Detail),
		orbit.WithWireframe(cfg.Wireframe),
		orbit.WithOpacity(*cfg.Opacity),
		orbit.WithEmissive(cfg.Emissive),
	}
	if cfg.Label != "" {
		groupOpts = append(groupOpts, orbit.WithLabel(cfg.Label))
	}
	return orbit.NewGroup(bodies, shape, groupOpts...)
}

func buildField(cfg ParticleConfig, seed int64) (particle.Field, error) {
	palette, err := common.ParsePalette("palette", cfg.Palette)
	if err != nil {
		return nil, err
	}
	law, err := particle.ParseLaw(cfg.Law)
	if err != nil {
		return nil, err
	}
	opts := []particle.FieldBuilderOption{
		particle.WithSeed(seed),
		particle.WithExtent(cfg.Extent),
		particle.WithCenter(cfg.Center),
		particle.WithShell(cfg.InnerRadius, cfg.OuterRadius),
		particle.WithSizeRange(cfg.Size[0], cfg.Size[1]),
		particle.WithSizeScale(cfg.SizeScale),
		particle.WithDrift(cfg.Drift),
		particle.WithPulse(cfg.Pulse),
		particle.WithOpacity(*cfg.Opacity),
		particle.WithGlow(cfg.Glow),
		particle.WithSpin(cfg.Spin),
		particle.WithWobble(cfg.Wobble, cfg.WobbleRate),
		particle.WithAdditive(cfg.Blending == blendingAdditive),
	}
	if cfg.Label != "" {
		opts = append(opts, particle.WithLabel(cfg.Label))
	}
	if cc := cfg.Constellation; cc != nil {
		opts = append(opts, particle.WithConstellation(cc.Stride))
	}
	return particle.Generate(cfg.Count, palette, law, opts...)
}
