package renderer

import "github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/bind_group_provider"

// SceneBindings carries the scene-wide bind groups that entity draw calls share.
// Camera is bound at group 0 of every pipeline; Lights at group 2 of lit pipelines and may be nil
// for scenes without a light rig.
type SceneBindings struct {
	Camera bind_group_provider.BindGroupProvider
	Lights bind_group_provider.BindGroupProvider
}
