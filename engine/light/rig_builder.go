package light

import "github.com/Carmen-Shannon/oxy-backdrop/common"

// RigBuilderOption is a function that configures a Rig during Spawn.
type RigBuilderOption func(*rigImpl)

// WithAmbient sets the rig's ambient color and intensity. The default is white at 0.4.
//
// Parameters:
//   - c: the ambient color
//   - intensity: the ambient intensity
//
// Returns:
//   - RigBuilderOption: a function that applies the ambient option to a rigImpl
func WithAmbient(c common.Color, intensity float32) RigBuilderOption {
	return func(r *rigImpl) {
		r.ambient = c
		r.ambientIntensity = intensity
	}
}
