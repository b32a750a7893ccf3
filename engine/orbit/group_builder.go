package orbit

// GroupBuilderOption is a functional option for configuring a Group via NewGroup.
type GroupBuilderOption func(*groupImpl)

// WithLabel sets the debug label used for the group's GPU resources.
//
// Parameters:
//   - label: the label
//
// Returns:
//   - GroupBuilderOption: a function that applies the label option
func WithLabel(label string) GroupBuilderOption {
	return func(g *groupImpl) {
		g.label = label
	}
}

// WithShapeRadius sets the circumscribed radius of the body mesh before scaling. The default is 1.
//
// Parameters:
//   - radius: the mesh radius
//
// Returns:
//   - GroupBuilderOption: a function that applies the radius option
func WithShapeRadius(radius float32) GroupBuilderOption {
	return func(g *groupImpl) {
		g.radius = radius
	}
}

// WithDetail sets the icosahedron subdivision level.
//
// Parameters:
//   - detail: the subdivision level
//
// Returns:
//   - GroupBuilderOption: a function that applies the detail option
func WithDetail(detail int) GroupBuilderOption {
	return func(g *groupImpl) {
		g.detail = detail
	}
}

// WithWireframe draws the bodies' edges in their flat color instead of lit faces.
//
// Parameters:
//   - wireframe: true for edges
//
// Returns:
//   - GroupBuilderOption: a function that applies the wireframe option
func WithWireframe(wireframe bool) GroupBuilderOption {
	return func(g *groupImpl) {
		g.wireframe = wireframe
	}
}

// WithOpacity sets the bodies' alpha. The default is 1.
//
// Parameters:
//   - opacity: alpha in [0, 1]
//
// Returns:
//   - GroupBuilderOption: a function that applies the opacity option
func WithOpacity(opacity float32) GroupBuilderOption {
	return func(g *groupImpl) {
		g.opacity = opacity
	}
}

// WithEmissive makes lit bodies glow in their own color at the given intensity.
//
// Parameters:
//   - intensity: the emissive intensity
//
// Returns:
//   - GroupBuilderOption: a function that applies the emissive option
func WithEmissive(intensity float32) GroupBuilderOption {
	return func(g *groupImpl) {
		g.emissive = intensity
	}
}
