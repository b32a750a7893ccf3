package shader

import "github.com/cogentcore/webgpu/wgpu"

var floatFormats = map[int]wgpu.VertexFormat{
	1: wgpu.VertexFormatFloat32,
	2: wgpu.VertexFormatFloat32x2,
	3: wgpu.VertexFormatFloat32x3,
	4: wgpu.VertexFormatFloat32x4,
}

// Float32Layout builds a vertex buffer layout of tightly packed float32 attributes.
// Each entry of components is the width (1-4) of one attribute; shader locations are
// assigned sequentially from firstLocation.
//
// Parameters:
//   - stepMode: wgpu.VertexStepModeVertex or wgpu.VertexStepModeInstance
//   - firstLocation: the @location of the first attribute
//   - components: the float count of each attribute, in order
//
// Returns:
//   - wgpu.VertexBufferLayout: the layout with its array stride set
func Float32Layout(stepMode wgpu.VertexStepMode, firstLocation uint32, components ...int) wgpu.VertexBufferLayout {
	attrs := make([]wgpu.VertexAttribute, 0, len(components))
	var offset uint64
	for i, n := range components {
		format, ok := floatFormats[n]
		if !ok {
			panic("shader: vertex attribute width must be 1-4 floats")
		}
		attrs = append(attrs, wgpu.VertexAttribute{
			Format:         format,
			Offset:         offset,
			ShaderLocation: firstLocation + uint32(i),
		})
		offset += uint64(n) * 4
	}
	return wgpu.VertexBufferLayout{
		ArrayStride: offset,
		StepMode:    stepMode,
		Attributes:  attrs,
	}
}

// UniformLayout builds a bind group layout with a single uniform buffer at binding 0.
//
// Parameters:
//   - label: debug label for the layout
//   - size: the uniform's size in bytes, used as MinBindingSize
//   - visibility: the stages that read the uniform
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the layout descriptor
func UniformLayout(label string, size uint64, visibility wgpu.ShaderStage) wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: label,
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: visibility,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: size,
				},
			},
		},
	}
}
