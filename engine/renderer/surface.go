package renderer

import (
	"image"

	"github.com/cogentcore/webgpu/wgpu"
)

// Surface is the mount target a scene renders into. It is owned by the host; a SceneManager
// attaches to it on mount and detaches on dispose. A surface accepts at most one attachment
// at a time.
type Surface interface {
	// Width returns the drawable width in pixels.
	Width() int

	// Height returns the drawable height in pixels.
	Height() int

	// Attach claims the surface for the engine's output.
	//
	// Returns:
	//   - error: a SurfaceUnavailableError if the surface is closed or already attached
	Attach() error

	// Detach releases the claim taken by Attach. Calling it when not attached is a no-op.
	Detach()
}

// WGPUSurface is a Surface backed by a native window that WebGPU can present to.
type WGPUSurface interface {
	Surface

	// SurfaceDescriptor returns the platform-specific descriptor for wgpu surface creation.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the descriptor
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
}

// RasterSurface is a Surface that accepts finished frames from the CPU raster backend.
type RasterSurface interface {
	Surface

	// Present hands a finished frame to the surface. The frame is reused by the renderer
	// after Present returns, so implementations must copy anything they keep.
	//
	// Parameters:
	//   - frame: the rendered frame
	//
	// Returns:
	//   - error: an error if the frame could not be delivered
	Present(frame *image.RGBA) error
}
