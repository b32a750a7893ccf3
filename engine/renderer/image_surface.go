package renderer

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/anthonynsimon/bild/imgio"
)

// ImageSurface is an off-screen RasterSurface that keeps the most recently presented frame
// in memory. It backs headless rendering and snapshot export.
type ImageSurface struct {
	mu *sync.Mutex

	width, height int
	attached      bool
	closed        bool

	frames int
	last   *image.RGBA
}

var _ RasterSurface = &ImageSurface{}

// NewImageSurface creates an off-screen surface of the given size.
//
// Parameters:
//   - width: the surface width in pixels
//   - height: the surface height in pixels
//
// Returns:
//   - *ImageSurface: the new surface
func NewImageSurface(width, height int) *ImageSurface {
	return &ImageSurface{
		mu:     &sync.Mutex{},
		width:  width,
		height: height,
	}
}

func (s *ImageSurface) Width() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width
}

func (s *ImageSurface) Height() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.height
}

func (s *ImageSurface) Attach() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.closed:
		return &common.SurfaceUnavailableError{Reason: "surface closed"}
	case s.attached:
		return &common.SurfaceUnavailableError{Reason: "surface already attached"}
	}
	s.attached = true
	return nil
}

func (s *ImageSurface) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attached = false
}

// Attached reports whether a scene currently holds the surface.
func (s *ImageSurface) Attached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attached
}

// Resize changes the reported size. The renderer picks it up on its next Resize.
func (s *ImageSurface) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height = width, height
}

// Close makes further Attach calls fail.
func (s *ImageSurface) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.attached = false
}

func (s *ImageSurface) Present(frame *image.RGBA) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.attached {
		return errors.New("present on detached surface")
	}
	if s.last == nil || s.last.Rect != frame.Rect {
		s.last = image.NewRGBA(frame.Rect)
	}
	copy(s.last.Pix, frame.Pix)
	s.frames++
	return nil
}

// Frames returns how many frames have been presented.
func (s *ImageSurface) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Frame returns a copy of the last presented frame, or nil if none was presented.
func (s *ImageSurface) Frame() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return nil
	}
	out := image.NewRGBA(s.last.Rect)
	copy(out.Pix, s.last.Pix)
	return out
}

// SavePNG writes the last presented frame to path.
//
// Parameters:
//   - path: the destination file
//
// Returns:
//   - error: an error if no frame has been presented or the file could not be written
func (s *ImageSurface) SavePNG(path string) error {
	frame := s.Frame()
	if frame == nil {
		return errors.New("no frame presented yet")
	}
	if err := imgio.Save(path, frame, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
