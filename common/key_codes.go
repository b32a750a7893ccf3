package common

// Key codes delivered to key-down callbacks.
// These values match GLFW key codes which use ASCII values for printable keys; the terminal host
// maps its key events onto the same codes.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyN     = 78  // N key (ASCII): next preset
	KeyP     = 80  // P key (ASCII): previous preset
	KeyQ     = 81  // Q key (ASCII): quit
	KeyR     = 82  // R key (ASCII): remount the current scene
	KeySpace = 32  // Spacebar (ASCII)
	KeyEsc   = 256 // Escape key (GLFW)

	Key1 = 49 // 1 key (ASCII)
	Key9 = 57 // 9 key (ASCII)
)
