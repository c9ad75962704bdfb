package core

import "errors"

var (
	// ErrInvalidParameter reports a bad construction argument: a non-positive
	// count or radius, or a zero-area viewport.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrAlreadyInitialized reports a second Build of the scene graph.
	ErrAlreadyInitialized = errors.New("already initialized")

	// ErrBackendInit reports that the rendering backend could not acquire
	// its display surface. It is never retried.
	ErrBackendInit = errors.New("rendering backend init failed")

	// ErrNotBuilt reports a render request for a scene that was never built.
	ErrNotBuilt = errors.New("scene not built")
)

// ErrHostClosed is returned by a display host once its surface has been
// closed. The frame loop treats it as a normal shutdown.
var ErrHostClosed = errors.New("host closed")
