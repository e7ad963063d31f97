package sidecar

import "github.com/giantswarm/sidecar/internal/core"

// BuildMode selects development or release behavior.
type BuildMode = core.BuildMode

const (
	// BuildDevelopment always runs the system runtime and leaves the
	// backend's console visible.
	BuildDevelopment = core.BuildDevelopment

	// BuildRelease prefers the bundled runtime and hides the backend's
	// console window where the platform has one.
	BuildRelease = core.BuildRelease
)
