//go:build release

package sidecar

// DefaultBuildMode is BuildRelease because the binary was built with
// -tags release.
const DefaultBuildMode = BuildRelease
