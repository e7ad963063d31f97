//go:build !release

package sidecar

// DefaultBuildMode is BuildDevelopment unless the binary is built with
// -tags release.
const DefaultBuildMode = BuildDevelopment
