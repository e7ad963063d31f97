// Package locate resolves where the backend artifact lives and which runtime
// executable should run it.
//
// ArtifactLocator prefers a development build output under the project root
// over the copy packaged into the host's resource directory, so a developer
// never runs a stale packaged artifact by accident. RuntimeLocator always
// yields something to execute: a bundled runtime in release builds when one
// is present, otherwise the bare system command resolved through PATH.
package locate
