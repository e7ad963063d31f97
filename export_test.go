package sidecar

import "github.com/giantswarm/sidecar/internal/core"

// ConfigSnapshot is the resolved configuration after options are applied.
// Exported only via export_test.go so that the _test package can verify
// option closures actually mutate the config.
type ConfigSnapshot = core.SupervisorConfig

// ApplyOptionsForTesting creates a default supervisorConfig, applies the
// given options, and returns the result.
func ApplyOptionsForTesting(opts ...Option) ConfigSnapshot {
	cfg := defaultSupervisorConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg.toCoreConfig()
}
