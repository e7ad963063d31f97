package sidecar

import "github.com/giantswarm/sidecar/internal/core"

// supervisorConfig holds configuration for a Supervisor. This unexported type
// wraps core.SupervisorConfig via embedding, keeping internal/core types out
// of the public API signature while avoiding field-by-field duplication.
type supervisorConfig struct {
	core.SupervisorConfig
}

// toCoreConfig returns the embedded core.SupervisorConfig.
func (c supervisorConfig) toCoreConfig() core.SupervisorConfig {
	return c.SupervisorConfig
}
