// Package module defines the module contract and the bootstrap port registry
package module

import (
	phttp "toxicbot/internal/platform/net/http"
)

// Module is what a binary mounts
// it lives apart from modkit so a module can import this package without a cycle
type Module interface {
	// MountRoutes registers the module's endpoints under its own prefix
	MountRoutes(r phttp.Router)
	// Ports returns the port set binaries and other modules may consume
	Ports() any
	Name() string
}

// Prefixed is implemented by modules that mount under a fixed path
type Prefixed interface {
	Prefix() string
}

// Describe renders a module for startup logs: "name" or "name at /prefix"
func Describe(m Module) string {
	if p, ok := m.(Prefixed); ok && p.Prefix() != "" {
		return m.Name() + " at " + p.Prefix()
	}
	return m.Name()
}
