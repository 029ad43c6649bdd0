// Package modkit wires API modules from shared deps and build options
package modkit

import "toxicbot/internal/modkit/module"

// Module is the contract every API module satisfies
type Module = module.Module

// Builder constructs a Module from shared deps and options
// modules expose New(deps Deps, opts ...Option) Module with this shape
type Builder func(Deps, ...Option) Module
