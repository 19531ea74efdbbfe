// Package blueprint defines the format-agnostic data model consumed by the
// execution engine: blueprints, their ordered actions, and the immutable
// execution context used for template and condition resolution.
//
// A Blueprint is inert catalog data. It never mutates after loading; every
// run-time effect is produced by the executor interpreting its actions
// against a workspace.
package blueprint
