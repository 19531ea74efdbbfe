// Package catalog loads blueprint manifests into the in-memory model the
// engine consumes. The engine itself never reads catalog files; it accepts
// blueprint values from whoever holds a Loader, which is how the CLI and the
// test harness feed it.
//
// Two authoring formats are supported behind the same interface: HCL
// (.hcl) and YAML (.yaml/.yml).
package catalog
