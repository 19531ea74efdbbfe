// Package modifier provides the pluggable content-transformation pipeline
// used by ENHANCE_FILE actions and by the semantic actions that merge into
// well-known files.
//
// Modifiers are stateless and pure with respect to their two inputs: the
// existing file content (or its absence) and a parameter object. No modifier
// performs I/O; reading the target and writing the result are the
// orchestrator's job.
//
// The Registry is an explicit value constructed once per process and passed
// by reference into the orchestrator. There is no ambient global registry.
package modifier
