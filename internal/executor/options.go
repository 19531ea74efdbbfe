package executor

// Options pin the run policies that spec'd systems often leave implicit.
type Options struct {
	// ContinueOnError keeps visiting later actions after one fails. Errors
	// are aggregated either way; this only controls early exit.
	ContinueOnError bool
	// CommitPartial commits everything that succeeded even when some
	// actions failed. When false, any recorded error discards the
	// workspace instead.
	CommitPartial bool
	// DryRun executes the full pipeline but never commits; the result
	// carries a diff preview instead of written files.
	DryRun bool
}

// DefaultOptions mirrors the source system's behavior: keep going after
// per-action errors and commit whatever succeeded.
func DefaultOptions() Options {
	return Options{ContinueOnError: true, CommitPartial: true}
}
