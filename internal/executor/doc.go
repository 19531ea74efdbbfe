// Package executor turns blueprints into workspace mutations.
//
// It has two layers. The Orchestrator translates one semantic action into
// workspace primitives or modifier invocations, after evaluating its
// condition and resolving its templates. The Executor sequences a whole
// blueprint run: analyze, preload, execute each action in order, then commit
// or discard the workspace according to the run options.
package executor
