// Package workspace provides the isolated in-memory staging area for one
// blueprint run.
//
// # Purpose
//
// Every blueprint run owns exactly one Workspace, keyed by a unique run
// identifier. All file mutation during execution happens against the
// in-memory entry map; the real filesystem is touched in exactly two places:
// read-through on a miss, and Commit.
//
// # Guarantees
//
//   - No disk write occurs before Commit is called. Discard after any number
//     of writes leaves the filesystem byte-identical to its pre-run state.
//   - A path is tracked at most once. Reads for untracked paths fall through
//     to disk and are cached as preloaded entries.
//   - All paths are normalized project-root-relative; escaping the project
//     root is rejected.
//
// Commit is all-entries-or-none in intent only: if a write fails partway the
// already-written paths are reported and the error is propagated, but
// cross-file rollback on a real filesystem is not attempted.
package workspace
