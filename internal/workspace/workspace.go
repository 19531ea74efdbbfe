package workspace

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/scaffoldgo/scaffoldgo/internal/ctxlog"
)

// ErrExists is returned by Write in ModeCreate when the target already
// exists and overwrite was not allowed.
var ErrExists = errors.New("workspace: file already exists")

// ErrOutsideRoot is returned for paths that are absolute or escape the
// project root after cleaning.
var ErrOutsideRoot = errors.New("workspace: path escapes project root")

// Origin records how an entry came to be tracked.
type Origin int

const (
	// OriginPreloaded entries were read from disk and are clean until written.
	OriginPreloaded Origin = iota
	// OriginCreated entries did not exist anywhere before this run.
	OriginCreated
	// OriginModified entries existed on disk and were changed in memory.
	OriginModified
)

func (o Origin) String() string {
	switch o {
	case OriginPreloaded:
		return "preloaded"
	case OriginCreated:
		return "created"
	case OriginModified:
		return "modified"
	default:
		return "unknown"
	}
}

// Mode selects the write semantics.
type Mode int

const (
	// ModeCreate fails with ErrExists when the target is already present,
	// unless overwrite is explicitly allowed.
	ModeCreate Mode = iota
	// ModeOverwrite unconditionally replaces the tracked content.
	ModeOverwrite
	// ModeAppend concatenates after any existing content.
	ModeAppend
	// ModePrepend concatenates before any existing content.
	ModePrepend
)

type entry struct {
	content string
	origin  Origin
	dirty   bool
}

// Workspace is the per-run in-memory file map. It is safe for concurrent
// use, though a single run drives it from one goroutine.
type Workspace struct {
	id   string
	root string

	mu      sync.RWMutex
	entries map[string]*entry
}

// New allocates an empty workspace rooted at projectRoot and assigns it a
// unique run identifier.
func New(projectRoot string) *Workspace {
	return &Workspace{
		id:      uuid.NewString(),
		root:    projectRoot,
		entries: make(map[string]*entry),
	}
}

// ID returns the unique run identifier.
func (w *Workspace) ID() string { return w.id }

// Root returns the project root this workspace writes under.
func (w *Workspace) Root() string { return w.root }

// Normalize cleans a project-root-relative path. Absolute paths and paths
// that climb out of the root are rejected.
func (w *Workspace) Normalize(p string) (string, error) {
	cleaned := path.Clean(filepath.ToSlash(p))
	if cleaned == "" || cleaned == "." {
		return "", fmt.Errorf("%w: %q", ErrOutsideRoot, p)
	}
	if path.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w: %q", ErrOutsideRoot, p)
	}
	return cleaned, nil
}

// Preload reads every given path that exists on disk and is not yet tracked,
// inserting it as a preloaded entry. Missing files are skipped silently;
// under-preloading degrades to a lazy read-through later.
func (w *Workspace) Preload(ctx context.Context, paths []string) error {
	logger := ctxlog.With(ctx, "workspace", w.id)
	for _, p := range paths {
		rel, err := w.Normalize(p)
		if err != nil {
			return err
		}
		w.mu.Lock()
		_, tracked := w.entries[rel]
		w.mu.Unlock()
		if tracked {
			continue
		}
		content, ok, err := w.readDisk(rel)
		if err != nil {
			return err
		}
		if !ok {
			logger.Debug("Preload target absent on disk, skipping.", "path", rel)
			continue
		}
		w.mu.Lock()
		w.entries[rel] = &entry{content: content, origin: OriginPreloaded}
		w.mu.Unlock()
		logger.Debug("Preloaded file into workspace.", "path", rel)
	}
	return nil
}

// Read returns the tracked content for a path, lazily reading through to
// disk and caching on a miss. The boolean reports whether the file exists
// anywhere.
func (w *Workspace) Read(ctx context.Context, p string) (string, bool, error) {
	rel, err := w.Normalize(p)
	if err != nil {
		return "", false, err
	}
	w.mu.RLock()
	e, tracked := w.entries[rel]
	w.mu.RUnlock()
	if tracked {
		return e.content, true, nil
	}

	content, ok, err := w.readDisk(rel)
	if err != nil || !ok {
		return "", false, err
	}
	w.mu.Lock()
	w.entries[rel] = &entry{content: content, origin: OriginPreloaded}
	w.mu.Unlock()
	ctxlog.With(ctx, "workspace", w.id).Debug("Lazy read-through from disk.", "path", rel)
	return content, true, nil
}

// Write upserts the in-memory entry for a path. It never touches disk.
func (w *Workspace) Write(ctx context.Context, p, content string, mode Mode, allowOverwrite bool) error {
	rel, err := w.Normalize(p)
	if err != nil {
		return err
	}

	// Pull any on-disk state into the map first so create/append/prepend
	// semantics observe reality, not just prior writes.
	existing, exists, err := w.Read(ctx, rel)
	if err != nil {
		return err
	}

	var next string
	switch mode {
	case ModeCreate:
		if exists && !allowOverwrite {
			return fmt.Errorf("%w: %q", ErrExists, rel)
		}
		next = content
	case ModeOverwrite:
		next = content
	case ModeAppend:
		next = existing + content
	case ModePrepend:
		next = content + existing
	default:
		return fmt.Errorf("workspace: unknown write mode %d", mode)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if e, tracked := w.entries[rel]; tracked {
		e.content = next
		e.dirty = true
		if e.origin == OriginPreloaded {
			e.origin = OriginModified
		}
	} else {
		w.entries[rel] = &entry{content: next, origin: OriginCreated, dirty: true}
	}
	return nil
}

// Touched returns the sorted paths with pending mutations.
func (w *Workspace) Touched() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]string, 0, len(w.entries))
	for p, e := range w.entries {
		if e.dirty {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// Commit flushes every dirty entry to disk, creating parent directories as
// needed. This is the single point of disk mutation. On failure it returns
// the paths already written together with the error so the caller can report
// a partial commit.
func (w *Workspace) Commit(ctx context.Context) ([]string, error) {
	logger := ctxlog.With(ctx, "workspace", w.id)
	written := make([]string, 0)
	for _, rel := range w.Touched() {
		w.mu.RLock()
		content := w.entries[rel].content
		w.mu.RUnlock()

		abs := filepath.Join(w.root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			return written, fmt.Errorf("creating parent directory for %q: %w", rel, err)
		}
		if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
			return written, fmt.Errorf("writing %q: %w", rel, err)
		}
		written = append(written, rel)
		logger.Debug("Committed file.", "path", rel)
	}
	logger.Info("Workspace committed.", "files", len(written))
	return written, nil
}

// Discard drops the workspace without touching disk.
func (w *Workspace) Discard(ctx context.Context) {
	ctxlog.With(ctx, "workspace", w.id).Debug("Workspace discarded.", "pending", len(w.Touched()))
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries = make(map[string]*entry)
}

func (w *Workspace) readDisk(rel string) (string, bool, error) {
	abs := filepath.Join(w.root, filepath.FromSlash(rel))
	data, err := os.ReadFile(abs)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %q: %w", rel, err)
	}
	return string(data), true, nil
}
