package workspace

import (
	"context"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff renders a textual preview of every pending mutation against the
// current on-disk content, for dry runs and reporting. The workspace itself
// is not changed.
func (w *Workspace) Diff(ctx context.Context) (string, error) {
	dmp := diffmatchpatch.New()
	var b strings.Builder
	for _, rel := range w.Touched() {
		w.mu.RLock()
		e := w.entries[rel]
		pending := e.content
		origin := e.origin
		w.mu.RUnlock()

		onDisk, _, err := w.readDisk(rel)
		if err != nil {
			return "", err
		}

		fmt.Fprintf(&b, "--- %s (%s)\n", rel, origin)
		diffs := dmp.DiffMain(onDisk, pending, false)
		patches := dmp.PatchMake(onDisk, diffs)
		b.WriteString(dmp.PatchToText(patches))
	}
	return b.String(), nil
}
