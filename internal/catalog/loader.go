package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/scaffoldgo/scaffoldgo/internal/blueprint"
	"github.com/scaffoldgo/scaffoldgo/internal/ctxlog"
	"github.com/scaffoldgo/scaffoldgo/internal/fsutil"
)

// Loader turns one or more catalog paths (files or directories) into
// validated blueprints.
type Loader interface {
	Load(ctx context.Context, paths ...string) ([]*blueprint.Blueprint, error)
}

// MultiLoader dispatches each discovered manifest to the loader matching its
// extension. It is the Loader the CLI wires in.
type MultiLoader struct {
	hcl  *HCLLoader
	yaml *YAMLLoader
}

// NewLoader creates a MultiLoader covering every supported format.
func NewLoader() *MultiLoader {
	return &MultiLoader{hcl: NewHCLLoader(), yaml: NewYAMLLoader()}
}

// Load implements Loader.
func (l *MultiLoader) Load(ctx context.Context, paths ...string) ([]*blueprint.Blueprint, error) {
	logger := ctxlog.FromContext(ctx)

	var blueprints []*blueprint.Blueprint
	seen := make(map[string]string) // blueprint ID → file
	for _, root := range paths {
		files, err := fsutil.FindFilesByExtensions(root, ".hcl", ".yaml", ".yml")
		if err != nil {
			return nil, fmt.Errorf("discovering catalog files under %q: %w", root, err)
		}
		logger.Debug("Discovered catalog files.", "root", root, "count", len(files))

		for _, file := range files {
			var loaded []*blueprint.Blueprint
			switch {
			case strings.HasSuffix(file, ".hcl"):
				loaded, err = l.hcl.LoadFile(ctx, file)
			default:
				loaded, err = l.yaml.LoadFile(ctx, file)
			}
			if err != nil {
				return nil, err
			}
			for _, bp := range loaded {
				if prior, dup := seen[bp.ID]; dup {
					return nil, fmt.Errorf("blueprint %q defined in both %s and %s", bp.ID, prior, file)
				}
				seen[bp.ID] = file
				blueprints = append(blueprints, bp)
			}
		}
	}
	return blueprints, nil
}
