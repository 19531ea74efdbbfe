package blueprint

import (
	"errors"
	"fmt"
)

// WellKnownManifest is the path implied by INSTALL_PACKAGES and ADD_SCRIPT.
const WellKnownManifest = "package.json"

// WellKnownEnvFile is the path implied by ADD_ENV_VAR.
const WellKnownEnvFile = ".env"

// Blueprint is an ordered list of declarative actions describing how to
// materialize one installable technology into a project. It is immutable
// once loaded.
type Blueprint struct {
	// ID is the catalog identifier, e.g. "eslint".
	ID string
	// Name is the human-readable display name.
	Name string
	// Actions are executed strictly in order.
	Actions []Action
	// ContextualFiles lists paths the author knows the blueprint needs on
	// hand regardless of what static analysis finds.
	ContextualFiles []string
}

// Validate checks blueprint-level integrity and every action's per-kind
// contract. The returned error names the first offending action by index.
func (b *Blueprint) Validate() error {
	if b.ID == "" {
		return errors.New("blueprint is missing an id")
	}
	if len(b.Actions) == 0 {
		return fmt.Errorf("blueprint %q has no actions", b.ID)
	}
	for i := range b.Actions {
		if err := b.Actions[i].Validate(); err != nil {
			return fmt.Errorf("blueprint %q action %d: %w", b.ID, i, err)
		}
	}
	return nil
}
