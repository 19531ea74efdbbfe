package blueprint

import (
	"fmt"
	"strings"
)

// ActionKind discriminates the tagged Action variant.
type ActionKind string

const (
	KindCreateFile      ActionKind = "CREATE_FILE"
	KindAppendToFile    ActionKind = "APPEND_TO_FILE"
	KindPrependToFile   ActionKind = "PREPEND_TO_FILE"
	KindInstallPackages ActionKind = "INSTALL_PACKAGES"
	KindAddScript       ActionKind = "ADD_SCRIPT"
	KindAddEnvVar       ActionKind = "ADD_ENV_VAR"
	KindRunCommand      ActionKind = "RUN_COMMAND"
	KindEnhanceFile     ActionKind = "ENHANCE_FILE"
)

// Kinds lists every supported action kind.
func Kinds() []ActionKind {
	return []ActionKind{
		KindCreateFile,
		KindAppendToFile,
		KindPrependToFile,
		KindInstallPackages,
		KindAddScript,
		KindAddEnvVar,
		KindRunCommand,
		KindEnhanceFile,
	}
}

// ParseKind maps a manifest spelling such as "create_file" onto its
// ActionKind constant.
func ParseKind(s string) (ActionKind, error) {
	kind := ActionKind(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Kinds() {
		if kind == known {
			return kind, nil
		}
	}
	return "", fmt.Errorf("unknown action kind %q", s)
}

// FallbackPolicy governs what ENHANCE_FILE does when its target file is
// absent from both the workspace and disk.
type FallbackPolicy string

const (
	// FallbackCreate applies the modifier to an absent input and writes the
	// result as a new file.
	FallbackCreate FallbackPolicy = "create"
	// FallbackSkip turns the action into a no-op recorded as a warning.
	FallbackSkip FallbackPolicy = "skip"
	// FallbackError fails the action.
	FallbackError FallbackPolicy = "error"
)

// Action is one declarative intent within a blueprint. Which fields are
// meaningful depends on Kind; Validate enforces the per-kind contract.
// Order within a blueprint is significant: later actions may assume the
// in-memory effects of earlier ones.
type Action struct {
	Kind ActionKind

	// Condition is an optional expression evaluated against the execution
	// context. When it evaluates to false the action is skipped without
	// side effects.
	Condition string

	// Path is the project-root-relative target for file-oriented kinds.
	Path string
	// Content is the literal payload for CREATE/APPEND/PREPEND.
	Content string
	// Overwrite permits CREATE_FILE to replace an existing file.
	Overwrite bool

	// Packages lists package specs ("name" or "name@version") for
	// INSTALL_PACKAGES; Dev selects the development dependency section.
	Packages []string
	Dev      bool

	// Name and Command describe an ADD_SCRIPT entry. Command doubles as the
	// shell line for RUN_COMMAND, with WorkDir as its working directory.
	Name    string
	Command string
	WorkDir string

	// Key and Value describe an ADD_ENV_VAR entry.
	Key   string
	Value string

	// Modifier names the registered content transformer for ENHANCE_FILE,
	// Params is its parameter object, and Fallback applies when the target
	// file does not exist yet.
	Modifier string
	Params   map[string]any
	Fallback FallbackPolicy
}

// Validate checks that the fields required by the action's kind are present.
// It is a static check; template placeholders are accepted as values.
func (a *Action) Validate() error {
	switch a.Kind {
	case KindCreateFile:
		if a.Path == "" {
			return fmt.Errorf("%s requires a path", a.Kind)
		}
		if a.Content == "" {
			return fmt.Errorf("%s %q requires content", a.Kind, a.Path)
		}
	case KindAppendToFile, KindPrependToFile:
		if a.Path == "" {
			return fmt.Errorf("%s requires a path", a.Kind)
		}
		if a.Content == "" {
			return fmt.Errorf("%s %q requires content", a.Kind, a.Path)
		}
	case KindInstallPackages:
		if len(a.Packages) == 0 {
			return fmt.Errorf("%s requires at least one package", a.Kind)
		}
	case KindAddScript:
		if a.Name == "" || a.Command == "" {
			return fmt.Errorf("%s requires a name and a command", a.Kind)
		}
	case KindAddEnvVar:
		if a.Key == "" {
			return fmt.Errorf("%s requires a key", a.Kind)
		}
	case KindRunCommand:
		if a.Command == "" {
			return fmt.Errorf("%s requires a command", a.Kind)
		}
	case KindEnhanceFile:
		if a.Path == "" {
			return fmt.Errorf("%s requires a path", a.Kind)
		}
		if a.Modifier == "" {
			return fmt.Errorf("%s %q requires a modifier name", a.Kind, a.Path)
		}
		switch a.Fallback {
		case "", FallbackCreate, FallbackSkip, FallbackError:
		default:
			return fmt.Errorf("%s %q has unknown fallback policy %q", a.Kind, a.Path, a.Fallback)
		}
	default:
		return fmt.Errorf("unknown action kind %q", a.Kind)
	}
	return nil
}

// FallbackOrDefault returns the action's fallback policy, defaulting to
// FallbackError when unset.
func (a *Action) FallbackOrDefault() FallbackPolicy {
	if a.Fallback == "" {
		return FallbackError
	}
	return a.Fallback
}
