package modifier

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ModuleEnhancer adds import bindings, top-level statements, and export
// statements to an existing source module.
//
// Import de-duplication: for a given module specifier, an existing import
// declaration is extended with missing named bindings rather than a second
// statement being inserted; a namespace import is only added when no import
// for that specifier exists at all. Non-import statements are appended at
// module end in declaration order, skipping lines already present verbatim.
type ModuleEnhancer struct{}

// Name implements Modifier.
func (m *ModuleEnhancer) Name() string { return "enhance-module" }

// ValidateParams implements Modifier. Recognized parameters:
//
//	imports:    list of {from, named?, default?, namespace?}
//	statements: list of strings appended at module end
//	exports:    list of strings appended after statements
func (m *ModuleEnhancer) ValidateParams(params map[string]any) error {
	imports, err := importSpecs(params)
	if err != nil {
		return err
	}
	statements, err := stringSliceParam(params, "statements")
	if err != nil {
		return err
	}
	exports, err := stringSliceParam(params, "exports")
	if err != nil {
		return err
	}
	if len(imports) == 0 && len(statements) == 0 && len(exports) == 0 {
		return errors.New("enhance-module requires at least one of imports, statements, or exports")
	}
	return nil
}

// Transform implements Modifier.
func (m *ModuleEnhancer) Transform(existing *string, params map[string]any) (string, error) {
	if err := m.ValidateParams(params); err != nil {
		return "", err
	}

	content := ""
	if existing != nil {
		content = *existing
	}
	lines := []string{}
	if content != "" {
		lines = strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	}

	imports, _ := importSpecs(params)
	for _, spec := range imports {
		lines = applyImport(lines, spec)
	}

	statements, _ := stringSliceParam(params, "statements")
	exports, _ := stringSliceParam(params, "exports")
	for _, stmt := range append(statements, exports...) {
		if stmt == "" || hasVerbatimLine(lines, stmt) {
			continue
		}
		lines = append(lines, stmt)
	}

	return strings.Join(lines, "\n") + "\n", nil
}

// importSpec is one requested import binding set for a module specifier.
type importSpec struct {
	From      string
	Named     []string
	Default   string
	Namespace string
}

func importSpecs(params map[string]any) ([]importSpec, error) {
	raw, ok := params["imports"]
	if !ok {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("parameter \"imports\" must be a list, got %T", raw)
	}
	out := make([]importSpec, 0, len(items))
	for i, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("imports[%d] must be an object, got %T", i, item)
		}
		spec := importSpec{}
		spec.From, _ = stringParam(entry, "from")
		if spec.From == "" {
			return nil, fmt.Errorf("imports[%d] is missing \"from\"", i)
		}
		named, err := stringSliceParam(entry, "named")
		if err != nil {
			return nil, fmt.Errorf("imports[%d]: %w", i, err)
		}
		spec.Named = named
		spec.Default, _ = stringParam(entry, "default")
		spec.Namespace, _ = stringParam(entry, "namespace")
		if len(spec.Named) == 0 && spec.Default == "" && spec.Namespace == "" {
			return nil, fmt.Errorf("imports[%d] for %q binds nothing", i, spec.From)
		}
		if spec.Namespace != "" && len(spec.Named) > 0 {
			return nil, fmt.Errorf("imports[%d] for %q mixes namespace and named bindings", i, spec.From)
		}
		out = append(out, spec)
	}
	return out, nil
}

var (
	boundImportRe = regexp.MustCompile(`^(\s*)import\s+(.+?)\s+from\s+(['"])([^'"]+)['"](.*)$`)
	bareImportRe  = regexp.MustCompile(`^(\s*)import\s+(['"])([^'"]+)['"](.*)$`)
	namespaceRe   = regexp.MustCompile(`\*\s*as\s+([A-Za-z_$][\w$]*)`)
)

// importDecl is a parsed existing import line.
type importDecl struct {
	indent    string
	def       string
	named     []string
	namespace string
	bare      bool
	spec      string
	quote     string
	trailer   string
}

func parseImportLine(line string) (*importDecl, bool) {
	if m := boundImportRe.FindStringSubmatch(line); m != nil {
		decl := &importDecl{indent: m[1], spec: m[4], quote: m[3], trailer: m[5]}
		clause := m[2]
		if ns := namespaceRe.FindStringSubmatch(clause); ns != nil {
			decl.namespace = ns[1]
			clause = namespaceRe.ReplaceAllString(clause, "")
		}
		if open := strings.Index(clause, "{"); open >= 0 {
			closeIdx := strings.Index(clause, "}")
			if closeIdx < open {
				return nil, false
			}
			for _, name := range strings.Split(clause[open+1:closeIdx], ",") {
				if trimmed := strings.TrimSpace(name); trimmed != "" {
					decl.named = append(decl.named, trimmed)
				}
			}
			clause = clause[:open] + clause[closeIdx+1:]
		}
		clause = strings.TrimSpace(strings.Trim(strings.TrimSpace(clause), ","))
		if clause != "" {
			decl.def = clause
		}
		return decl, true
	}
	if m := bareImportRe.FindStringSubmatch(line); m != nil {
		return &importDecl{indent: m[1], spec: m[3], quote: m[2], trailer: m[4], bare: true}, true
	}
	return nil, false
}

func (d *importDecl) render() string {
	if d.bare {
		return fmt.Sprintf("%simport %s%s%s%s", d.indent, d.quote, d.spec, d.quote, d.trailer)
	}
	clauses := []string{}
	if d.def != "" {
		clauses = append(clauses, d.def)
	}
	if d.namespace != "" {
		clauses = append(clauses, "* as "+d.namespace)
	}
	if len(d.named) > 0 {
		clauses = append(clauses, "{ "+strings.Join(d.named, ", ")+" }")
	}
	return fmt.Sprintf("%simport %s from %s%s%s%s",
		d.indent, strings.Join(clauses, ", "), d.quote, d.spec, d.quote, d.trailer)
}

// applyImport folds one requested import into the module's lines.
func applyImport(lines []string, spec importSpec) []string {
	for i, line := range lines {
		decl, ok := parseImportLine(line)
		if !ok || decl.spec != spec.From {
			continue
		}

		// A declaration for this specifier already exists; extend it
		// instead of inserting a second statement.
		if decl.bare && (len(spec.Named) > 0 || spec.Default != "" || spec.Namespace != "") {
			decl.bare = false
		}
		if spec.Default != "" && decl.def == "" {
			decl.def = spec.Default
		}
		if len(spec.Named) > 0 {
			// Named bindings cannot share a declaration with a pure
			// namespace import; in that case the caller already has a
			// handle on the module and the request is dropped.
			if decl.namespace != "" && len(decl.named) == 0 && decl.def == "" && spec.Default == "" {
				return lines
			}
			for _, name := range spec.Named {
				if !containsString(decl.named, name) {
					decl.named = append(decl.named, name)
				}
			}
		}
		lines[i] = decl.render()
		return lines
	}

	// No import for this specifier yet: build a fresh declaration after the
	// last existing import.
	decl := &importDecl{
		def:       spec.Default,
		named:     append([]string{}, spec.Named...),
		namespace: spec.Namespace,
		spec:      spec.From,
		quote:     "'",
	}
	insertAt := 0
	for i, line := range lines {
		if _, ok := parseImportLine(line); ok {
			insertAt = i + 1
		}
	}
	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:insertAt]...)
	out = append(out, decl.render())
	out = append(out, lines[insertAt:]...)
	return out
}

func hasVerbatimLine(lines []string, stmt string) bool {
	want := strings.TrimSpace(stmt)
	for _, line := range lines {
		if strings.TrimSpace(line) == want {
			return true
		}
	}
	return false
}

func containsString(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}
