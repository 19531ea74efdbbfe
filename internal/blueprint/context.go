package blueprint

// Project is the metadata of the project being assembled.
type Project struct {
	Name      string
	Path      string // absolute project root; the only directory the engine writes under
	Framework string
	Author    string
}

// Context is the immutable snapshot a blueprint run resolves templates and
// conditions against. It is constructed once per run by the caller and never
// mutated during execution.
type Context struct {
	Project Project
	// Params are the invoking module's resolved parameters.
	Params map[string]any
	// Env holds environment values exposed to templates.
	Env map[string]string
}
