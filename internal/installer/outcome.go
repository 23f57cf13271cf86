package installer

import "fmt"

// Method identifies which fallback strategy produced a working tool.
type Method string

const (
	// MethodAlreadyPresent means the tool answered on the search path.
	MethodAlreadyPresent Method = "already-present"
	// MethodEphemeralEnv means the tool was installed into the disposable
	// scratch environment.
	MethodEphemeralEnv Method = "ephemeral-environment"
	// MethodUserScoped means the tool was installed with a user-scoped
	// package install.
	MethodUserScoped Method = "user-scoped-package"
	// MethodBootstrapped means the package manager had to be bootstrapped
	// before the user-scoped install succeeded.
	MethodBootstrapped Method = "bootstrapped-package"
)

// ToolLocation says how to invoke the resolved tool: by search-path name,
// or by absolute path when it lives inside the ephemeral environment.
// Produced once per run and read-only thereafter; every repository in the
// run shares the same value.
type ToolLocation struct {
	Name string
	Path string
}

// Command returns the invocation string for the tool.
func (t ToolLocation) Command() string {
	if t.Path != "" {
		return t.Path
	}
	return t.Name
}

// ByName locates the tool by its search-path name.
func ByName(name string) ToolLocation { return ToolLocation{Name: name} }

// ByPath locates the tool at an absolute binary path.
func ByPath(path string) ToolLocation { return ToolLocation{Path: path} }

// Remediation is a named action the host can present when the cascade
// fails permanently.
type Remediation struct {
	// Label is the user-facing action name.
	Label string
	// Command is a copy-pasteable shell command, when the action is one.
	Command string
	// URL is a documentation link, when the action opens one.
	URL string
}

// FatalError is the cascade's permanent failure: every fallback exhausted,
// or a prerequisite missing that every remaining strategy depends on. It
// aborts the whole run before any repository is touched.
type FatalError struct {
	Message      string
	Remediations []Remediation
	Err          error
}

func (e *FatalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *FatalError) Unwrap() error { return e.Err }

// Outcome is the tagged result of the installation cascade: either
// installed with a method and tool location, or failed with a FatalError.
type Outcome struct {
	Installed bool
	Method    Method
	Message   string
	Tool      ToolLocation
	Fatal     *FatalError
}
