package dependency

import "fmt"

// Diagnostic is a validation finding produced by Dependency.Errors.
//
// Diagnostics are collected, not raised: the caller aggregates them across
// all edges and decides whether they break the build.
type Diagnostic struct {
	Name       string     // Error class, e.g. "UnsupportedWebAssemblyFeatureError"
	Message    string     // Human-readable explanation
	Dependency Dependency // Edge that produced the diagnostic
	Loc        Location   // Origin of the edge at the time of validation
}

// NewDiagnostic creates a diagnostic attributed to dep.
func NewDiagnostic(name, message string, dep Dependency) *Diagnostic {
	d := &Diagnostic{Name: name, Message: message, Dependency: dep}
	if dep != nil {
		d.Loc = dep.Loc()
	}
	return d
}

// Error implements error so diagnostics can be joined or logged like one.
func (d *Diagnostic) Error() string { return d.Message }

// String formats the diagnostic with its class name and location.
func (d *Diagnostic) String() string {
	if d.Loc.IsZero() {
		return fmt.Sprintf("%s: %s", d.Name, d.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", d.Name, d.Message, d.Loc)
}
