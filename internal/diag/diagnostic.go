package diag

// Diagnostic is one structured compiler diagnostic recovered from the
// textual output of the compiler under test.
type Diagnostic struct {
	// File is the path as printed by the compiler; empty when the output
	// line carried no location.
	File string

	// Line and Col are 1-based; zero means "not reported".
	Line uint32
	Col  uint32

	Severity Severity

	// Kind is the lower-cased severity label as printed ("error",
	// "warning", "note", "help", ...). Expectations match against Kind, not
	// against Severity, so note/help/info stay distinguishable.
	Kind string

	// Code is an optional diagnostic code ("E0308", "SYN2001").
	Code string

	Message string
}
