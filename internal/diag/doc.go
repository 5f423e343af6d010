// Package diag defines the diagnostic model shared by all pipeline phases.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the canonical source.Span pointing to the issue.
//   - Notes – optional labelled secondary spans ("originally declared here").
//
// # Emitting diagnostics
//
// Phases receive a Reporter and never a concrete store. ReportError /
// ReportWarning return a builder; chain WithNote and finish with Emit.
// BagReporter collects into a Bag, which is created once per compilation
// unit and drained by the driver at stage boundaries. There is no global
// sink: independent units (tests, parallel files) never share a Bag.
//
// Package diag does no formatting or IO; see internal/diagfmt.
package diag
