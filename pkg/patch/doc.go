// Package patch rewrites variable assignments in generated build
// configuration files.
//
// # Overview
//
// Patching is line-level and formatting-preserving. A line is left verbatim
// when it is empty, indented, or commented - this protects recipe and
// continuation lines from being misread as assignments. Other lines are
// matched against the assignment operators "?=", ":=" and "=", longest
// first, since "=" is a substring of the other two. A matching line whose
// variable is in the patch set is rewritten as name<op>value, discarding the
// old right-hand side.
//
// A file is rewritten to disk only when at least one line changed; an
// untouched file stays byte-identical and keeps its modification time.
// Per-file I/O failures are logged and do not abort a batch.
//
// # Usage Example
//
//	patcher := patch.NewPatcher(log)
//	updated, err := patcher.PatchFile("configure/RELEASE", map[string]string{
//		"ASYN": "/cache/modules/asyn-R4.39",
//	})
//
// # Related Packages
//
//   - pkg/registry: Supplies the variable-to-path patch set
//   - pkg/prepare: Drives patching across every introspected file
package patch
