// Package buildorder computes a deterministic build order over a dependency
// registry.
//
// # Overview
//
// The solver runs a repeated-pass topological sort: starting from the
// implicit platform dependency, it scans the remaining variables in
// lexicographic order and places every variable whose full dependency set
// is already placed. Lexicographic scanning makes the output reproducible,
// which keeps generated configuration artifacts diffable.
//
// When a full pass places nothing and variables remain, the graph is
// unsatisfiable (a cycle, or dependency data that never resolved). The
// solver then degrades: it logs the stuck variables with their outstanding
// requirements and appends them in lexicographic order. Degradation is
// best-effort output, not an error - callers inspect Result.Degraded to
// distinguish a fully valid order from a degraded one.
//
// # Related Packages
//
//   - pkg/registry: Supplies the registered variables and their nodes
//   - pkg/versionset: Writes descriptor files in the computed order
package buildorder
