// Package resolver discovers the transitive dependency set of a build
// target.
//
// # Overview
//
// Resolution is an iterative fixpoint over a growing node set. The resolver
// keeps an explicit worklist of unvisited variables; a node is marked
// visited before its references are expanded, so registration of a newly
// discovered module (which adds that module's own node to the graph) can
// never cause reprocessing. Each unresolved reference is either matched
// against the path conventions and registered, resolved from the registry
// when its variable was already handled, or left unresolved when the path
// matches no managed convention.
//
// Termination: every discovered node is visited exactly once, the set of
// recognized variable names is bounded by the directory layout, and
// non-conforming references never grow the node set.
//
// # Related Packages
//
//   - pkg/conventions: Classifies missing reference paths
//   - pkg/registry: Accumulates identities during resolution
//   - pkg/introspect: Produces nodes for materialized dependencies
package resolver
