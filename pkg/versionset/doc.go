// Package versionset writes generated version-descriptor files.
//
// # Overview
//
// A descriptor file holds one KEY=VALUE line per item, produced by
// expanding each registered module identity into a fixed key-suffix family
// (bare tag, directory name, repository name, repository owner, variable
// name, recursive-fetch flag, fetch depth, derived repository URL) prefixed
// with the variable's configured descriptor name. Entries are written in
// build order with the platform first, so the output is reproducible and
// diffable across runs.
//
// # Related Packages
//
//   - pkg/conventions: Supplies the set-name and repository overrides
//   - pkg/buildorder: Supplies the entry order
package versionset
