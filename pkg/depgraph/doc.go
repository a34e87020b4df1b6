// Package depgraph holds the dependency graph produced by configuration
// introspection.
//
// # Overview
//
// A Node captures one module's view of its dependencies: the references its
// build configuration declares with resolvable paths, the references whose
// paths do not (yet) exist locally, and the list of configuration files the
// module pulls in. The Graph collects nodes by build variable name and grows
// monotonically while the resolver discovers new modules - nodes are added,
// never removed.
//
// # Related Packages
//
//   - pkg/introspect: Produces nodes from on-disk configuration files
//   - pkg/resolver: Moves missing references into resolved ones
package depgraph
