// Package introspect builds dependency nodes from make-style release
// configuration files.
//
// # Overview
//
// A module declares its dependencies as variable assignments in its release
// configuration (typically configure/RELEASE), one VAR=/path line per
// dependency. The scanner locates a module's configuration entry point,
// parses assignments with make-style $(VAR) expansion, follows include
// directives that resolve inside the module, and classifies every
// path-valued variable by whether the path exists locally. Existing paths
// become resolved dependencies; absent ones become missing references for
// the resolver to chase.
//
// Parsed files are cached in an expiring LRU keyed by path and modification
// time, since the same release files are re-read across passes of one run.
//
// # Usage Example
//
//	scanner := introspect.NewScanner(map[string]string{
//		"EPICS_BASE": "/cache/modules/epics-base-R7.0.2",
//	}, log)
//	configFile, err := scanner.LocateConfigFile(modulePath)
//	node, err := scanner.BuildNode(configFile, "ASYN")
//
// # Related Packages
//
//   - pkg/depgraph: The node type produced here
//   - pkg/prepare: Drives introspection for the target and each dependency
package introspect
