// Package registry tracks resolved module identities per resolution run.
//
// # Overview
//
// The registry maps build variable names to the module identities derived
// for them, and to the dependency nodes introspected from their materialized
// directories. Registration is idempotent: registering the same identity for
// a variable twice is a no-op, while registering a conflicting identity is
// reported and never silently overwritten. A registry belongs to exactly one
// resolution run and is discarded afterwards.
//
// # Usage Example
//
//	reg := registry.New("/var/cache/modprep/modules")
//	if err := reg.Register("ASYN", id); err != nil {
//		return err
//	}
//	path := reg.PathFor(id) // /var/cache/modprep/modules/asyn-R4.39-1.0.1
//
// # Related Packages
//
//   - pkg/resolver: Populates the registry during fixpoint discovery
//   - pkg/buildorder: Orders the registered variables for building
package registry
