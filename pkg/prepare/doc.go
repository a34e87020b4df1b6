// Package prepare orchestrates one full preparation run for a build target.
//
// # Overview
//
// A run proceeds in strictly sequential passes: register the platform
// dependency and introspect the build target, resolve the transitive
// dependency set to a fixpoint, write the version-descriptor file, update
// the shared release record and patch every introspected configuration
// file, then compute the build order. The graph and registry are created
// fresh per run and discarded afterwards; concurrent runs against one cache
// directory must be serialized by the caller, since registration mutates
// shared on-disk state without locking.
//
// # Usage Example
//
//	preparer := prepare.New(cfg, targetPath, scanner, backend, settings, metrics, logger)
//	report, err := preparer.Run("R7.0.2-2.0", "defaults")
//	if report.Degraded {
//		// build order is best-effort; inspect report.Stuck
//	}
//
// # Related Packages
//
//   - pkg/resolver: The fixpoint loop driven from here
//   - pkg/buildexec: Side effects of dependency registration
package prepare
