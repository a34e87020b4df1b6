// Package buildexec is the engine's boundary to the build-execution
// backend.
//
// # Overview
//
// The resolution engine does not check out sources or run builds itself; it
// records what the backend needs through the Backend interface and a
// process-wide Settings store. Settings supports scoped overrides: Override
// installs a temporary value and returns a restore function, so callers can
// substitute behavior for one call without attribute patching and with
// restoration guaranteed on every exit path.
//
// LocalBackend is the bundled implementation: it appends registration
// markers to the settings store, maintains the shared RELEASE.local record
// file, and resets checked-out configuration directories through a git
// runner.
//
// # Usage Example
//
//	settings := buildexec.NewSettings(log)
//	restore := settings.Override("REPOOWNER", "other-org")
//	defer restore()
//
// # Related Packages
//
//   - pkg/prepare: Pushes descriptor entries into the settings store
//   - pkg/versionset: Reads the default repository owner from settings
package buildexec
