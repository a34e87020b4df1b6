// Package cli provides the modprep command-line interface.
//
// # Overview
//
// This package implements the `modprep` tool for preparing a build target
// against a cached module tree: resolving dependencies, computing a build
// order, writing version-descriptor files, and patching configuration files.
//
// # Commands
//
// prepare: Run a full preparation pass
//
//	modprep prepare \
//		--target ./ioc \
//		--platform R7.0.2-2.0 \
//		--name defaults
//
// order: Resolve dependencies and print the build order
//
//	modprep order --target ./ioc --platform R7.0.2-2.0
//
// set: Resolve dependencies and write a version-descriptor file
//
//	modprep set --target ./ioc --platform R7.0.2-2.0 --name defaults
//
// patch: Rewrite variable assignments in configuration files
//
//	modprep patch --values "EPICS_BASE=/cache/modules/epics-base-R7.0.2-2.0" \
//		configure/RELEASE
//
// # Configuration
//
// Site configuration file:
//
//	export MODPREP_CONFIG="/etc/modprep/site.yaml"
//	# Or use --config flag
//
// Individual settings can be overridden with MODPREP_* environment
// variables; see pkg/config.
//
// # Related Packages
//
//   - pkg/prepare: Drives the preparation run
//   - pkg/config: Loads site configuration
package cli
