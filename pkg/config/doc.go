// Package config provides application configuration from environment
// variables and an optional YAML site file.
//
// # Overview
//
// Environment variables cover the settings that vary per invocation; the
// YAML site file describes the managed tree itself (root prefixes, override
// tables, platform identity) and usually lives next to the build scripts.
// Environment variables win over the site file, which wins over the
// built-in defaults.
//
// # Configuration Structure
//
// Environment:
//
//	MODPREP_CACHE_DIR="cache"
//	MODPREP_SET_DIR="cache/sets"
//	MODPREP_PLATFORM_VARIABLE="EPICS_BASE"
//	MODPREP_REPO_OWNER="slac-epics"
//	MODPREP_ROOT_PREFIXES="/cds/group/pcds/epics,/reg/g/pcds/epics"
//	MODPREP_LOG_LEVEL="info"    # debug, info, warn, error
//	MODPREP_STATUS_ADDR=""      # e.g. ":9091" to serve /healthz and /metrics
//
// Site file:
//
//	platform_variable: EPICS_BASE
//	platform_module_name: epics-base
//	repo_owner: slac-epics
//	root_prefixes:
//	  - /cds/group/pcds/epics
//	  - /reg/g/pcds/epics
//	overrides:
//	  repo_name:
//	    base: epics-base
//	  set_name:
//	    EPICS_BASE: BASE
//	extra_patch_variables:
//	  RE2C: re2c
//
// # Related Packages
//
//   - pkg/prepare: Consumes the assembled configuration
//   - pkg/conventions: Override table types
package config
