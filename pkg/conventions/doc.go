// Package conventions extracts module identity from filesystem path conventions.
//
// # Overview
//
// This package interprets directory-convention-encoded version information.
// A managed module lives at a path of the form:
//
//	<rootPrefix>/<base>/modules/<name>/<tag>[/]
//
// where base identifies the platform release the module was built against,
// name is the module directory name, and tag is its version tag. The parser
// tries each registered root prefix in order; the first match wins. Paths
// that match no convention are not errors - they identify references to
// unmanaged, external software.
//
// # Usage Example
//
// Parse a module path:
//
//	parser := conventions.NewParser([]string{"/cds/group/pcds/epics"})
//	id, ok := parser.Parse("/cds/group/pcds/epics/R7.0.2-2.0/modules/asyn/R4.39-1.0.1")
//	if ok {
//		fmt.Printf("%s at tag %s\n", id.Name, id.Tag)
//	}
//
// # Related Packages
//
//   - pkg/registry: Maps build variables to parsed identities
//   - pkg/resolver: Uses parse failures to classify missing references
package conventions
