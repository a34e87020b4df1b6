package registry

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/modstack/modprep/pkg/conventions"
	"github.com/modstack/modprep/pkg/depgraph"
)

// ErrIdentityConflict is returned when a variable is re-registered with a
// different identity within one resolution run.
var ErrIdentityConflict = errors.New("variable already registered with a different identity")

// Registry holds the variable-to-identity and variable-to-node mappings for
// one resolution run.
type Registry struct {
	moduleDir  string
	identities map[string]conventions.ModuleIdentity
	nodes      map[string]*depgraph.Node
}

// New creates an empty registry. moduleDir is the cache directory under
// which dependency materializations live.
func New(moduleDir string) *Registry {
	return &Registry{
		moduleDir:  moduleDir,
		identities: make(map[string]conventions.ModuleIdentity),
		nodes:      make(map[string]*depgraph.Node),
	}
}

// Register records an identity for a build variable. Re-registration with
// the same identity is a no-op; a different identity for an already
// registered variable returns ErrIdentityConflict.
func (r *Registry) Register(variable string, id conventions.ModuleIdentity) error {
	existing, ok := r.identities[variable]
	if ok {
		if existing == id {
			return nil
		}
		return fmt.Errorf("%w: %s is %s, refusing %s",
			ErrIdentityConflict, variable, existing, id)
	}
	r.identities[variable] = id
	return nil
}

// SetNode attaches the introspected node for a registered variable.
func (r *Registry) SetNode(variable string, node *depgraph.Node) {
	r.nodes[variable] = node
}

// Identity returns the identity registered for a variable.
func (r *Registry) Identity(variable string) (conventions.ModuleIdentity, bool) {
	id, ok := r.identities[variable]
	return id, ok
}

// Node returns the introspected node for a variable, if one exists. The
// platform dependency is registered without a node.
func (r *Registry) Node(variable string) (*depgraph.Node, bool) {
	node, ok := r.nodes[variable]
	return node, ok
}

// PathFor returns the materialized cache path for an identity.
func (r *Registry) PathFor(id conventions.ModuleIdentity) string {
	return filepath.Join(r.moduleDir, id.DirName())
}

// PathForVariable returns the materialized cache path for a registered
// variable.
func (r *Registry) PathForVariable(variable string) (string, bool) {
	id, ok := r.identities[variable]
	if !ok {
		return "", false
	}
	return r.PathFor(id), true
}

// Variables returns all registered variable names in sorted order.
func (r *Registry) Variables() []string {
	names := make([]string, 0, len(r.identities))
	for name := range r.identities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PathsByVariable returns the variable-to-cache-path mapping for every
// registered variable. This is the patch set applied to module
// configuration files.
func (r *Registry) PathsByVariable() map[string]string {
	paths := make(map[string]string, len(r.identities))
	for variable, id := range r.identities {
		paths[variable] = r.PathFor(id)
	}
	return paths
}

// Len returns the number of registered variables.
func (r *Registry) Len() int {
	return len(r.identities)
}
