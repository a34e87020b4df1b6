package depgraph

import "sort"

// Node is one module's introspected dependency information. Nodes are owned
// by their Graph and are only mutated by the resolver.
type Node struct {
	// VariableName is the build variable the module is referenced by.
	VariableName string
	// Resolved maps dependency variable names to their resolved paths.
	Resolved map[string]string
	// Missing maps dependency variable names to the raw, unresolvable paths
	// the module's configuration declared for them.
	Missing map[string]string
	// ConfigFiles lists the module's configuration files, relative to the
	// module root, in inclusion order.
	ConfigFiles []string
}

// NewNode creates an empty node for the given build variable.
func NewNode(variableName string) *Node {
	return &Node{
		VariableName: variableName,
		Resolved:     make(map[string]string),
		Missing:      make(map[string]string),
	}
}

// DependencyNames returns the variable names of all resolved dependencies,
// sorted for deterministic iteration.
func (n *Node) DependencyNames() []string {
	names := make([]string, 0, len(n.Resolved))
	for name := range n.Resolved {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MissingNames returns the variable names of all unresolved references,
// sorted for deterministic iteration.
func (n *Node) MissingNames() []string {
	names := make([]string, 0, len(n.Missing))
	for name := range n.Missing {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MarkResolved moves one reference from Missing to Resolved. The entry ends
// up in exactly one of the two maps.
func (n *Node) MarkResolved(variable, path string) {
	delete(n.Missing, variable)
	n.Resolved[variable] = path
}

// Graph is the set of introspected nodes for one resolution run, keyed by
// build variable name.
type Graph struct {
	// Root is the variable name of the build target's own node.
	Root string
	// Nodes holds every introspected node by variable name.
	Nodes map[string]*Node
}

// NewGraph creates a graph rooted at the given variable name.
func NewGraph(root string) *Graph {
	return &Graph{
		Root:  root,
		Nodes: make(map[string]*Node),
	}
}

// Add inserts a node. Adding a variable that is already present replaces
// the stored node; the resolver never does this, but introspection retries
// after a checkout reset may.
func (g *Graph) Add(node *Node) {
	g.Nodes[node.VariableName] = node
}

// VariableNames returns all node variable names in sorted order.
func (g *Graph) VariableNames() []string {
	names := make([]string, 0, len(g.Nodes))
	for name := range g.Nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
