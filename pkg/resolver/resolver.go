package resolver

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/modstack/modprep/pkg/conventions"
	"github.com/modstack/modprep/pkg/depgraph"
	"github.com/modstack/modprep/pkg/registry"
)

// Registrar performs the side effects of registering a newly discovered
// dependency: recording its identity, updating process-scoped build
// configuration state, materializing it, and introspecting the result. It
// must be idempotent for repeated (variable, identity) pairs.
type Registrar interface {
	AddDependency(variable string, id conventions.ModuleIdentity) (*depgraph.Node, error)
}

// Resolver drives the fixpoint loop.
type Resolver struct {
	parser    *conventions.Parser
	registrar Registrar
	log       *logrus.Entry
}

// New creates a resolver.
func New(parser *conventions.Parser, registrar Registrar, log *logrus.Entry) *Resolver {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Resolver{parser: parser, registrar: registrar, log: log}
}

// Resolve expands graph until no unvisited node remains. Newly registered
// dependencies grow the graph mid-loop; the explicit worklist makes that
// growth order independent of map iteration order. The graph and registry
// are mutated in place.
func (r *Resolver) Resolve(graph *depgraph.Graph, reg *registry.Registry) error {
	if graph == nil || len(graph.Nodes) == 0 {
		return fmt.Errorf("cannot resolve: dependency graph is empty (platform not set up?)")
	}

	visited := make(map[string]bool)
	worklist := graph.VariableNames()

	for len(worklist) > 0 {
		variable := worklist[0]
		worklist = worklist[1:]
		if visited[variable] {
			continue
		}
		visited[variable] = true

		node := graph.Nodes[variable]
		if node == nil {
			continue
		}

		r.log.WithFields(logrus.Fields{
			"variable": displayName(variable, graph),
			"resolved": strings.Join(node.DependencyNames(), ", "),
			"missing":  strings.Join(node.MissingNames(), ", "),
		}).Debug("Checking module for dependencies")

		for _, ref := range node.MissingNames() {
			rawPath := node.Missing[ref]

			if visited[ref] {
				if path, ok := reg.PathForVariable(ref); ok {
					node.MarkResolved(ref, path)
				} else {
					r.log.WithField("variable", ref).
						Warn("Dependency still missing")
				}
				continue
			}

			id, ok := r.parser.Parse(rawPath)
			if !ok {
				// Expected for references outside the managed conventions.
				r.log.WithFields(logrus.Fields{
					"variable": ref,
					"path":     rawPath,
				}).Debug("Dependency path does not match known patterns")
				continue
			}

			newNode, err := r.registrar.AddDependency(ref, id)
			if err != nil {
				return fmt.Errorf("failed to add dependency %s (%s): %w", ref, id, err)
			}
			if newNode != nil {
				graph.Add(newNode)
				worklist = append(worklist, newNode.VariableName)
			}

			path, ok := reg.PathForVariable(ref)
			if !ok {
				return fmt.Errorf("dependency %s registered but has no path", ref)
			}
			node.MarkResolved(ref, path)
			r.log.WithFields(logrus.Fields{
				"variable":   displayName(variable, graph),
				"dependency": ref,
				"path":       path,
			}).Info("Set dependency")
		}
	}

	return nil
}

// displayName names the build target itself in logs; only the root node has
// an empty variable name in some configurations.
func displayName(variable string, graph *depgraph.Graph) string {
	if variable == "" || variable == graph.Root {
		return "the build target"
	}
	return variable
}
