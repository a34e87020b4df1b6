package buildorder

import (
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/modstack/modprep/pkg/registry"
)

// Result is the outcome of one ordering pass.
type Result struct {
	// Order lists the registered variables in build order. The platform
	// variable is implicit-first and not included.
	Order []string
	// Degraded reports that no satisfiable topological step remained at
	// some point and the tail of Order was appended lexicographically.
	Degraded bool
	// Stuck maps each variable appended on the degrade path to its
	// outstanding requirements at the time the solver gave up.
	Stuck map[string][]string
}

// Solver computes build orders.
type Solver struct {
	log *logrus.Entry
}

// NewSolver creates a solver logging through the given entry.
func NewSolver(log *logrus.Entry) *Solver {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Solver{log: log}
}

// Order computes the build order for every variable registered in reg. The
// platform variable is seeded first and stripped from the returned order;
// every other registered variable appears exactly once.
//
// On the non-degraded path, each variable's recorded dependencies precede
// it. On the degraded path that postcondition may be violated for the tail;
// Result.Degraded and Result.Stuck carry the diagnostic.
func (s *Solver) Order(reg *registry.Registry, platformVariable string) Result {
	placed := []string{platformVariable}
	placedSet := map[string]bool{platformVariable: true}

	remaining := make(map[string]bool)
	for _, variable := range reg.Variables() {
		if variable != platformVariable {
			remaining[variable] = true
		}
	}

	s.log.WithField("requirements", requirementDump(reg, remaining)).
		Debug("Determining build order")

	result := Result{}
	for len(remaining) > 0 {
		progressed := false
		for _, candidate := range sortedKeys(remaining) {
			if satisfied(reg, candidate, placedSet) {
				placed = append(placed, candidate)
				placedSet[candidate] = true
				delete(remaining, candidate)
				progressed = true
			}
		}
		if progressed {
			continue
		}

		// No satisfiable step remains: cycle or missing registration.
		// Append the stuck set in lexicographic order and report it.
		result.Degraded = true
		result.Stuck = make(map[string][]string, len(remaining))
		for _, variable := range sortedKeys(remaining) {
			result.Stuck[variable] = requirements(reg, variable, false)
			placed = append(placed, variable)
		}
		s.log.WithFields(logrus.Fields{
			"order":    strings.Join(placed, ", "),
			"stuck":    strings.Join(sortedKeys(remaining), ", "),
			"requires": result.Stuck,
		}).Warn("Unable to determine a full build order; appending remaining variables")
		break
	}

	result.Order = placed[1:]
	s.log.WithField("order", strings.Join(result.Order, ", ")).
		Debug("Determined build order")
	return result
}

// satisfied reports whether every dependency of the candidate, excluding
// self-references, is already placed. Variables without an introspected
// node have no recorded dependencies.
func satisfied(reg *registry.Registry, candidate string, placed map[string]bool) bool {
	node, ok := reg.Node(candidate)
	if !ok {
		return true
	}
	for _, dep := range node.DependencyNames() {
		if dep == candidate {
			continue
		}
		if !placed[dep] {
			return false
		}
	}
	return true
}

// requirements returns the recorded dependencies of a variable, optionally
// excluding self-references.
func requirements(reg *registry.Registry, variable string, includeSelf bool) []string {
	node, ok := reg.Node(variable)
	if !ok {
		return nil
	}
	deps := make([]string, 0, len(node.Resolved))
	for _, dep := range node.DependencyNames() {
		if !includeSelf && dep == variable {
			continue
		}
		deps = append(deps, dep)
	}
	return deps
}

func requirementDump(reg *registry.Registry, remaining map[string]bool) map[string][]string {
	dump := make(map[string][]string, len(remaining))
	for variable := range remaining {
		dump[variable] = requirements(reg, variable, false)
	}
	return dump
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
