package prepare

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/modstack/modprep/pkg/buildexec"
	"github.com/modstack/modprep/pkg/buildorder"
	"github.com/modstack/modprep/pkg/config"
	"github.com/modstack/modprep/pkg/conventions"
	"github.com/modstack/modprep/pkg/depgraph"
	"github.com/modstack/modprep/pkg/observability"
	"github.com/modstack/modprep/pkg/patch"
	"github.com/modstack/modprep/pkg/registry"
	"github.com/modstack/modprep/pkg/resolver"
	"github.com/modstack/modprep/pkg/versionset"
)

// ErrPlatformNotSet is returned when resolution is attempted before the
// platform dependency has been registered.
var ErrPlatformNotSet = errors.New("platform dependency not set up")

// rootVariable keys the build target's own node in the graph. The target
// is not a dependency of anything and has no build variable of its own.
const rootVariable = ""

// Introspector is the configuration-introspection collaborator.
type Introspector interface {
	// LocateConfigFile finds the build-configuration entry point under a
	// module path.
	LocateConfigFile(path string) (string, error)
	// BuildNode introspects a configuration file into a dependency node.
	BuildNode(configFile, variableName string) (*depgraph.Node, error)
	// SetSeed provides the variables available to the introspector before
	// any assignment is read, e.g. the platform paths.
	SetSeed(seed map[string]string)
}

// Report summarizes one preparation run. It is what the status server
// publishes at /report.
type Report struct {
	RunID       string              `json:"run_id"`
	Target      string              `json:"target"`
	PlatformTag string              `json:"platform_tag"`
	Modules     []string            `json:"modules"`
	Order       []string            `json:"order"`
	Degraded    bool                `json:"degraded"`
	Stuck       map[string][]string `json:"stuck,omitempty"`
	SetFile     string              `json:"set_file,omitempty"`
	FilesPatched int                `json:"files_patched"`
	StartedAt   time.Time           `json:"started_at"`
	Duration    time.Duration       `json:"duration_ns"`
}

// Preparer drives one resolution run.
type Preparer struct {
	cfg          *config.Config
	targetPath   string
	runID        string
	log          *logrus.Entry
	parser       *conventions.Parser
	introspector Introspector
	backend      buildexec.Backend
	settings     *buildexec.Settings
	metrics      *observability.Metrics

	reg       *registry.Registry
	graph     *depgraph.Graph
	patcher   *patch.Patcher
	solver    *buildorder.Solver
	setWriter *versionset.Writer

	platformTag string
}

// New creates a preparer for one target. metrics may be nil.
func New(
	cfg *config.Config,
	targetPath string,
	introspector Introspector,
	backend buildexec.Backend,
	settings *buildexec.Settings,
	metrics *observability.Metrics,
	logger *logrus.Logger,
) *Preparer {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	runID := uuid.NewString()
	log := logger.WithFields(logrus.Fields{
		"run_id": runID,
		"target": targetPath,
	})

	return &Preparer{
		cfg:          cfg,
		targetPath:   targetPath,
		runID:        runID,
		log:          log,
		parser:       conventions.NewParser(cfg.RootPrefixes),
		introspector: introspector,
		backend:      backend,
		settings:     settings,
		metrics:      metrics,
		reg:          registry.New(cfg.ModuleDir()),
		patcher:      patch.NewPatcher(log),
		solver:       buildorder.NewSolver(log),
		setWriter:    versionset.NewWriter(cfg.SetDir, cfg.RepoOwner, cfg.Overrides),
	}
}

// Registry exposes the run's registry for inspection.
func (p *Preparer) Registry() *registry.Registry {
	return p.reg
}

// UsePlatform registers the platform dependency at the given tag and
// introspects the build target against it. The platform identity is the
// one identity constructed explicitly rather than parsed from a path.
func (p *Preparer) UsePlatform(tag string) error {
	id := conventions.ModuleIdentity{
		Base: tag,
		Name: p.cfg.PlatformModuleName,
		Tag:  tag,
	}
	p.platformTag = tag

	if err := os.MkdirAll(filepath.Join(p.cfg.CacheDir, "base"), 0755); err != nil {
		return fmt.Errorf("failed to create platform cache directory: %w", err)
	}

	if _, err := p.addDependency(p.cfg.PlatformVariable, id, false); err != nil {
		return err
	}

	platformPath := p.reg.PathFor(id)
	seed := make(map[string]string, len(p.cfg.IntrospectionVariables)+1)
	for key, value := range p.cfg.IntrospectionVariables {
		seed[key] = value
	}
	seed[p.cfg.PlatformVariable] = platformPath
	p.introspector.SetSeed(seed)

	// Undo earlier patch passes so introspection sees pristine files.
	if err := p.backend.RunCheckoutReset(p.targetPath, "configure"); err != nil {
		p.log.WithError(err).Warn("Failed to reset target configuration before introspection")
	}

	configFile, err := p.introspector.LocateConfigFile(p.targetPath)
	if err != nil {
		return fmt.Errorf("cannot introspect build target: %w", err)
	}
	node, err := p.introspector.BuildNode(configFile, rootVariable)
	if err != nil {
		return fmt.Errorf("cannot introspect build target: %w", err)
	}

	p.graph = depgraph.NewGraph(rootVariable)
	p.graph.Add(node)

	p.log.WithFields(logrus.Fields{
		"platform": id.String(),
		"resolved": strings.Join(node.DependencyNames(), ", "),
		"missing":  strings.Join(node.MissingNames(), ", "),
	}).Debug("Introspected build target against platform")
	return nil
}

// AddDependency implements resolver.Registrar: it records the identity,
// updates the shared build-configuration state, and introspects the
// dependency's materialized path.
func (p *Preparer) AddDependency(variable string, id conventions.ModuleIdentity) (*depgraph.Node, error) {
	return p.addDependency(variable, id, true)
}

func (p *Preparer) addDependency(variable string, id conventions.ModuleIdentity, buildNode bool) (*depgraph.Node, error) {
	p.log.WithFields(logrus.Fields{
		"variable": variable,
		"identity": id.String(),
	}).Info("Registering dependency")

	descriptor := make(map[string]string)
	for _, e := range p.setWriter.Entries(variable, id) {
		descriptor[e.Key] = e.Value
	}
	p.settings.Update(descriptor, true)

	if err := p.reg.Register(variable, id); err != nil {
		return nil, err
	}
	if p.metrics != nil {
		p.metrics.ModulesRegistered.Inc()
	}

	alias := p.cfg.Overrides.SetNameFor(variable)
	if err := p.backend.RegisterDependency(alias); err != nil {
		return nil, fmt.Errorf("backend registration of %s failed: %w", variable, err)
	}

	// The shared release record is regenerated after resolution; stale
	// entries from an earlier run would confuse introspection.
	if err := os.Remove(p.cfg.ReleaseLocal()); err != nil && !os.IsNotExist(err) {
		p.log.WithError(err).Warn("Failed to remove stale release record")
	}

	modulePath := p.reg.PathFor(id)
	if err := p.backend.RunCheckoutReset(modulePath, "configure"); err != nil {
		p.log.WithFields(logrus.Fields{"variable": variable, "path": modulePath}).
			WithError(err).Warn("Failed to reset dependency configuration")
	}

	if !buildNode {
		return nil, nil
	}

	configFile, err := p.introspector.LocateConfigFile(modulePath)
	if err != nil {
		// The dependency is registered but not materialized yet; the
		// checkout collaborator runs outside this engine.
		p.log.WithFields(logrus.Fields{"variable": variable, "path": modulePath}).
			WithError(err).Warn("Dependency not materialized; skipping introspection")
		return nil, nil
	}
	node, err := p.introspector.BuildNode(configFile, variable)
	if err != nil {
		return nil, fmt.Errorf("introspection of %s failed: %w", variable, err)
	}
	p.reg.SetNode(variable, node)
	return node, nil
}

// FindAllDependencies resolves the dependency graph to a fixpoint.
func (p *Preparer) FindAllDependencies() error {
	if p.graph == nil {
		return ErrPlatformNotSet
	}
	r := resolver.New(p.parser, p, p.log)
	return r.Resolve(p.graph, p.reg)
}

// BuildOrder computes the build order over everything registered so far.
func (p *Preparer) BuildOrder() buildorder.Result {
	result := p.solver.Order(p.reg, p.cfg.PlatformVariable)
	if result.Degraded && p.metrics != nil {
		p.metrics.BuildOrderDegradedTotal.Inc()
	}
	return result
}

// WriteVersionSet writes the version-descriptor file under the configured
// set directory, with entries in the given build order, and returns its
// path.
func (p *Preparer) WriteVersionSet(name string, order []string) (string, error) {
	if p.graph == nil {
		return "", ErrPlatformNotSet
	}
	return p.setWriter.WriteFile(name, p.reg, p.cfg.PlatformVariable, order)
}

// UpdateConfigFiles updates the shared release record for every registered
// dependency and patches each introspected configuration file so path
// variables point at resolved cache locations. Per-file failures are
// logged and do not abort the pass. The number of rewritten files is
// returned.
func (p *Preparer) UpdateConfigFiles() (int, error) {
	if p.graph == nil {
		return 0, ErrPlatformNotSet
	}

	values := p.reg.PathsByVariable()
	for variable, value := range p.cfg.ExtraPatchVariables {
		values[variable] = value
	}

	patched := 0
	for _, variable := range p.reg.Variables() {
		path, _ := p.reg.PathForVariable(variable)
		if err := p.backend.UpdateLocalReleaseRecord(variable, path); err != nil {
			return patched, fmt.Errorf("failed to update release record: %w", err)
		}
		if variable == p.cfg.PlatformVariable {
			continue
		}
		node, ok := p.reg.Node(variable)
		if !ok {
			continue
		}
		patched += p.patchNodeFiles(path, node, values)
	}

	// The build target's own configuration files.
	if root, ok := p.graph.Nodes[rootVariable]; ok {
		patched += p.patchNodeFiles(p.targetPath, root, values)
	}

	if p.metrics != nil {
		p.metrics.FilesPatchedTotal.Add(float64(patched))
	}
	return patched, nil
}

// patchNodeFiles patches a module's configuration files, skipping any file
// that escapes the module directory.
func (p *Preparer) patchNodeFiles(basePath string, node *depgraph.Node, values map[string]string) int {
	var files []string
	for _, rel := range node.ConfigFiles {
		full := filepath.Join(basePath, rel)
		relCheck, err := filepath.Rel(basePath, full)
		if err != nil || strings.HasPrefix(relCheck, "..") {
			p.log.WithFields(logrus.Fields{
				"file": full,
				"base": basePath,
			}).Debug("Skipping configuration file outside module directory")
			continue
		}
		files = append(files, full)
	}
	updated, patched, failed := p.patcher.PatchFiles(files, values)
	if p.metrics != nil {
		p.metrics.VariablesUpdatedTotal.Add(float64(len(updated)))
		p.metrics.PatchErrorsTotal.Add(float64(failed))
	}
	return patched
}

// Run performs a complete preparation pass and returns its report.
func (p *Preparer) Run(platformTag, setName string) (*Report, error) {
	started := time.Now()
	outcome := "success"
	defer func() {
		if p.metrics != nil {
			p.metrics.ResolutionsTotal.WithLabelValues(outcome).Inc()
			p.metrics.ResolutionDuration.Observe(time.Since(started).Seconds())
		}
	}()

	if err := p.UsePlatform(platformTag); err != nil {
		outcome = "error"
		return nil, err
	}
	if err := p.FindAllDependencies(); err != nil {
		outcome = "error"
		return nil, err
	}

	order := p.BuildOrder()
	if order.Degraded {
		outcome = "degraded"
	}

	setFile, err := p.WriteVersionSet(setName, order.Order)
	if err != nil {
		outcome = "error"
		return nil, err
	}

	patched, err := p.UpdateConfigFiles()
	if err != nil {
		outcome = "error"
		return nil, err
	}

	report := &Report{
		RunID:        p.runID,
		Target:       p.targetPath,
		PlatformTag:  platformTag,
		Modules:      p.reg.Variables(),
		Order:        order.Order,
		Degraded:     order.Degraded,
		Stuck:        order.Stuck,
		SetFile:      setFile,
		FilesPatched: patched,
		StartedAt:    started,
		Duration:     time.Since(started),
	}
	p.log.WithFields(logrus.Fields{
		"modules":  len(report.Modules),
		"degraded": report.Degraded,
		"patched":  report.FilesPatched,
	}).Info("Preparation run complete")
	return report, nil
}
