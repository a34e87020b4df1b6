package prepare

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modstack/modprep/pkg/buildexec"
	"github.com/modstack/modprep/pkg/config"
	"github.com/modstack/modprep/pkg/introspect"
)

const stackRoot = "/stackroot"

// testEnv materializes a small managed tree: a build target referencing
// module a, which references module b plus an unmanaged external path.
type testEnv struct {
	cfg      *config.Config
	target   string
	settings *buildexec.Settings
	logger   *logrus.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	base := t.TempDir()
	cacheDir := filepath.Join(base, "cache")
	target := filepath.Join(base, "ioc")

	writeRelease(t, target,
		"A="+stackRoot+"/R7.0-2.0/modules/a/R1.0\n")
	writeRelease(t, filepath.Join(cacheDir, "modules", "a-R1.0"),
		"B="+stackRoot+"/R7.0-2.0/modules/b/R2.0\n"+
			"EXTERNAL=/nonexistent/external\n")
	writeRelease(t, filepath.Join(cacheDir, "modules", "b-R2.0"),
		"# no dependencies\n")

	cfg := config.Default()
	cfg.CacheDir = cacheDir
	cfg.SetDir = filepath.Join(cacheDir, "sets")
	cfg.RootPrefixes = []string{stackRoot}
	cfg.IntrospectionVariables = map[string]string{}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return &testEnv{
		cfg:      cfg,
		target:   target,
		settings: buildexec.NewSettings(logrus.NewEntry(logger)),
		logger:   logger,
	}
}

func writeRelease(t *testing.T, moduleDir, content string) {
	t.Helper()
	dir := filepath.Join(moduleDir, "configure")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "RELEASE"), []byte(content), 0644))
}

func (e *testEnv) newPreparer(t *testing.T) *Preparer {
	return e.newPreparerWithGit(t, nil)
}

func (e *testEnv) newPreparerWithGit(t *testing.T, git buildexec.GitRunner) *Preparer {
	t.Helper()
	log := logrus.NewEntry(e.logger)
	scanner := introspect.NewScanner(e.cfg.IntrospectionVariables, log)
	backend := buildexec.NewLocalBackend(e.settings, e.cfg.ReleaseLocal(), git, log)
	return New(e.cfg, e.target, scanner, backend, e.settings, nil, e.logger)
}

// restoringGit simulates `git checkout -- configure` by restoring the
// configuration file captured at construction time.
type restoringGit struct {
	pristine map[string]string
}

func newRestoringGit(t *testing.T, dirs ...string) *restoringGit {
	t.Helper()
	g := &restoringGit{pristine: make(map[string]string)}
	for _, dir := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0755))
		data, err := os.ReadFile(filepath.Join(dir, "configure", "RELEASE"))
		require.NoError(t, err)
		g.pristine[dir] = string(data)
	}
	return g
}

func (g *restoringGit) Run(dir string, args ...string) error {
	content, ok := g.pristine[dir]
	if !ok {
		return nil
	}
	return os.WriteFile(filepath.Join(dir, "configure", "RELEASE"), []byte(content), 0644)
}

func TestRunResolvesTransitively(t *testing.T) {
	env := newTestEnv(t)
	p := env.newPreparer(t)

	report, err := p.Run("R7.0-2.0", "defaults")
	require.NoError(t, err)

	assert.False(t, report.Degraded)
	assert.Equal(t, []string{"B", "A"}, report.Order)
	assert.ElementsMatch(t, []string{"A", "B", "EPICS_BASE"}, report.Modules)
}

func TestRunPatchesConfigFiles(t *testing.T) {
	env := newTestEnv(t)
	p := env.newPreparer(t)

	report, err := p.Run("R7.0-2.0", "defaults")
	require.NoError(t, err)
	assert.Equal(t, 2, report.FilesPatched)

	// The target's reference now points into the cache.
	data, err := os.ReadFile(filepath.Join(env.target, "configure", "RELEASE"))
	require.NoError(t, err)
	assert.Contains(t, string(data),
		"A="+filepath.Join(env.cfg.ModuleDir(), "a-R1.0"))

	// Module a's reference to b is rewritten; the unmanaged path is not.
	data, err = os.ReadFile(filepath.Join(env.cfg.ModuleDir(), "a-R1.0", "configure", "RELEASE"))
	require.NoError(t, err)
	assert.Contains(t, string(data),
		"B="+filepath.Join(env.cfg.ModuleDir(), "b-R2.0"))
	assert.Contains(t, string(data), "EXTERNAL=/nonexistent/external")
}

func TestRunWritesVersionSetPlatformFirst(t *testing.T) {
	env := newTestEnv(t)
	p := env.newPreparer(t)

	report, err := p.Run("R7.0-2.0", "defaults")
	require.NoError(t, err)
	require.NotEmpty(t, report.SetFile)

	data, err := os.ReadFile(report.SetFile)
	require.NoError(t, err)
	content := string(data)
	// Platform entry first, under its set-name alias.
	assert.Equal(t, 0, strings.Index(content, "BASE=R7.0-2.0"))
	assert.Contains(t, content, "B_REPOURL=https://github.com/slac-epics/b.git")
}

func TestRunUpdatesReleaseRecord(t *testing.T) {
	env := newTestEnv(t)
	p := env.newPreparer(t)

	_, err := p.Run("R7.0-2.0", "defaults")
	require.NoError(t, err)

	data, err := os.ReadFile(env.cfg.ReleaseLocal())
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "A="+filepath.Join(env.cfg.ModuleDir(), "a-R1.0"))
	assert.Contains(t, content, "B="+filepath.Join(env.cfg.ModuleDir(), "b-R2.0"))
	assert.Contains(t, content, "EPICS_BASE="+filepath.Join(env.cfg.ModuleDir(), "epics-base-R7.0-2.0"))
}

func TestResolveBeforePlatformFails(t *testing.T) {
	env := newTestEnv(t)
	p := env.newPreparer(t)

	require.ErrorIs(t, p.FindAllDependencies(), ErrPlatformNotSet)
	_, err := p.UpdateConfigFiles()
	require.ErrorIs(t, err, ErrPlatformNotSet)
	_, err = p.WriteVersionSet("defaults", nil)
	require.ErrorIs(t, err, ErrPlatformNotSet)
}

func TestRepeatedRunsAreReproducible(t *testing.T) {
	env := newTestEnv(t)
	git := newRestoringGit(t,
		env.target,
		filepath.Join(env.cfg.ModuleDir(), "a-R1.0"),
		filepath.Join(env.cfg.ModuleDir(), "b-R2.0"))

	first, err := env.newPreparerWithGit(t, git).Run("R7.0-2.0", "defaults")
	require.NoError(t, err)
	require.Equal(t, 2, first.FilesPatched)

	// Resets restore pristine configuration, so a second run resolves and
	// patches exactly the same set of files.
	second, err := env.newPreparerWithGit(t, git).Run("R7.0-2.0", "defaults")
	require.NoError(t, err)
	assert.Equal(t, first.Order, second.Order)
	assert.Equal(t, first.Modules, second.Modules)
	assert.Equal(t, first.FilesPatched, second.FilesPatched)
}
