package buildexec

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLog() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

func TestSettingsOverrideRestores(t *testing.T) {
	s := NewSettings(quietLog())
	s.Set("REPOOWNER", "primary-org")

	restore := s.Override("REPOOWNER", "other-org")
	value, _ := s.Get("REPOOWNER")
	assert.Equal(t, "other-org", value)

	restore()
	value, _ = s.Get("REPOOWNER")
	assert.Equal(t, "primary-org", value)
}

func TestSettingsOverrideDeletesPreviouslyUnset(t *testing.T) {
	s := NewSettings(quietLog())

	restore := s.Override("TRANSIENT", "yes")
	_, ok := s.Get("TRANSIENT")
	assert.True(t, ok)

	restore()
	_, ok = s.Get("TRANSIENT")
	assert.False(t, ok, "restore must delete a key that was unset before")
}

func TestSettingsUpdateRespectsOverwriteFlag(t *testing.T) {
	s := NewSettings(quietLog())
	s.Set("KEY", "old")

	s.Update(map[string]string{"KEY": "new", "OTHER": "value"}, false)
	assert.Equal(t, "old", s.GetDefault("KEY", ""))
	assert.Equal(t, "value", s.GetDefault("OTHER", ""))

	s.Update(map[string]string{"KEY": "new"}, true)
	assert.Equal(t, "new", s.GetDefault("KEY", ""))
}

func TestRegisterDependencyIdempotent(t *testing.T) {
	s := NewSettings(quietLog())
	b := NewLocalBackend(s, filepath.Join(t.TempDir(), "RELEASE.local"), nil, quietLog())

	require.NoError(t, b.RegisterDependency("ASYN"))
	require.NoError(t, b.RegisterDependency("CALC"))
	require.NoError(t, b.RegisterDependency("ASYN"))

	assert.Equal(t, "ASYN CALC", s.GetDefault("MODULES", ""))
}

func TestUpdateLocalReleaseRecord(t *testing.T) {
	record := filepath.Join(t.TempDir(), "modules", "RELEASE.local")
	b := NewLocalBackend(NewSettings(quietLog()), record, nil, quietLog())

	require.NoError(t, b.UpdateLocalReleaseRecord("ASYN", "/cache/modules/asyn-R4.39"))
	require.NoError(t, b.UpdateLocalReleaseRecord("CALC", "/cache/modules/calc-R3.7"))
	// Replacement in place, not appended twice.
	require.NoError(t, b.UpdateLocalReleaseRecord("ASYN", "/cache/modules/asyn-R4.41"))

	data, err := os.ReadFile(record)
	require.NoError(t, err)
	assert.Equal(t,
		"ASYN=/cache/modules/asyn-R4.41\nCALC=/cache/modules/calc-R3.7\n",
		string(data))
}

type recordingGit struct {
	dirs []string
	args [][]string
}

func (g *recordingGit) Run(dir string, args ...string) error {
	g.dirs = append(g.dirs, dir)
	g.args = append(g.args, args)
	return nil
}

func TestRunCheckoutReset(t *testing.T) {
	repo := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0755))

	git := &recordingGit{}
	b := NewLocalBackend(NewSettings(quietLog()), filepath.Join(t.TempDir(), "RELEASE.local"), git, quietLog())

	require.NoError(t, b.RunCheckoutReset(repo, "configure"))
	require.Len(t, git.args, 1)
	assert.Equal(t, []string{"checkout", "--", "configure"}, git.args[0])
	assert.Equal(t, repo, git.dirs[0])
}

func TestRunCheckoutResetSkipsNonGitPath(t *testing.T) {
	git := &recordingGit{}
	b := NewLocalBackend(NewSettings(quietLog()), filepath.Join(t.TempDir(), "RELEASE.local"), git, quietLog())

	require.NoError(t, b.RunCheckoutReset(t.TempDir(), "configure"))
	assert.Empty(t, git.args)
}
