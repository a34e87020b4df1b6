package buildexec

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Backend is what the engine requires from the build-execution side.
// Implementations must tolerate repeated registration of the same variable.
type Backend interface {
	// RegisterDependency tells the backend a dependency will be part of
	// this build.
	RegisterDependency(variable string) error
	// UpdateLocalReleaseRecord records the resolved path for a variable in
	// the shared release record file.
	UpdateLocalReleaseRecord(variable, path string) error
	// RunCheckoutReset discards local modifications to one subdirectory of
	// a checked-out dependency.
	RunCheckoutReset(path, subdirectory string) error
}

// GitRunner runs git commands. Split out so tests and alternative checkout
// mechanisms can substitute the executable.
type GitRunner interface {
	Run(dir string, args ...string) error
}

// ExecGit runs git via os/exec.
type ExecGit struct{}

// Run implements GitRunner.
func (ExecGit) Run(dir string, args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git %s in %s: %w: %s",
			strings.Join(args, " "), dir, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// LocalBackend implements Backend against the local module cache.
type LocalBackend struct {
	settings     *Settings
	releaseLocal string
	git          GitRunner
	log          *logrus.Entry
}

// NewLocalBackend creates a backend maintaining the given RELEASE.local
// record file.
func NewLocalBackend(settings *Settings, releaseLocal string, git GitRunner, log *logrus.Entry) *LocalBackend {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	if git == nil {
		git = ExecGit{}
	}
	return &LocalBackend{
		settings:     settings,
		releaseLocal: releaseLocal,
		git:          git,
		log:          log,
	}
}

// RegisterDependency implements Backend. Registration is recorded in the
// settings store under MODULES as a space-separated, append-only list;
// re-registering an already listed variable is a no-op.
func (b *LocalBackend) RegisterDependency(variable string) error {
	modules, _ := b.settings.Get("MODULES")
	for _, existing := range strings.Fields(modules) {
		if existing == variable {
			return nil
		}
	}
	if modules == "" {
		b.settings.Set("MODULES", variable)
	} else {
		b.settings.Set("MODULES", modules+" "+variable)
	}
	b.log.WithField("variable", variable).Debug("Registered dependency with backend")
	return nil
}

// UpdateLocalReleaseRecord implements Backend. The record file holds one
// VARIABLE=path line per dependency; an existing line for the variable is
// replaced in place, otherwise a line is appended.
func (b *LocalBackend) UpdateLocalReleaseRecord(variable, path string) error {
	var lines []string
	data, err := os.ReadFile(b.releaseLocal)
	if err == nil {
		lines = strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read %s: %w", b.releaseLocal, err)
	}

	entry := variable + "=" + path
	replaced := false
	for i, line := range lines {
		name, _, found := strings.Cut(line, "=")
		if found && strings.TrimSpace(name) == variable {
			lines[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		lines = append(lines, entry)
	}

	if err := os.MkdirAll(filepath.Dir(b.releaseLocal), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(b.releaseLocal), err)
	}
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(b.releaseLocal, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", b.releaseLocal, err)
	}
	return nil
}

// RunCheckoutReset implements Backend.
func (b *LocalBackend) RunCheckoutReset(path, subdirectory string) error {
	if _, err := os.Stat(filepath.Join(path, ".git")); err != nil {
		// Not a git checkout; nothing to reset.
		b.log.WithField("path", path).Debug("Skipping checkout reset for non-git path")
		return nil
	}
	return b.git.Run(path, "checkout", "--", subdirectory)
}

// ReleaseLocalPath returns the record file maintained by this backend.
func (b *LocalBackend) ReleaseLocalPath() string {
	return b.releaseLocal
}
