package patch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// operators in priority order; the longer ones must come first because "="
// is a substring of both.
var operators = []string{"?=", ":=", "="}

// Patcher rewrites assignment lines in configuration files.
type Patcher struct {
	log *logrus.Entry
}

// NewPatcher creates a patcher logging through the given entry.
func NewPatcher(log *logrus.Entry) *Patcher {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Patcher{log: log}
}

// PatchFile rewrites assignments of variables present in values and returns
// the set of updated variable names. The file is written back only when at
// least one line changed.
func (p *Patcher) PatchFile(path string, values map[string]string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	var updated []string
	for i, line := range lines {
		fixed, variable := fixLine(line, values)
		if variable != "" {
			lines[i] = fixed
			updated = append(updated, variable)
		}
	}

	if len(updated) == 0 {
		p.log.WithField("file", path).Debug("Configuration file left unchanged")
		return nil, nil
	}

	p.log.WithFields(logrus.Fields{
		"file":      path,
		"variables": strings.Join(updated, ", "),
	}).Warn("Patching configuration file")

	info, err := os.Stat(path)
	mode := fs.FileMode(0644)
	if err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), mode); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return updated, nil
}

// PatchFiles patches each file in turn. Per-file failures are logged and do
// not stop the batch; the combined set of updated variable names is
// returned along with the number of files actually rewritten and the number
// that failed.
func (p *Patcher) PatchFiles(paths []string, values map[string]string) (updated []string, patched, failed int) {
	for _, path := range paths {
		names, err := p.PatchFile(path, values)
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				p.log.WithField("file", path).WithError(err).
					Error("Failed to patch configuration file due to permissions")
			} else {
				p.log.WithField("file", path).WithError(err).
					Error("Failed to patch configuration file")
			}
			failed++
			continue
		}
		if len(names) > 0 {
			patched++
			updated = append(updated, names...)
		}
	}
	return updated, patched, failed
}

// fixLine rewrites a single line when it assigns a patched variable. The
// second return value is the variable name when the line was rewritten and
// "" otherwise.
func fixLine(line string, values map[string]string) (string, string) {
	if line == "" {
		return line, ""
	}
	switch line[0] {
	case ' ', '\t', '#':
		return line, ""
	}

	for _, op := range operators {
		idx := strings.Index(line, op)
		if idx < 0 {
			continue
		}
		variable := strings.TrimSpace(line[:idx])
		value, ok := values[variable]
		if !ok {
			return line, ""
		}
		fixed := variable + op + value
		if fixed == line {
			// Already correct; not an update.
			return line, ""
		}
		return fixed, variable
	}
	return line, ""
}
