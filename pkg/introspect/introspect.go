package introspect

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"

	"github.com/modstack/modprep/pkg/depgraph"
)

// ErrNoConfigFile is returned when no configuration entry point exists
// under a module path.
var ErrNoConfigFile = errors.New("no build configuration file found")

// configFileCandidates are tried in order under a module directory.
var configFileCandidates = []string{
	filepath.Join("configure", "RELEASE"),
	"RELEASE",
	"Makefile",
}

var variableRef = regexp.MustCompile(`\$\(([A-Za-z_][A-Za-z0-9_]*)\)`)

// assignment is one parsed variable assignment.
type assignment struct {
	name  string
	value string
}

// parsedFile caches the result of reading one configuration file tree.
type parsedFile struct {
	assignments []assignment
	files       []string
}

const (
	cacheSize = 256
	cacheTTL  = time.Minute
	// maxIncludeDepth bounds include recursion; release files nest two or
	// three levels at most in practice.
	maxIncludeDepth = 8
)

// Scanner introspects release configuration files.
type Scanner struct {
	// seed variables available to $(VAR) expansion before any assignment
	// is read, e.g. the platform paths used by the build system makefiles.
	seed  map[string]string
	cache *lru.LRU[string, *parsedFile]
	log   *logrus.Entry
}

// NewScanner creates a scanner with the given seed variables.
func NewScanner(seed map[string]string, log *logrus.Entry) *Scanner {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Scanner{
		seed:  seed,
		cache: lru.NewLRU[string, *parsedFile](cacheSize, nil, cacheTTL),
		log:   log,
	}
}

// SetSeed replaces the seed variables. Used once the platform has been
// materialized and its real paths are known. The file cache holds raw,
// unexpanded assignments, so it stays valid across seed changes.
func (s *Scanner) SetSeed(seed map[string]string) {
	s.seed = seed
}

// LocateConfigFile finds the configuration entry point for a module path.
// A path that is already a regular file is used as-is.
func (s *Scanner) LocateConfigFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("cannot locate configuration for %s: %w", path, err)
	}
	if info.Mode().IsRegular() {
		return path, nil
	}
	for _, candidate := range configFileCandidates {
		full := filepath.Join(path, candidate)
		if info, err := os.Stat(full); err == nil && info.Mode().IsRegular() {
			return full, nil
		}
	}
	return "", fmt.Errorf("%w under %s", ErrNoConfigFile, path)
}

// BuildNode parses the configuration file and produces the dependency node
// for the given build variable. Variables whose expanded value is an
// absolute path are classified: existing paths are resolved dependencies,
// absent ones are missing references.
func (s *Scanner) BuildNode(configFile, variableName string) (*depgraph.Node, error) {
	moduleRoot := moduleRootFor(configFile)

	vars := make(map[string]string, len(s.seed)+8)
	for key, value := range s.seed {
		vars[key] = value
	}
	vars["TOP"] = moduleRoot

	parsed, err := s.parseFile(configFile, vars, 0)
	if err != nil {
		return nil, err
	}

	node := depgraph.NewNode(variableName)
	for _, file := range parsed.files {
		rel, err := filepath.Rel(moduleRoot, file)
		if err != nil {
			rel = file
		}
		node.ConfigFiles = append(node.ConfigFiles, rel)
	}

	for _, a := range parsed.assignments {
		if !filepath.IsAbs(a.value) {
			continue
		}
		if a.name == "TOP" {
			continue
		}
		if _, err := os.Stat(a.value); err == nil {
			node.Resolved[a.name] = a.value
		} else {
			node.Missing[a.name] = a.value
		}
	}
	return node, nil
}

// parseFile reads one file (through the cache), expanding and accumulating
// assignments into vars, and follows include directives.
func (s *Scanner) parseFile(path string, vars map[string]string, depth int) (*parsedFile, error) {
	if depth > maxIncludeDepth {
		return nil, fmt.Errorf("include depth exceeded at %s", path)
	}

	raw, err := s.readFile(path)
	if err != nil {
		return nil, err
	}

	result := &parsedFile{files: []string{path}}
	for _, a := range raw.assignments {
		value := expand(a.value, vars)
		if a.name == "include" || a.name == "-include" {
			for _, included := range strings.Fields(value) {
				sub, err := s.parseFile(included, vars, depth+1)
				if err != nil {
					// Conditional includes reference files that may not
					// exist yet; that is not an error.
					s.log.WithFields(logrus.Fields{
						"file":     path,
						"included": included,
					}).Debug("Skipping unreadable include")
					continue
				}
				result.assignments = append(result.assignments, sub.assignments...)
				result.files = append(result.files, sub.files...)
			}
			continue
		}
		vars[a.name] = value
		result.assignments = append(result.assignments, assignment{name: a.name, value: value})
	}
	return result, nil
}

// readFile parses raw assignments and include directives from one file,
// consulting the LRU cache first.
func (s *Scanner) readFile(path string) (*parsedFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("%s@%d", path, info.ModTime().UnixNano())
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	parsed := &parsedFile{}
	for _, line := range strings.Split(string(data), "\n") {
		if line == "" || line[0] == '#' || line[0] == ' ' || line[0] == '\t' {
			continue
		}
		if rest, ok := strings.CutPrefix(line, "include "); ok {
			parsed.assignments = append(parsed.assignments, assignment{name: "include", value: strings.TrimSpace(rest)})
			continue
		}
		if rest, ok := strings.CutPrefix(line, "-include "); ok {
			parsed.assignments = append(parsed.assignments, assignment{name: "-include", value: strings.TrimSpace(rest)})
			continue
		}
		name, value, ok := splitAssignment(line)
		if !ok {
			continue
		}
		parsed.assignments = append(parsed.assignments, assignment{name: name, value: value})
	}

	s.cache.Add(key, parsed)
	return parsed, nil
}

// splitAssignment splits NAME<op>VALUE with op one of ?=, :=, =. Longer
// operators are tried first.
func splitAssignment(line string) (name, value string, ok bool) {
	for _, op := range []string{"?=", ":=", "="} {
		idx := strings.Index(line, op)
		if idx < 0 {
			continue
		}
		name = strings.TrimSpace(line[:idx])
		value = strings.TrimSpace(line[idx+len(op):])
		if name == "" || strings.ContainsAny(name, " \t") {
			return "", "", false
		}
		return name, value, true
	}
	return "", "", false
}

// expand substitutes $(VAR) references from vars. Unknown references expand
// to the empty string, matching make's behavior for undefined variables.
func expand(value string, vars map[string]string) string {
	return variableRef.ReplaceAllStringFunc(value, func(ref string) string {
		name := ref[2 : len(ref)-1]
		return vars[name]
	})
}

// moduleRootFor derives the module root from a configuration file path:
// the parent directory, or its parent when the file lives in configure/.
func moduleRootFor(configFile string) string {
	dir := filepath.Dir(configFile)
	if filepath.Base(dir) == "configure" {
		return filepath.Dir(dir)
	}
	return dir
}
