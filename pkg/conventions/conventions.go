package conventions

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// ModuleIdentity identifies one dependency's on-disk materialization.
// It is derived from a path match, except for the platform dependency,
// which the caller constructs explicitly. Immutable once created.
type ModuleIdentity struct {
	// Base is the platform release the module belongs to.
	Base string `json:"base" yaml:"base"`
	// Name is the module's directory name.
	Name string `json:"name" yaml:"name"`
	// Tag is the module's version tag.
	Tag string `json:"tag" yaml:"tag"`
}

// String returns a compact identity description for logs.
func (m ModuleIdentity) String() string {
	return fmt.Sprintf("%s/%s@%s", m.Base, m.Name, m.Tag)
}

// DirName returns the flattened cache directory name for the identity,
// "<name>-<tag>". Any "-branch" marker in the tag is stripped so branch
// and tag checkouts of the same version share a materialization.
func (m ModuleIdentity) DirName() string {
	tag := strings.ReplaceAll(m.Tag, "-branch", "")
	return m.Name + "-" + tag
}

// Parser matches filesystem paths against an ordered list of directory
// templates. The template list is fixed at construction; patterns are
// anchored to the full absolute path and tried in registration order.
type Parser struct {
	patterns []*regexp.Regexp
}

// NewParser builds a parser for the given root prefixes. Multiple roots
// support historical mount points for the same tree; the first matching
// root wins.
func NewParser(rootPrefixes []string) *Parser {
	patterns := make([]*regexp.Regexp, 0, len(rootPrefixes))
	for _, root := range rootPrefixes {
		patterns = append(patterns, regexp.MustCompile(
			"^"+regexp.QuoteMeta(strings.TrimRight(root, "/"))+
				`/(?P<base>[^/]+)/modules/(?P<name>[^/]+)/(?P<tag>[^/]+)/?`,
		))
	}
	return &Parser{patterns: patterns}
}

// Parse attempts each registered template against the path and returns the
// first successful extraction. The second return value reports whether any
// template matched; a non-match is an expected outcome, not an error.
//
// The path is resolved to an absolute, symlink-free form before matching
// when possible. Paths that do not exist are matched as given.
func (p *Parser) Parse(path string) (ModuleIdentity, bool) {
	resolved := resolvePath(path)
	for _, pattern := range p.patterns {
		match := pattern.FindStringSubmatch(resolved)
		if match == nil {
			continue
		}
		id := ModuleIdentity{}
		for i, name := range pattern.SubexpNames() {
			switch name {
			case "base":
				id.Base = match[i]
			case "name":
				id.Name = match[i]
			case "tag":
				id.Tag = match[i]
			}
		}
		return id, true
	}
	return ModuleIdentity{}, false
}

// resolvePath normalizes a path for matching. Symlink resolution is
// best-effort: referenced dependency paths frequently do not exist locally.
func resolvePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if eval, err := filepath.EvalSymlinks(abs); err == nil {
		return eval
	}
	return abs
}
