package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/modstack/modprep/pkg/conventions"
)

// Config holds all application configuration.
type Config struct {
	// CacheDir is where dependencies are materialized.
	CacheDir string `yaml:"cache_dir"`
	// SetDir is where generated version-descriptor files are stored.
	SetDir string `yaml:"set_dir"`
	// PlatformVariable is the build variable of the platform dependency.
	PlatformVariable string `yaml:"platform_variable"`
	// PlatformModuleName is the platform's module directory name.
	PlatformModuleName string `yaml:"platform_module_name"`
	// RepoOwner is the default repository owner for derived URLs.
	RepoOwner string `yaml:"repo_owner"`
	// RootPrefixes are the recognized module tree roots, in priority order.
	RootPrefixes []string `yaml:"root_prefixes"`
	// Overrides are the name-remapping tables for irregular modules.
	Overrides *conventions.Overrides `yaml:"overrides"`
	// ExtraPatchVariables are patched into configuration files in addition
	// to the resolved dependency paths (e.g. tool substitutions).
	ExtraPatchVariables map[string]string `yaml:"extra_patch_variables"`
	// IntrospectionVariables seed $(VAR) expansion when reading the build
	// target's configuration before the platform is materialized.
	IntrospectionVariables map[string]string `yaml:"introspection_variables"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// StatusAddr, when non-empty, serves /healthz, /metrics and /report.
	StatusAddr string `yaml:"status_addr"`
}

// Default returns the built-in defaults for the standard module tree.
func Default() *Config {
	return &Config{
		CacheDir:           "cache",
		SetDir:             filepath.Join("cache", "sets"),
		PlatformVariable:   "EPICS_BASE",
		PlatformModuleName: "epics-base",
		RepoOwner:          "slac-epics",
		RootPrefixes: []string{
			"/cds/group/pcds/epics",
			"/reg/g/pcds/epics",
		},
		Overrides: conventions.DefaultOverrides(),
		ExtraPatchVariables: map[string]string{
			"RE2C": "re2c",
		},
		IntrospectionVariables: map[string]string{
			"EPICS_BASE":     "/cds/group/pcds/epics/base/R7.0.2-2.0",
			"EPICS_SITE_TOP": "/cds/group/pcds",
			"EPICS_MODULES":  "/cds/group/pcds/epics/R7.0.2-2.0/modules",
		},
		LogLevel: "info",
	}
}

// Load assembles configuration from defaults, the optional site file named
// by MODPREP_CONFIG (or siteFile when non-empty), and the environment, in
// that order of increasing precedence.
func Load(siteFile string) (*Config, error) {
	cfg := Default()

	if siteFile == "" {
		siteFile = os.Getenv("MODPREP_CONFIG")
	}
	if siteFile != "" {
		if err := cfg.mergeFile(siteFile); err != nil {
			return nil, err
		}
	}
	cfg.mergeEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// mergeFile overlays settings from a YAML site file.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read site file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse site file %s: %w", path, err)
	}
	return nil
}

// mergeEnv overlays settings from MODPREP_* environment variables.
func (c *Config) mergeEnv() {
	c.CacheDir = getEnv("MODPREP_CACHE_DIR", c.CacheDir)
	c.SetDir = getEnv("MODPREP_SET_DIR", c.SetDir)
	c.PlatformVariable = getEnv("MODPREP_PLATFORM_VARIABLE", c.PlatformVariable)
	c.PlatformModuleName = getEnv("MODPREP_PLATFORM_MODULE_NAME", c.PlatformModuleName)
	c.RepoOwner = getEnv("MODPREP_REPO_OWNER", c.RepoOwner)
	c.RootPrefixes = getEnvList("MODPREP_ROOT_PREFIXES", c.RootPrefixes)
	c.LogLevel = getEnv("MODPREP_LOG_LEVEL", c.LogLevel)
	c.StatusAddr = getEnv("MODPREP_STATUS_ADDR", c.StatusAddr)
}

// Validate checks the assembled configuration.
func (c *Config) Validate() error {
	if c.CacheDir == "" {
		return fmt.Errorf("cache_dir must not be empty")
	}
	if c.PlatformVariable == "" {
		return fmt.Errorf("platform_variable must not be empty")
	}
	if c.PlatformModuleName == "" {
		return fmt.Errorf("platform_module_name must not be empty")
	}
	if len(c.RootPrefixes) == 0 {
		return fmt.Errorf("at least one root prefix is required")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return nil
}

// ModuleDir is the cache subdirectory holding materialized modules.
func (c *Config) ModuleDir() string {
	return filepath.Join(c.CacheDir, "modules")
}

// ReleaseLocal is the shared release record file maintained by the backend.
func (c *Config) ReleaseLocal() string {
	return filepath.Join(c.ModuleDir(), "RELEASE.local")
}

// getEnv returns an environment value or the fallback.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvList returns a comma-separated environment value or the fallback.
func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	list := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			list = append(list, trimmed)
		}
	}
	return list
}
