package cli

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/modstack/modprep/pkg/buildexec"
	"github.com/modstack/modprep/pkg/config"
	"github.com/modstack/modprep/pkg/introspect"
	"github.com/modstack/modprep/pkg/observability"
	"github.com/modstack/modprep/pkg/prepare"
)

// newPreparer wires a preparer from site configuration. Every resolving
// subcommand goes through here so they share identical construction.
func newPreparer(cfg *config.Config, target string) *prepare.Preparer {
	logger := observability.NewLogger(cfg.LogLevel, os.Stderr)
	log := logrus.NewEntry(logger)

	settings := buildexec.NewSettings(log)
	scanner := introspect.NewScanner(cfg.IntrospectionVariables, log)
	backend := buildexec.NewLocalBackend(settings, cfg.ReleaseLocal(), nil, log)

	return prepare.New(cfg, target, scanner, backend, settings, nil, logger)
}
