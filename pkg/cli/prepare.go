package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/modstack/modprep/pkg/config"
)

func newPrepareCommand() *Command {
	cmd := &Command{
		Name:        "prepare",
		Description: "Resolve dependencies, write the version set, and patch configuration files",
		Flags:       flag.NewFlagSet("prepare", flag.ExitOnError),
		Run:         runPrepare,
	}

	cmd.Flags.String("target", "", "Build target directory")
	cmd.Flags.String("platform", "", "Platform tag to prepare against")
	cmd.Flags.String("name", "defaults", "Version set name")
	cmd.Flags.String("config", "", "Site configuration file")
	cmd.Flags.Bool("json", false, "Print the run report as JSON")

	return cmd
}

func runPrepare(args []string) error {
	cmd := newPrepareCommand()
	if err := cmd.Flags.Parse(args); err != nil {
		return err
	}

	target := cmd.Flags.Lookup("target").Value.String()
	platform := cmd.Flags.Lookup("platform").Value.String()
	name := cmd.Flags.Lookup("name").Value.String()
	configFile := cmd.Flags.Lookup("config").Value.String()
	asJSON := cmd.Flags.Lookup("json").Value.String() == "true"

	if target == "" || platform == "" {
		return fmt.Errorf("target and platform are required")
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	preparer := newPreparer(cfg, target)
	report, err := preparer.Run(platform, name)
	if err != nil {
		return fmt.Errorf("preparation failed: %w", err)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Printf("Prepared %s against %s: %d modules, %d files patched\n",
		target, platform, len(report.Modules), report.FilesPatched)
	fmt.Printf("Build order: %v\n", report.Order)
	fmt.Printf("Version set: %s\n", report.SetFile)
	if report.Degraded {
		fmt.Printf("Warning: build order is degraded; stuck variables: %v\n", report.Stuck)
	}
	return nil
}
