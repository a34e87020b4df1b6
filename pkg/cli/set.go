package cli

import (
	"flag"
	"fmt"

	"github.com/modstack/modprep/pkg/config"
)

func newSetCommand() *Command {
	cmd := &Command{
		Name:        "set",
		Description: "Resolve dependencies and write a version-descriptor file",
		Flags:       flag.NewFlagSet("set", flag.ExitOnError),
		Run:         runSet,
	}

	cmd.Flags.String("target", "", "Build target directory")
	cmd.Flags.String("platform", "", "Platform tag to prepare against")
	cmd.Flags.String("name", "defaults", "Version set name")
	cmd.Flags.String("config", "", "Site configuration file")

	return cmd
}

func runSet(args []string) error {
	cmd := newSetCommand()
	if err := cmd.Flags.Parse(args); err != nil {
		return err
	}

	target := cmd.Flags.Lookup("target").Value.String()
	platform := cmd.Flags.Lookup("platform").Value.String()
	name := cmd.Flags.Lookup("name").Value.String()
	configFile := cmd.Flags.Lookup("config").Value.String()

	if target == "" || platform == "" {
		return fmt.Errorf("target and platform are required")
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	preparer := newPreparer(cfg, target)
	if err := preparer.UsePlatform(platform); err != nil {
		return err
	}
	if err := preparer.FindAllDependencies(); err != nil {
		return err
	}

	result := preparer.BuildOrder()
	setFile, err := preparer.WriteVersionSet(name, result.Order)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote version set %s\n", setFile)
	return nil
}
