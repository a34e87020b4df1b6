package cli

import (
	"flag"
	"fmt"

	"github.com/modstack/modprep/pkg/config"
)

func newOrderCommand() *Command {
	cmd := &Command{
		Name:        "order",
		Description: "Resolve dependencies and print the build order",
		Flags:       flag.NewFlagSet("order", flag.ExitOnError),
		Run:         runOrder,
	}

	cmd.Flags.String("target", "", "Build target directory")
	cmd.Flags.String("platform", "", "Platform tag to prepare against")
	cmd.Flags.String("config", "", "Site configuration file")

	return cmd
}

func runOrder(args []string) error {
	cmd := newOrderCommand()
	if err := cmd.Flags.Parse(args); err != nil {
		return err
	}

	target := cmd.Flags.Lookup("target").Value.String()
	platform := cmd.Flags.Lookup("platform").Value.String()
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
	for _, variable := range result.Order {
		fmt.Println(variable)
	}
	if result.Degraded {
		return fmt.Errorf("build order is degraded; stuck variables: %v", result.Stuck)
	}
	return nil
}
