package cli

import (
	"flag"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/modstack/modprep/pkg/patch"
)

func newPatchCommand() *Command {
	cmd := &Command{
		Name:        "patch",
		Description: "Rewrite variable assignments in configuration files",
		Flags:       flag.NewFlagSet("patch", flag.ExitOnError),
		Run:         runPatch,
	}

	cmd.Flags.String("values", "", "Comma-separated VARIABLE=value pairs to apply")

	return cmd
}

func runPatch(args []string) error {
	cmd := newPatchCommand()
	if err := cmd.Flags.Parse(args); err != nil {
		return err
	}

	values, err := parsePairs(cmd.Flags.Lookup("values").Value.String())
	if err != nil {
		return err
	}
	files := cmd.Flags.Args()
	if len(values) == 0 || len(files) == 0 {
		return fmt.Errorf("values and at least one file are required")
	}

	patcher := patch.NewPatcher(logrus.NewEntry(logrus.StandardLogger()))
	updated, patched, failed := patcher.PatchFiles(files, values)
	fmt.Printf("Patched %d of %d files (%d variables updated)\n",
		patched, len(files), len(updated))
	if failed > 0 {
		return fmt.Errorf("%d files could not be patched", failed)
	}
	return nil
}

func parsePairs(spec string) (map[string]string, error) {
	values := make(map[string]string)
	for _, pair := range strings.Split(spec, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, value, found := strings.Cut(pair, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("invalid variable pair %q", pair)
		}
		values[name] = value
	}
	return values, nil
}
