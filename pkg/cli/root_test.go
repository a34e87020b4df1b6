package cli

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandSubcommands(t *testing.T) {
	root := NewRootCommand()
	for _, name := range []string{"prepare", "order", "set", "patch"} {
		cmd, ok := root.Subcommands[name]
		require.True(t, ok, "missing subcommand %s", name)
		assert.Equal(t, name, cmd.Name)
		assert.NotNil(t, cmd.Run)
		assert.NotEmpty(t, cmd.Description)
	}
}

func TestRootCommandUnknown(t *testing.T) {
	root := NewRootCommand()

	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"modprep", "bogus"}

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestResolvingCommandsRequireTargetAndPlatform(t *testing.T) {
	tests := []struct {
		name string
		run  func(args []string) error
		args []string
	}{
		{name: "prepare without flags", run: runPrepare, args: nil},
		{name: "prepare without platform", run: runPrepare, args: []string{"-target", "./ioc"}},
		{name: "order without flags", run: runOrder, args: nil},
		{name: "set without target", run: runSet, args: []string{"-platform", "R7.0.2-2.0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run(tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "required")
		})
	}
}
