package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatchCommand(t *testing.T) {
	release := `EPICS_BASE=/old/base
MODULE_A ?= /old/a
# EPICS_BASE=/commented/out
`

	tests := []struct {
		name        string
		args        []string
		setupFiles  map[string]string
		wantErr     bool
		wantContent map[string]string
	}{
		{
			name:    "missing values",
			args:    []string{"test/RELEASE"},
			wantErr: true,
		},
		{
			name:    "missing files",
			args:    []string{"-values", "EPICS_BASE=/new/base"},
			wantErr: true,
		},
		{
			name:    "malformed pair",
			args:    []string{"-values", "NOEQUALS", "test/RELEASE"},
			wantErr: true,
		},
		{
			name: "rewrites matching assignments",
			args: []string{"-values", "EPICS_BASE=/new/base,MODULE_A=/new/a", "test/RELEASE"},
			setupFiles: map[string]string{
				"test/RELEASE": release,
			},
			wantContent: map[string]string{
				"test/RELEASE": `EPICS_BASE=/new/base
MODULE_A?=/new/a
# EPICS_BASE=/commented/out
`,
			},
		},
		{
			name: "unknown variables leave file alone",
			args: []string{"-values", "OTHER=/elsewhere", "test/RELEASE"},
			setupFiles: map[string]string{
				"test/RELEASE": release,
			},
			wantContent: map[string]string{
				"test/RELEASE": release,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testDir := t.TempDir()

			for path, content := range tt.setupFiles {
				fullPath := filepath.Join(testDir, path)
				require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0755))
				require.NoError(t, os.WriteFile(fullPath, []byte(content), 0644))
			}

			args := make([]string, len(tt.args))
			for i, arg := range tt.args {
				if arg == "test/RELEASE" {
					args[i] = filepath.Join(testDir, "test", "RELEASE")
				} else {
					args[i] = arg
				}
			}

			err := runPatch(args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			for path, want := range tt.wantContent {
				data, err := os.ReadFile(filepath.Join(testDir, path))
				require.NoError(t, err)
				assert.Equal(t, want, string(data))
			}
		})
	}
}

func TestParsePairs(t *testing.T) {
	values, err := parsePairs("A=/x, B=/y ,C=")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "/x", "B": "/y", "C": ""}, values)

	_, err = parsePairs("=nokey")
	assert.Error(t, err)
}
