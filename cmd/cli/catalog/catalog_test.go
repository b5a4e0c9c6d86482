package catalog_test

import (
	"bytes"
	"github.com/ceotarot/ceotarot/cmd/cli/catalog"
	"github.com/ceotarot/ceotarot/internal/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	root := &cobra.Command{Use: "test", SilenceUsage: true, SilenceErrors: true}
	root.AddGroup(catalog.Group)
	root.AddCommand(cmd)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{cmd.Name()}, args...))
	err := root.Execute()
	root.RemoveCommand(cmd)
	return out.String(), err
}

func TestValidate(t *testing.T) {
	t.Run("embedded", func(t *testing.T) {
		out, err := execute(t, catalog.Validate)
		require.NoError(t, err)
		assert.Contains(t, out, "embedded catalog")
	})

	t.Run("invalid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.toml")
		require.NoError(t, os.WriteFile(path, []byte("version = \"x\"\n"), 0o600))
		out, err := execute(t, catalog.Validate, path)
		require.Error(t, err)
		assert.True(t, errors.Is(err, catalog.ErrInvalid))
		assert.Contains(t, out, "error: catalog has no scenarios")
	})

	t.Run("syntax error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.toml")
		require.NoError(t, os.WriteFile(path, []byte("version = "), 0o600))
		_, err := execute(t, catalog.Validate, path)
		require.Error(t, err)
		assert.False(t, errors.Is(err, catalog.ErrInvalid))
	})
}

func TestList(t *testing.T) {
	out, err := execute(t, catalog.List)
	require.NoError(t, err)
	assert.Contains(t, out, "cashflow")
	assert.Contains(t, out, "The Wheel of Fortune")
}
