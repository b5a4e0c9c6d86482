package catalog_test

import (
	"github.com/ceotarot/ceotarot/internal/catalog"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)
	require.NotEmpty(t, c.Version())
	require.Equal(t, 3, c.Len())

	all := c.All()
	require.Equal(t, "cashflow", all[0].ID)

	s, err := c.Get("people")
	require.NoError(t, err)
	require.Equal(t, "Three of Swords", s.Tarot.Name)
	require.Contains(t, s.EmotionalContent.Content, "\n")
	require.NotEmpty(t, s.Tarot.ImagePrompt)

	_, err = c.Get("missing")
	require.ErrorIs(t, err, catalog.ErrScenarioNotFound)

	// Mutating the copy must not affect the catalog.
	all[0].ID = "changed"
	require.Equal(t, "cashflow", c.All()[0].ID)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		wantLen int
	}{
		{
			name: "minimal scenario",
			input: `
version = "1"
[[scenarios]]
id = "one"
question = "q"
[scenarios.tarot]
name = "The Fool"
[scenarios.rational_solution]
title = "t"
[scenarios.emotional_content]
content = "line"
`,
			wantLen: 1,
		},
		{
			name:    "no scenarios",
			input:   `version = "1"`,
			wantErr: catalog.ErrInvalidCatalog,
		},
		{
			name: "duplicate ids",
			input: `
[[scenarios]]
id = "one"
question = "q"
tarot = { name = "The Fool" }
rational_solution = { title = "t" }
emotional_content = { content = "line" }
[[scenarios]]
id = "one"
question = "q"
tarot = { name = "The Fool" }
rational_solution = { title = "t" }
emotional_content = { content = "line" }
`,
			wantErr: catalog.ErrInvalidCatalog,
		},
		{
			name: "invalid id",
			input: `
[[scenarios]]
id = "Has Spaces"
question = "q"
tarot = { name = "The Fool" }
rational_solution = { title = "t" }
emotional_content = { content = "line" }
`,
			wantErr: catalog.ErrInvalidCatalog,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := catalog.Decode(strings.NewReader(tt.input))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantLen, c.Len())
		})
	}
}

func TestValidateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.toml")
	err := os.WriteFile(path, []byte(`
version = "1"
[[scenarios]]
id = "one"
question = "q"
mood = "gloomy"
tarot = { name = "The Fool" }
rational_solution = { title = "t" }
emotional_content = { content = "" }
`), 0o600)
	require.NoError(t, err)

	results, err := catalog.ValidateFile(path)
	require.NoError(t, err)
	require.False(t, results.Valid())
	require.Len(t, results.Errors, 1)
	require.Contains(t, results.Errors[0], "emotional content")
	require.Contains(t, strings.Join(results.Warnings, "\n"), "mood")
	require.Contains(t, strings.Join(results.Warnings, "\n"), "placeholder")

	_, err = catalog.Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)

	c, err := catalog.Load("")
	require.NoError(t, err)
	require.Positive(t, c.Len())
}
