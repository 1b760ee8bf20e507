package emit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccport/ccport/convert"
)

func TestSync_LinksSkills(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(t.TempDir(), "debugging")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "SKILL.md"), []byte("body"), 0o644))

	b := &convert.Bundle{
		Target:    opencodeTarget(t),
		SkillDirs: []convert.SkillDirRef{{ID: "debugging", SourceDir: src}},
	}

	warnings, err := Sync(root, b)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	link := filepath.Join(root, "skills", "debugging")
	resolved, err := os.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, src, resolved)

	// Syncing again replaces the link without error.
	_, err = Sync(root, b)
	require.NoError(t, err)
}

func TestSync_RejectsUnsafeNames(t *testing.T) {
	root := t.TempDir()

	b := &convert.Bundle{
		Target: opencodeTarget(t),
		SkillDirs: []convert.SkillDirRef{
			{ID: "../escape", SourceDir: t.TempDir()},
			{ID: "has space", SourceDir: t.TempDir()},
		},
	}

	warnings, err := Sync(root, b)
	require.NoError(t, err)
	require.Len(t, warnings, 2)
	for _, w := range warnings {
		assert.Equal(t, convert.WarnInvalidSkillName, w.Kind)
	}

	// Nothing was created under the skills directory.
	assert.NoDirExists(t, filepath.Join(root, "skills"))
	assert.NoFileExists(t, filepath.Join(root, "escape"))
}

func TestSync_MergesServers(t *testing.T) {
	root := t.TempDir()
	cfgPath := filepath.Join(root, "opencode.json")

	existing := `{
  "theme": "dark",
  "mcp": {
    "keep": {"type": "stdio", "command": "keep-srv"},
    "local": {"type": "stdio", "command": "stale"}
  }
}`
	require.NoError(t, os.WriteFile(cfgPath, []byte(existing), 0o644))

	b := &convert.Bundle{
		Target: opencodeTarget(t),
		Servers: map[string]convert.ServerEntry{
			"local": {Type: "stdio", Command: "fresh", Tools: []string{"*"}},
		},
	}

	_, err := Sync(root, b)
	require.NoError(t, err)

	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	var cfg map[string]any
	require.NoError(t, json.Unmarshal(data, &cfg))

	// Unrelated keys survive; colliding entries are replaced; existing
	// entries without a new value are kept.
	assert.Equal(t, "dark", cfg["theme"])
	servers := cfg["mcp"].(map[string]any)
	assert.Equal(t, "keep-srv", servers["keep"].(map[string]any)["command"])
	assert.Equal(t, "fresh", servers["local"].(map[string]any)["command"])

	info, err := os.Stat(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestSync_NoServersTouchesNothing(t *testing.T) {
	root := t.TempDir()
	cfgPath := filepath.Join(root, "opencode.json")
	original := `{"mcp": {}}`
	require.NoError(t, os.WriteFile(cfgPath, []byte(original), 0o644))

	b := &convert.Bundle{Target: opencodeTarget(t)}
	_, err := Sync(root, b)
	require.NoError(t, err)

	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, original, string(data))

	info, err := os.Stat(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestSync_MalformedExistingConfig(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "opencode.json"), []byte("not json"), 0o644))

	b := &convert.Bundle{
		Target:  opencodeTarget(t),
		Servers: map[string]convert.ServerEntry{"s": {Type: "stdio", Command: "c"}},
	}

	_, err := Sync(root, b)
	assert.Error(t, err)
}
