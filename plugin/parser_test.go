package plugin

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrontmatter(t *testing.T) {
	tests := []struct {
		name            string
		input           string
		wantFrontmatter string
		wantContent     string
	}{
		{
			name: "valid frontmatter",
			input: `---
description: Test command
---
This is the content.`,
			wantFrontmatter: "description: Test command",
			wantContent:     "This is the content.",
		},
		{
			name:            "no frontmatter",
			input:           "Just content without frontmatter.",
			wantFrontmatter: "",
			wantContent:     "Just content without frontmatter.",
		},
		{
			name: "frontmatter without closing delimiter",
			input: `---
description: Test
This is content`,
			wantFrontmatter: "",
			wantContent: `---
description: Test
This is content`,
		},
		{
			name:            "empty input",
			input:           "",
			wantFrontmatter: "",
			wantContent:     "",
		},
		{
			name: "frontmatter with multiple fields",
			input: `---
description: Multi-field
allowed-tools:
  - tool1
  - tool2
---
Content after frontmatter.`,
			wantFrontmatter: "description: Multi-field\nallowed-tools:\n  - tool1\n  - tool2",
			wantContent:     "Content after frontmatter.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm, content, err := parseFrontmatter([]byte(tt.input))

			require.NoError(t, err)
			assert.Equal(t, tt.wantFrontmatter, string(fm))
			assert.Equal(t, tt.wantContent, content)
		})
	}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		cmdName  string
		content  string
		want     Command
	}{
		{
			name:     "command with full frontmatter",
			filename: "plan.md",
			cmdName:  "workflows:plan",
			content: `---
description: Plan a feature
argument-hint: "<feature description>"
allowed-tools:
  - Read
  - Grep
model: sonnet
disable-model-invocation: true
---
Plan the work for $ARGUMENTS.`,
			want: Command{
				Name:                   "workflows:plan",
				Description:            "Plan a feature",
				ArgumentHint:           "<feature description>",
				AllowedTools:           []string{"Read", "Grep"},
				Model:                  "sonnet",
				DisableModelInvocation: true,
				Content:                "Plan the work for $ARGUMENTS.",
			},
		},
		{
			name:     "command without frontmatter",
			filename: "simple.md",
			cmdName:  "simple",
			content:  "Just say hello.",
			want: Command{
				Name:    "simple",
				Content: "Just say hello.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			path := filepath.Join(tmpDir, tt.filename)
			err := os.WriteFile(path, []byte(tt.content), 0o644)
			require.NoError(t, err)

			cmd, err := ParseCommand(path, tt.cmdName)

			require.NoError(t, err)
			tt.want.FilePath = path
			assert.Equal(t, tt.want, *cmd)
		})
	}
}

func TestParseCommand_FileNotFound(t *testing.T) {
	_, err := ParseCommand("/nonexistent/path/command.md", "command")
	assert.Error(t, err)
}

func TestParseAgent(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
		want     Agent
	}{
		{
			name:     "agent with capabilities and model",
			filename: "helper.md",
			content: `---
name: Code Reviewer
description: Reviews code
capabilities:
  - Spot bugs
  - Suggest refactors
model: opus
---
You are a careful reviewer.`,
			want: Agent{
				Name:         "Code Reviewer",
				Description:  "Reviews code",
				Capabilities: []string{"Spot bugs", "Suggest refactors"},
				Model:        "opus",
				Content:      "You are a careful reviewer.",
			},
		},
		{
			name:     "agent name from filename",
			filename: "simple.md",
			content:  "A simple agent.",
			want: Agent{
				Name:    "simple",
				Content: "A simple agent.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			path := filepath.Join(tmpDir, tt.filename)
			err := os.WriteFile(path, []byte(tt.content), 0o644)
			require.NoError(t, err)

			agent, err := ParseAgent(path)

			require.NoError(t, err)
			tt.want.FilePath = path
			assert.Equal(t, tt.want, *agent)
		})
	}
}

func TestParseSkill(t *testing.T) {
	tmpDir := t.TempDir()
	skillDir := filepath.Join(tmpDir, "code-review")
	require.NoError(t, os.MkdirAll(skillDir, 0o755))

	content := `---
description: Code review skill
---
Review the code for issues.`
	require.NoError(t, os.WriteFile(filepath.Join(skillDir, "SKILL.md"), []byte(content), 0o644))

	skill, err := ParseSkill(skillDir)

	require.NoError(t, err)
	assert.Equal(t, "code-review", skill.Name)
	assert.Equal(t, "Code review skill", skill.Description)
	assert.Equal(t, skillDir, skill.SourceDir)
}

func TestParseSkill_MissingFile(t *testing.T) {
	tmpDir := t.TempDir()
	skillDir := filepath.Join(tmpDir, "empty-skill")
	require.NoError(t, os.MkdirAll(skillDir, 0o755))

	_, err := ParseSkill(skillDir)
	assert.Error(t, err)
}

func TestMCPServerUnmarshal(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantErr   bool
		wantStdio bool
		wantHTTP  bool
	}{
		{
			name:      "command based",
			input:     `{"command": "node", "args": ["server.js"], "env": {"API_KEY": "x"}}`,
			wantStdio: true,
		},
		{
			name:     "url based",
			input:    `{"url": "https://example.com/mcp", "headers": {"Authorization": "Bearer x"}}`,
			wantHTTP: true,
		},
		{
			name:    "both command and url",
			input:   `{"command": "node", "url": "https://example.com"}`,
			wantErr: true,
		},
		{
			name:    "neither command nor url",
			input:   `{"env": {"A": "b"}}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s MCPServer
			err := json.Unmarshal([]byte(tt.input), &s)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStdio, s.Stdio != nil)
			assert.Equal(t, tt.wantHTTP, s.HTTP != nil)
		})
	}
}
