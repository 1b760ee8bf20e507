package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRewriter(t *testing.T) *Rewriter {
	t.Helper()
	target, ok := Lookup("opencode")
	require.True(t, ok)
	return NewRewriter(target)
}

func TestRewrite_Delegation(t *testing.T) {
	rw := testRewriter(t)

	got := rw.Rewrite(`Run Task(Code Reviewer: "check the diff") first.`)
	assert.Equal(t, `Run Ask the code-reviewer agent to handle: "check the diff" first.`, got)
}

func TestRewrite_SlashFlattening(t *testing.T) {
	rw := testRewriter(t)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"namespaced reference", "Use /workflows:plan here.", "Use /plan here."},
		{"deep namespace keeps last segment", "See /a:b:c.", "See /c."},
		{"plain reference untouched", "Use /plan here.", "Use /plan here."},
		{"reserved filesystem root untouched", "Mount at /etc:ro please.", "Mount at /etc:ro please."},
		{"real path untouched", "Look in /usr/local/bin.", "Look in /usr/local/bin."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rw.Rewrite(tt.in))
		})
	}
}

func TestRewrite_PathPrefixes(t *testing.T) {
	rw := testRewriter(t)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"home form", "Edit ~/.claude/settings.json.", "Edit ~/.config/opencode/settings.json."},
		{"project form", "Check .claude/agents for files.", "Check .opencode/agents for files."},
		{"plugin dir untouched", "Read .claude-plugin/plugin.json.", "Read .claude-plugin/plugin.json."},
		{"end of text", "Config lives in .claude", "Config lives in .opencode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rw.Rewrite(tt.in))
		})
	}
}

func TestRewrite_Mentions(t *testing.T) {
	rw := testRewriter(t)

	got := rw.Rewrite("Delegate to @security-reviewer when unsure.")
	assert.Equal(t, "Delegate to the security-reviewer agent when unsure.", got)

	// Plain mentions without a role suffix stay as they are.
	got = rw.Rewrite("Ping @alice about it.")
	assert.Equal(t, "Ping @alice about it.", got)
}

func TestRewrite_Idempotent(t *testing.T) {
	rw := testRewriter(t)

	in := `Start with Task(planner-agent: "draft a plan"), then run
/workflows:plan against ~/.claude/settings.json and .claude/agents,
and loop in @security-reviewer. Keep /tmp/scratch and /etc:ro as-is.`

	once := rw.Rewrite(in)
	twice := rw.Rewrite(once)
	assert.Equal(t, once, twice)
}

func TestRewrite_GeminiPaths(t *testing.T) {
	target, ok := Lookup("gemini")
	require.True(t, ok)
	rw := NewRewriter(target)

	got := rw.Rewrite("Copy ~/.claude/CLAUDE.md and .claude/commands.")
	assert.Equal(t, "Copy ~/.gemini/CLAUDE.md and .gemini/commands.", got)
}
