package plugin

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Load loads a Claude Code-style plugin from the given path.
// The path should point to the plugin root directory containing .claude-plugin/plugin.json.
func Load(path string) (*Plugin, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("accessing plugin path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("plugin path must be a directory: %s", absPath)
	}

	manifestPath := filepath.Join(absPath, ".claude-plugin", "plugin.json")
	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("loading manifest: %w", err)
	}

	p := &Plugin{
		Name:        manifest.Name,
		Description: manifest.Description,
		Version:     manifest.Version,
		RootPath:    absPath,
		MCPServers:  make(map[string]MCPServer),
	}

	if manifest.Author != nil {
		p.Author = *manifest.Author
	}

	commandsDir := filepath.Join(absPath, "commands")
	if manifest.Commands != "" {
		commandsDir = filepath.Join(absPath, manifest.Commands)
	}
	if commands, err := loadCommands(commandsDir); err == nil {
		p.Commands = commands
	}

	agentsDir := filepath.Join(absPath, "agents")
	if manifest.Agents != "" {
		agentsDir = filepath.Join(absPath, manifest.Agents)
	}
	if agents, err := loadAgents(agentsDir); err == nil {
		p.Agents = agents
	}

	skillsDir := filepath.Join(absPath, "skills")
	if manifest.Skills != "" {
		skillsDir = filepath.Join(absPath, manifest.Skills)
	}
	if skills, err := loadSkills(skillsDir); err == nil {
		p.Skills = skills
	}

	if hooks, err := loadHooks(filepath.Join(absPath, "hooks", "hooks.json")); err == nil {
		p.Hooks = hooks
	}

	mcpPath := filepath.Join(absPath, ".mcp.json")
	if servers, err := loadMCPServers(mcpPath, absPath); err == nil {
		p.MCPServers = servers
	}

	return p, nil
}

// LoadManifest loads the plugin.json manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	if manifest.Name == "" {
		return nil, fmt.Errorf("plugin name is required in manifest")
	}

	return &manifest, nil
}

// loadCommands loads command files from a directory tree. Files in
// subdirectories produce namespaced names: commands/workflows/plan.md
// becomes "workflows:plan".
func loadCommands(dir string) ([]Command, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, err
	}

	matches, err := doublestar.Glob(os.DirFS(dir), "**/*.md")
	if err != nil {
		return nil, fmt.Errorf("globbing commands: %w", err)
	}
	sort.Strings(matches)

	commands := make([]Command, 0, len(matches))
	for _, rel := range matches {
		name := strings.TrimSuffix(rel, ".md")
		name = strings.ReplaceAll(filepath.ToSlash(name), "/", ":")

		cmd, err := ParseCommand(filepath.Join(dir, filepath.FromSlash(rel)), name)
		if err != nil {
			continue // Skip files that can't be parsed
		}
		commands = append(commands, *cmd)
	}

	return commands, nil
}

// loadAgents loads all agent files from a directory.
func loadAgents(dir string) ([]Agent, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	agents := make([]Agent, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		agent, err := ParseAgent(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue // Skip files that can't be parsed
		}
		agents = append(agents, *agent)
	}

	return agents, nil
}

// loadSkills loads all skills from a directory.
// Each subdirectory containing a SKILL.md file is a skill.
func loadSkills(dir string) ([]Skill, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	skills := make([]Skill, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		skillPath := filepath.Join(dir, entry.Name())
		if _, err := os.Stat(filepath.Join(skillPath, "SKILL.md")); err != nil {
			continue
		}

		skill, err := ParseSkill(skillPath)
		if err != nil {
			continue // Skip skills that can't be parsed
		}
		skills = append(skills, *skill)
	}

	return skills, nil
}

// loadHooks loads lifecycle hook definitions from hooks/hooks.json.
func loadHooks(path string) (map[string][]HookMatcher, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw struct {
		Hooks map[string][]HookMatcher `json:"hooks"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing hooks config: %w", err)
	}

	return raw.Hooks, nil
}

// loadMCPServers loads MCP server configurations from .mcp.json.
func loadMCPServers(path, pluginRoot string) (map[string]MCPServer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw struct {
		MCPServers map[string]MCPServer `json:"mcpServers"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing MCP config: %w", err)
	}

	// Replace ${CLAUDE_PLUGIN_ROOT} with actual path
	result := make(map[string]MCPServer)
	for name, cfg := range raw.MCPServers {
		if cfg.Stdio != nil {
			cfg.Stdio.Command = expandPluginRoot(cfg.Stdio.Command, pluginRoot)
			for i, arg := range cfg.Stdio.Args {
				cfg.Stdio.Args[i] = expandPluginRoot(arg, pluginRoot)
			}
		}
		for k, v := range cfg.Env {
			cfg.Env[k] = expandPluginRoot(v, pluginRoot)
		}
		result[name] = cfg
	}

	return result, nil
}

// expandPluginRoot replaces ${CLAUDE_PLUGIN_ROOT} with the actual plugin root path.
func expandPluginRoot(s, pluginRoot string) string {
	return strings.ReplaceAll(s, "${CLAUDE_PLUGIN_ROOT}", pluginRoot)
}

// GetCommand returns a command by name, or nil if not found.
func (p *Plugin) GetCommand(name string) *Command {
	for i := range p.Commands {
		if p.Commands[i].Name == name {
			return &p.Commands[i]
		}
	}
	return nil
}

// GetAgent returns an agent by name, or nil if not found.
func (p *Plugin) GetAgent(name string) *Agent {
	for i := range p.Agents {
		if p.Agents[i].Name == name {
			return &p.Agents[i]
		}
	}
	return nil
}

// GetSkill returns a skill by name, or nil if not found.
func (p *Plugin) GetSkill(name string) *Skill {
	for i := range p.Skills {
		if p.Skills[i].Name == name {
			return &p.Skills[i]
		}
	}
	return nil
}

// HasHooks reports whether the plugin defines at least one lifecycle hook.
func (p *Plugin) HasHooks() bool {
	for _, matchers := range p.Hooks {
		if len(matchers) > 0 {
			return true
		}
	}
	return false
}
