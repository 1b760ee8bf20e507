package convert

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ccport/ccport/plugin"
)

// ServerTypeStdio and ServerTypeHTTP are the type discriminators emitted
// into server config entries.
const (
	ServerTypeStdio = "stdio"
	ServerTypeHTTP  = "http"
)

// unrestrictedTools is the tool-access value every converted server gets,
// regardless of source restrictions.
var unrestrictedTools = []string{"*"}

// ConvertAgent converts one agent. The identifier is resolved against the
// bundle's agent namespace.
func ConvertAgent(a plugin.Agent, t *Target, rw *Rewriter, pool *NamePool) (AgentArtifact, []Warning) {
	art := AgentArtifact{
		ID:          pool.Resolve(Normalize(a.Name)),
		Description: a.Description,
		Model:       a.Model,
	}
	if art.Description == "" {
		art.Description = fmt.Sprintf("Agent %s imported from a Claude Code plugin.", a.Name)
	}

	body := rw.Rewrite(a.Content)
	if len(a.Capabilities) > 0 {
		var sb strings.Builder
		sb.WriteString("## Capabilities\n\n")
		for _, c := range a.Capabilities {
			fmt.Fprintf(&sb, "- %s\n", c)
		}
		sb.WriteString("\n")
		sb.WriteString(body)
		body = sb.String()
	}
	if strings.TrimSpace(body) == "" {
		body = fmt.Sprintf("Follow the instructions configured for the %s agent by its plugin.", a.Name)
	}
	art.Body = body

	var warnings []Warning
	if t.BodyLimit > 0 && t.WarnBodyLimit && len(body) > t.BodyLimit {
		warnings = append(warnings, Warning{
			Kind:   WarnBodyLength,
			Entity: a.Name,
			Message: fmt.Sprintf("body is %d bytes, over the %s limit of %d; content emitted in full",
				len(body), t.Name, t.BodyLimit),
		})
	}
	return art, warnings
}

// ConvertCommand converts a slash command into a generated skill. The
// identifier is the flattened command name resolved against the shared
// skill namespace, so commands colliding with pass-through skills get
// suffixed.
func ConvertCommand(c plugin.Command, t *Target, rw *Rewriter, pool *NamePool) (SkillArtifact, []Warning) {
	art := SkillArtifact{
		ID:          pool.Resolve(Flatten(c.Name)),
		Description: c.Description,
	}

	body := rw.Rewrite(c.Content)
	if c.ArgumentHint != "" {
		body = "## Arguments\n\n" + c.ArgumentHint + "\n\n" + body
	}
	art.Body = body

	var warnings []Warning
	if t.WarnDroppedFields {
		var dropped []string
		if len(c.AllowedTools) > 0 {
			dropped = append(dropped, "allowed-tools")
		}
		if c.Model != "" {
			dropped = append(dropped, "model")
		}
		if c.DisableModelInvocation {
			dropped = append(dropped, "disable-model-invocation")
		}
		if len(dropped) > 0 {
			warnings = append(warnings, Warning{
				Kind:   WarnDroppedFields,
				Entity: c.Name,
				Message: fmt.Sprintf("%s has no equivalent for: %s",
					t.Name, strings.Join(dropped, ", ")),
			})
		}
	}
	return art, warnings
}

// ConvertSkill reserves the skill's own name in the shared skill namespace
// and carries the source directory through unchanged.
func ConvertSkill(s plugin.Skill, pool *NamePool) SkillDirRef {
	pool.Reserve(s.Name)
	return SkillDirRef{ID: s.Name, SourceDir: s.SourceDir}
}

// ConvertServer converts one MCP server. ok is false when the target
// cannot address the server at all, in which case the entry is dropped.
func ConvertServer(name string, s plugin.MCPServer, t *Target) (entry ServerEntry, ok bool, warnings []Warning) {
	entry = ServerEntry{
		Env:   PrefixEnv(s.Env, t.EnvPrefix),
		Tools: unrestrictedTools,
	}

	switch {
	case s.Stdio != nil:
		entry.Type = ServerTypeStdio
		entry.Command = s.Stdio.Command
		if len(s.Stdio.Args) > 0 {
			entry.Args = s.Stdio.Args
		}
	case s.HTTP != nil:
		if !t.SupportsHTTP {
			return ServerEntry{}, false, []Warning{{
				Kind:    WarnServerUnsupported,
				Entity:  name,
				Message: fmt.Sprintf("%s cannot address URL-based MCP servers; entry dropped", t.Name),
			}}
		}
		entry.Type = ServerTypeHTTP
		entry.URL = s.HTTP.URL
		if len(s.HTTP.Headers) > 0 {
			entry.Headers = s.HTTP.Headers
		}
	}
	return entry, true, nil
}

// PrefixEnv rewrites env keys to <prefix>_<key> unless a key already
// starts with that literal prefix. Repeated conversion never
// double-prefixes.
func PrefixEnv(env map[string]string, prefix string) map[string]string {
	if len(env) == 0 {
		return nil
	}
	out := make(map[string]string, len(env))
	for k, v := range env {
		if !strings.HasPrefix(k, prefix+"_") {
			k = prefix + "_" + k
		}
		out[k] = v
	}
	return out
}

// Assemble converts a whole plugin into a bundle for the given target.
// Agents get their own identifier namespace; pass-through skills and
// command-generated skills share one, with skills reserved first so only
// commands are ever renamed. Warnings are a side channel and do not
// affect the bundle.
func Assemble(p *plugin.Plugin, t *Target) (*Bundle, []Warning) {
	rw := NewRewriter(t)
	agentPool := NewNamePool()
	skillPool := NewNamePool()

	b := &Bundle{Target: t}
	var warnings []Warning

	for _, s := range p.Skills {
		b.SkillDirs = append(b.SkillDirs, ConvertSkill(s, skillPool))
	}

	for _, c := range p.Commands {
		art, ws := ConvertCommand(c, t, rw, skillPool)
		b.Skills = append(b.Skills, art)
		warnings = append(warnings, ws...)
	}

	for _, a := range p.Agents {
		art, ws := ConvertAgent(a, t, rw, agentPool)
		b.Agents = append(b.Agents, art)
		warnings = append(warnings, ws...)
	}

	if p.HasHooks() {
		warnings = append(warnings, Warning{
			Kind:    WarnHooksUnsupported,
			Entity:  p.Name,
			Message: fmt.Sprintf("%s does not support lifecycle hooks; hooks were skipped", t.Name),
		})
	}

	if len(p.MCPServers) > 0 {
		names := make([]string, 0, len(p.MCPServers))
		for name := range p.MCPServers {
			names = append(names, name)
		}
		sort.Strings(names)

		b.Servers = make(map[string]ServerEntry)
		for _, name := range names {
			entry, ok, ws := ConvertServer(name, p.MCPServers[name], t)
			warnings = append(warnings, ws...)
			if ok {
				b.Servers[name] = entry
			}
		}
		if len(b.Servers) == 0 {
			b.Servers = nil
		}
	}

	return b, warnings
}
