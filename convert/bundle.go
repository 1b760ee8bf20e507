package convert

// AgentArtifact is one converted agent, written as a single file in the
// target's agents directory.
type AgentArtifact struct {
	ID          string // unique within the bundle's agent namespace
	Description string // always set; synthesized when the source had none
	Model       string // empty when the source supplied no model
	Body        string // rewritten instructions, never truncated
}

// SkillArtifact is a skill generated from a slash command.
type SkillArtifact struct {
	ID          string // unique within the shared skill namespace
	Description string // empty means the description key is omitted
	Body        string
}

// SkillDirRef is a pass-through skill: the source directory is copied or
// symlinked byte-for-byte, never renamed.
type SkillDirRef struct {
	ID        string
	SourceDir string
}

// ServerEntry is one converted MCP server in the target's config dialect.
type ServerEntry struct {
	Type    string            `json:"type"`
	Command string            `json:"command,omitempty"`
	Args    []string          `json:"args,omitempty"`
	URL     string            `json:"url,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
	Tools   []string          `json:"tools,omitempty"`
}

// Bundle is the fully-formed target-dialect artifact collection produced
// by one conversion run. It is a plain value: conversion is a pure
// function of (plugin, target) and the bundle holds no open resources.
type Bundle struct {
	Target    *Target
	Agents    []AgentArtifact
	Skills    []SkillArtifact
	SkillDirs []SkillDirRef
	Servers   map[string]ServerEntry
}

// Empty reports whether the bundle has nothing to materialize.
func (b *Bundle) Empty() bool {
	return len(b.Agents) == 0 && len(b.Skills) == 0 &&
		len(b.SkillDirs) == 0 && len(b.Servers) == 0
}
