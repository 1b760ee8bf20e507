package convert

import "fmt"

// WarningKind classifies a non-fatal conversion condition.
type WarningKind string

const (
	WarnBodyLength        WarningKind = "body-length"
	WarnHooksUnsupported  WarningKind = "hooks-unsupported"
	WarnServerUnsupported WarningKind = "server-unsupported"
	WarnInvalidSkillName  WarningKind = "invalid-skill-name"
	WarnDroppedFields     WarningKind = "dropped-fields"
)

// Warning is a structured diagnostic reported alongside a bundle. Warnings
// never change the success of a run; they exist so callers can inspect,
// render, or suppress them without capturing output streams.
type Warning struct {
	Kind    WarningKind
	Entity  string // offending entity (agent, command, server, skill name)
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s [%s]: %s", w.Kind, w.Entity, w.Message)
}
