package convert

import (
	"fmt"
	"regexp"
	"strings"
)

// fallbackName is returned when normalization leaves nothing usable.
const fallbackName = "item"

var (
	nameSeparators = regexp.MustCompile(`[/\\:\s]+`)
	nameDisallowed = regexp.MustCompile(`[^a-z0-9_-]`)
	nameDashRuns   = regexp.MustCompile(`-{2,}`)
)

// Normalize collapses an arbitrary display name into a dialect-safe
// identifier matching ^[a-z0-9_-]+$. It is total and idempotent.
func Normalize(raw string) string {
	s := strings.ToLower(raw)
	s = nameSeparators.ReplaceAllString(s, "-")
	s = nameDisallowed.ReplaceAllString(s, "")
	s = nameDashRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return fallbackName
	}
	return s
}

// Flatten strips everything up to and including the last namespace
// separator and normalizes the remainder: "workflows:plan" becomes "plan".
func Flatten(name string) string {
	if i := strings.LastIndex(name, ":"); i >= 0 {
		name = name[i+1:]
	}
	return Normalize(name)
}

// NamePool tracks identifiers handed out within one namespace for one
// conversion run. Callers must Reserve pass-through names before any
// Resolve call so pass-through entities keep their exact name and only
// generated entities get suffixed.
type NamePool struct {
	used map[string]struct{}
}

// NewNamePool returns an empty pool.
func NewNamePool() *NamePool {
	return &NamePool{used: make(map[string]struct{})}
}

// Reserve marks name as used without renaming.
func (p *NamePool) Reserve(name string) {
	p.used[name] = struct{}{}
}

// Resolve returns base if unused, otherwise probes base-2, base-3, ...
// until a free identifier is found. The result is reserved.
func (p *NamePool) Resolve(base string) string {
	if _, taken := p.used[base]; !taken {
		p.used[base] = struct{}{}
		return base
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		if _, taken := p.used[candidate]; !taken {
			p.used[candidate] = struct{}{}
			return candidate
		}
	}
}
