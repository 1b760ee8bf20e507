package emit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/ccport/ccport/convert"
)

// safeSkillName matches what the normalizer can produce. Anything else —
// traversal sequences, path separators, spaces — is rejected during sync.
var safeSkillName = regexp.MustCompile(`^[a-z0-9_-]+$`)

// Sync is the live-mode materializer: skills become symlinks into the
// plugin's own directories and new server entries are merged into the
// existing config file instead of replacing it. Skills with unsafe names
// are skipped with a warning; they never abort the run.
func Sync(root string, b *convert.Bundle) ([]convert.Warning, error) {
	var warnings []convert.Warning

	for _, ref := range b.SkillDirs {
		if !safeSkillName.MatchString(ref.ID) {
			warnings = append(warnings, convert.Warning{
				Kind:    convert.WarnInvalidSkillName,
				Entity:  ref.ID,
				Message: fmt.Sprintf("skill name %q is not a safe identifier; skipped", ref.ID),
			})
			continue
		}

		source, err := filepath.Abs(ref.SourceDir)
		if err != nil {
			return warnings, fmt.Errorf("resolving skill source %s: %w", ref.ID, err)
		}
		skillsDir := filepath.Join(root, "skills")
		if err := os.MkdirAll(skillsDir, 0o755); err != nil {
			return warnings, fmt.Errorf("creating skills dir: %w", err)
		}

		link := filepath.Join(skillsDir, ref.ID)
		if err := os.Remove(link); err != nil && !os.IsNotExist(err) {
			return warnings, fmt.Errorf("replacing link %s: %w", ref.ID, err)
		}
		if err := os.Symlink(source, link); err != nil {
			return warnings, fmt.Errorf("linking skill %s: %w", ref.ID, err)
		}
	}

	// Zero servers means the config file is not touched at all. This is
	// distinct from writing an empty server list.
	if len(b.Servers) == 0 {
		return warnings, nil
	}

	if err := mergeConfig(root, b); err != nil {
		return warnings, err
	}
	return warnings, nil
}

// mergeConfig reads the existing config (a missing file counts as empty),
// overlays the bundle's server entries keyed by name with new values
// winning, and writes the result atomically with owner-only permissions.
func mergeConfig(root string, b *convert.Bundle) error {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("creating sync root: %w", err)
	}
	path := filepath.Join(root, b.Target.ConfigFile)

	cfg := map[string]any{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("parsing existing config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Treat as empty config.
	default:
		return fmt.Errorf("reading config %s: %w", path, err)
	}

	servers, _ := cfg[b.Target.ServersKey].(map[string]any)
	if servers == nil {
		servers = map[string]any{}
	}
	for name, entry := range b.Servers {
		raw, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("encoding server %s: %w", name, err)
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("encoding server %s: %w", name, err)
		}
		servers[name] = v
	}
	cfg[b.Target.ServersKey] = servers

	out, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(out, '\n'), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing config: %w", err)
	}
	return nil
}
