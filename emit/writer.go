// Package emit materializes an assembled bundle onto the filesystem,
// either by copying (Write) or by live-linking (Sync).
package emit

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ccport/ccport/convert"
)

// agentFrontmatter is the YAML header emitted for each agent file.
type agentFrontmatter struct {
	Description string `yaml:"description"`
	Model       string `yaml:"model,omitempty"`
}

// skillFrontmatter is the YAML header emitted for each generated skill.
// The description key is omitted entirely when the source had none.
type skillFrontmatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// BaseDir resolves the actual output directory for a target. When the
// basename of root already is the target's namespaced directory, artifacts
// go directly into root instead of nesting a duplicate.
func BaseDir(root string, t *convert.Target) string {
	if filepath.Base(root) == t.DirName {
		return root
	}
	return filepath.Join(root, t.DirName)
}

// Write materializes the bundle under root. Directories are created
// lazily, so an empty bundle touches nothing. An existing shared config
// file is copied to a timestamped backup before being replaced.
func Write(root string, b *convert.Bundle) error {
	base := BaseDir(root, b.Target)

	for _, agent := range b.Agents {
		content, err := renderAgent(agent)
		if err != nil {
			return fmt.Errorf("rendering agent %s: %w", agent.ID, err)
		}
		dir := filepath.Join(base, "agents")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating agents dir: %w", err)
		}
		path := filepath.Join(dir, agent.ID+b.Target.AgentExt)
		if err := os.WriteFile(path, content, 0o644); err != nil {
			return fmt.Errorf("writing agent %s: %w", agent.ID, err)
		}
	}

	for _, skill := range b.Skills {
		content, err := renderSkill(skill)
		if err != nil {
			return fmt.Errorf("rendering skill %s: %w", skill.ID, err)
		}
		dir := filepath.Join(base, "skills", skill.ID)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating skill dir %s: %w", skill.ID, err)
		}
		if err := os.WriteFile(filepath.Join(dir, "SKILL.md"), content, 0o644); err != nil {
			return fmt.Errorf("writing skill %s: %w", skill.ID, err)
		}
	}

	for _, ref := range b.SkillDirs {
		dest := filepath.Join(base, "skills", ref.ID)
		if err := copyDir(ref.SourceDir, dest); err != nil {
			return fmt.Errorf("copying skill %s: %w", ref.ID, err)
		}
	}

	if len(b.Servers) > 0 {
		if err := writeConfig(base, b); err != nil {
			return err
		}
	}

	return nil
}

func renderAgent(a convert.AgentArtifact) ([]byte, error) {
	fm, err := yaml.Marshal(agentFrontmatter{Description: a.Description, Model: a.Model})
	if err != nil {
		return nil, err
	}
	return []byte("---\n" + string(fm) + "---\n\n" + a.Body + "\n"), nil
}

func renderSkill(s convert.SkillArtifact) ([]byte, error) {
	fm, err := yaml.Marshal(skillFrontmatter{Name: s.ID, Description: s.Description})
	if err != nil {
		return nil, err
	}
	return []byte("---\n" + string(fm) + "---\n\n" + s.Body + "\n"), nil
}

// writeConfig replaces the shared server-config file with the bundle's
// entries wrapped in the target's top-level key, backing up any existing
// file first. Backups are never deleted.
func writeConfig(base string, b *convert.Bundle) error {
	if err := os.MkdirAll(base, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	path := filepath.Join(base, b.Target.ConfigFile)

	if _, err := os.Stat(path); err == nil {
		if err := backupFile(path); err != nil {
			return fmt.Errorf("backing up config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("checking config: %w", err)
	}

	payload := map[string]map[string]convert.ServerEntry{
		b.Target.ServersKey: b.Servers,
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// backupFile copies path to path.bak.<timestamp>, appending a counter when
// that name is already taken within the same second.
func backupFile(path string) error {
	ts := time.Now().Unix()
	backup := fmt.Sprintf("%s.bak.%d", path, ts)
	for i := 2; ; i++ {
		if _, err := os.Stat(backup); os.IsNotExist(err) {
			break
		}
		backup = fmt.Sprintf("%s.bak.%d-%d", path, ts, i)
	}
	return copyFile(path, backup)
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// copyDir copies a directory tree. Skill directory contents are opaque to
// conversion and copied byte-for-byte.
func copyDir(src, dest string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)
		if info.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		return copyFile(path, target)
	})
}
