// ccport converts a Claude Code-style plugin into the native configuration
// dialects of other AI coding assistants.
//
// Usage:
//
//	ccport convert --target opencode [--out DIR] [--dry-run] [PLUGIN_DIR]
//	ccport sync    --target opencode --root DIR [PLUGIN_DIR]
//	ccport verify  --target opencode [PLUGIN_DIR]
//	ccport targets
//	ccport schema  (manifest|server)
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/ccport/ccport/convert"
	"github.com/ccport/ccport/emit"
	"github.com/ccport/ccport/mcp"
	"github.com/ccport/ccport/plugin"
	"github.com/ccport/ccport/schema"
)

var version = "0.1.0"

func main() {
	app := &cli.Command{
		Name:    "ccport",
		Usage:   "convert Claude Code plugins to other assistant dialects",
		Version: version,
		Commands: []*cli.Command{
			convertCommand(),
			syncCommand(),
			verifyCommand(),
			targetsCommand(),
			schemaCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func configureLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func loadPlugin(cmd *cli.Command) (*plugin.Plugin, error) {
	path := cmd.Args().First()
	if path == "" {
		path = "."
	}
	p, err := plugin.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading plugin: %w", err)
	}
	return p, nil
}

func lookupTarget(cmd *cli.Command) (*convert.Target, error) {
	name := cmd.String("target")
	t, ok := convert.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown target %q (see 'ccport targets')", name)
	}
	return t, nil
}

func reportWarnings(warnings []convert.Warning) {
	for _, w := range warnings {
		slog.Warn(w.Message, "kind", string(w.Kind), "entity", w.Entity)
	}
}

func printSummary(b *convert.Bundle, warnings []convert.Warning) {
	fmt.Printf("Agents:       %d\n", len(b.Agents))
	fmt.Printf("Skills:       %d (generated) + %d (copied)\n", len(b.Skills), len(b.SkillDirs))
	fmt.Printf("MCP servers:  %d\n", len(b.Servers))
	if len(warnings) > 0 {
		fmt.Printf("Warnings:     %d\n", len(warnings))
	}
}

func convertCommand() *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "convert a plugin and write the target bundle to disk",
		ArgsUsage: "[PLUGIN_DIR]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "target", Aliases: []string{"t"}, Required: true, Usage: "target dialect name"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: ".", Usage: "destination root directory"},
			&cli.BoolFlag{Name: "dry-run", Usage: "print planned paths without writing"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			configureLogging(cmd.Bool("verbose"))

			t, err := lookupTarget(cmd)
			if err != nil {
				return err
			}
			p, err := loadPlugin(cmd)
			if err != nil {
				return err
			}

			b, warnings := convert.Assemble(p, t)
			reportWarnings(warnings)

			out := cmd.String("out")
			if cmd.Bool("dry-run") {
				printPlan(out, b)
				return nil
			}
			if err := emit.Write(out, b); err != nil {
				return fmt.Errorf("writing bundle: %w", err)
			}

			fmt.Printf("Converted plugin %q for %s into %s\n", p.Name, t.Name, emit.BaseDir(out, t))
			printSummary(b, warnings)
			return nil
		},
	}
}

func printPlan(out string, b *convert.Bundle) {
	base := emit.BaseDir(out, b.Target)
	for _, a := range b.Agents {
		fmt.Printf("would write %s\n", filepath.Join(base, "agents", a.ID+b.Target.AgentExt))
	}
	for _, s := range b.Skills {
		fmt.Printf("would write %s\n", filepath.Join(base, "skills", s.ID, "SKILL.md"))
	}
	for _, ref := range b.SkillDirs {
		fmt.Printf("would copy  %s -> %s\n", ref.SourceDir, filepath.Join(base, "skills", ref.ID))
	}
	if len(b.Servers) > 0 {
		fmt.Printf("would write %s\n", filepath.Join(base, b.Target.ConfigFile))
	}
}

func syncCommand() *cli.Command {
	return &cli.Command{
		Name:      "sync",
		Usage:     "live-link skills and merge MCP servers into an existing setup",
		ArgsUsage: "[PLUGIN_DIR]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "target", Aliases: []string{"t"}, Required: true, Usage: "target dialect name"},
			&cli.StringFlag{Name: "root", Aliases: []string{"r"}, Required: true, Usage: "sync destination directory"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			configureLogging(cmd.Bool("verbose"))

			t, err := lookupTarget(cmd)
			if err != nil {
				return err
			}
			p, err := loadPlugin(cmd)
			if err != nil {
				return err
			}

			b, warnings := convert.Assemble(p, t)
			syncWarnings, err := emit.Sync(cmd.String("root"), b)
			warnings = append(warnings, syncWarnings...)
			reportWarnings(warnings)
			if err != nil {
				return fmt.Errorf("syncing bundle: %w", err)
			}

			fmt.Printf("Synced plugin %q for %s into %s\n", p.Name, t.Name, cmd.String("root"))
			printSummary(b, warnings)
			return nil
		},
	}
}

func verifyCommand() *cli.Command {
	return &cli.Command{
		Name:      "verify",
		Usage:     "launch each converted stdio MCP server and list its tools",
		ArgsUsage: "[PLUGIN_DIR]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "target", Aliases: []string{"t"}, Required: true, Usage: "target dialect name"},
			&cli.DurationFlag{Name: "timeout", Value: 30 * time.Second, Usage: "per-server probe timeout"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			configureLogging(cmd.Bool("verbose"))

			t, err := lookupTarget(cmd)
			if err != nil {
				return err
			}
			p, err := loadPlugin(cmd)
			if err != nil {
				return err
			}

			b, warnings := convert.Assemble(p, t)
			reportWarnings(warnings)

			if len(b.Servers) == 0 {
				fmt.Println("No MCP servers to verify.")
				return nil
			}

			failed := 0
			for name, entry := range b.Servers {
				if entry.Type != convert.ServerTypeStdio {
					slog.Info("skipping non-stdio server", "server", name, "type", entry.Type)
					continue
				}
				report, err := mcp.ProbeStdio(ctx, name, entry, mcp.WithTimeout(cmd.Duration("timeout")))
				if err != nil {
					slog.Error("probe failed", "server", name, "error", err)
					failed++
					continue
				}
				fmt.Printf("%s: %d tools\n", name, len(report.Tools))
				for _, tool := range report.Tools {
					fmt.Printf("  - %s: %s\n", tool.Name, tool.Description)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d server(s) failed verification", failed)
			}
			return nil
		},
	}
}

func targetsCommand() *cli.Command {
	return &cli.Command{
		Name:  "targets",
		Usage: "list supported target dialects",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			for _, t := range convert.Targets() {
				fmt.Printf("%-10s dir=%s  config=%s  serversKey=%s  envPrefix=%s\n",
					t.Name, t.DirName, t.ConfigFile, t.ServersKey, t.EnvPrefix)
			}
			return nil
		},
	}
}

func schemaCommand() *cli.Command {
	return &cli.Command{
		Name:      "schema",
		Usage:     "print a JSON Schema for a configuration shape",
		ArgsUsage: "(manifest|server)",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var (
				raw []byte
				err error
			)
			switch cmd.Args().First() {
			case "manifest":
				raw, err = schema.Manifest()
			case "server":
				raw, err = schema.ServerEntry()
			default:
				return fmt.Errorf("unknown schema %q (expected manifest or server)", cmd.Args().First())
			}
			if err != nil {
				return fmt.Errorf("generating schema: %w", err)
			}
			fmt.Println(string(raw))
			return nil
		},
	}
}
