// Command discover is a thin CLI over the discovery engine, exposing only
// the three operations spec.md §6.3 defines as public API: discover,
// explain, and clear-cache. Grounded on the teacher's cmd/lci/main.go
// urfave/cli wiring; it intentionally carries none of that tool's
// scaffolding/init/migrate surface.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/sigfind/internal/config"
	"github.com/standardbeagle/sigfind/internal/engine"
	"github.com/standardbeagle/sigfind/internal/types"
)

func main() {
	app := &cli.App{
		Name:  "discover",
		Usage: "signature-based code discovery for test suites",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "root", Value: ".", Usage: "project root to search"},
			&cli.StringFlag{Name: "config", Usage: "path to a KDL config file"},
		},
		Commands: []*cli.Command{
			discoverCommand(),
			explainCommand(),
			clearCacheCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	path := c.String("config")
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadKDL(path)
}

func buildSignature(c *cli.Context) *types.Signature {
	sig := &types.Signature{
		Name: c.Args().First(),
	}
	if t := c.String("type"); t != "" {
		sig.Type = types.TargetType(t)
	}
	if methods := c.StringSlice("method"); len(methods) > 0 {
		sig.Methods = methods
	}
	if extends := c.String("extends"); extends != "" {
		sig.Extends = extends
	}
	return sig
}

func signatureFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "type", Usage: "class|function|object|module"},
		&cli.StringSliceFlag{Name: "method", Usage: "required method name (repeatable)"},
		&cli.StringFlag{Name: "extends", Usage: "required base class name"},
	}
}

func discoverCommand() *cli.Command {
	return &cli.Command{
		Name:      "discover",
		Usage:     "resolve a signature to a single target file",
		ArgsUsage: "<name>",
		Flags:     signatureFlags(),
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			reg := engine.NewRegistry(cfg)
			e, err := reg.For(c.String("root"))
			if err != nil {
				return err
			}
			target, err := e.Discover(context.Background(), buildSignature(c))
			if err != nil {
				return err
			}
			fmt.Printf("%s (%s export, score %.1f)\n", target.Candidate.RelPath, target.Export.Access.Kind, target.Candidate.Score)
			return nil
		},
	}
}

func explainCommand() *cli.Command {
	return &cli.Command{
		Name:      "explain",
		Usage:     "show every candidate considered for a signature, ranked",
		ArgsUsage: "<name>",
		Flags:     signatureFlags(),
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			reg := engine.NewRegistry(cfg)
			e, err := reg.For(c.String("root"))
			if err != nil {
				return err
			}
			explanation, err := e.Explain(context.Background(), buildSignature(c))
			if err != nil {
				return err
			}
			for i, d := range explanation.Candidates {
				mark := " "
				if d.Satisfies {
					mark = "*"
				}
				fmt.Printf("%s %2d. %-50s score=%.1f\n", mark, i+1, d.Candidate.RelPath, d.Candidate.Score)
			}
			return nil
		},
	}
}

func clearCacheCommand() *cli.Command {
	return &cli.Command{
		Name:  "clear-cache",
		Usage: "wipe both cache tiers for a root",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			reg := engine.NewRegistry(cfg)
			e, err := reg.For(c.String("root"))
			if err != nil {
				return err
			}
			if err := e.ClearCache(); err != nil {
				return err
			}
			fmt.Println("cache cleared")
			return nil
		},
	}
}
