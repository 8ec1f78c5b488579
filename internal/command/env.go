// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/staranto/opskit/internal/config"
	"github.com/staranto/opskit/internal/envdefault"
	"github.com/staranto/opskit/internal/log"
	"github.com/staranto/opskit/internal/meta"
)

const envAttrs = "target,kind,source,value,applied"

const envUsageText = `opskit env [RULE...] [options]

RULE is one of TARGET, TARGET=SOURCE, TARGET=$NAME or TARGET:=VALUE.`

func envCommandAction(ctx context.Context, cmd *cli.Command) error {
	specs, err := config.GetStringSlice("rules", nil)
	if err != nil {
		return fmt.Errorf("invalid env.rules in config: %w", err)
	}
	specs = append(specs, cmd.Args().Slice()...)
	if len(specs) == 0 {
		return ErrNoRules
	}

	rules, err := envdefault.ParseRules(specs)
	if err != nil {
		return err
	}
	log.Debugf("env rules: count=%d", len(rules))

	env := envdefault.FromOS()
	if cmd.Bool("config-defaults") {
		defaults, err := config.GetStringMap("defaults", map[string]string{})
		if err != nil {
			return fmt.Errorf("invalid env.defaults in config: %w", err)
		}
		env = envdefault.WithDefaults(env, defaults)
	}

	// Keep stdout clean for eval and for documents.
	export := cmd.Bool("export")
	format := cmd.String("output")
	status := stdout(cmd)
	if export || format != "text" {
		status = stderr(cmd)
	}

	env, results := envdefault.New(status).ResolveAll(env, rules)

	if export {
		keys := cmd.StringSlice("keys")
		if len(keys) == 0 {
			for _, r := range results {
				keys = append(keys, r.Target)
			}
		}
		return env.Export(stdout(cmd), keys...)
	}

	if format != "text" {
		return EmitJSON(cmd, results, envAttrs)
	}
	return nil
}

func envCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "env",
		Usage:     "fill unset environment variables from fallbacks",
		UsageText: envUsageText,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:  "config-defaults",
				Usage: "seed DEFAULT_ keys from env.defaults in config",
				Value: true,
			},
			&cli.BoolFlag{
				Name:    "export",
				Aliases: []string{"x"},
				Usage:   "write shell export lines for eval",
			},
			&cli.StringSliceFlag{
				Name:    "keys",
				Aliases: []string{"k"},
				Usage:   "keys to export. Defaults to every rule target",
				Validator: func(value []string) error {
					return FlagValidators(value, KeysValidator)
				},
			},
		}, NewGlobalFlags()...),
		Action: envCommandAction,
	}
}
