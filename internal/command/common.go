// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/staranto/opskit/internal/diskpub"
	"github.com/staranto/opskit/internal/meta"
	"github.com/staranto/opskit/internal/output"
)

// ErrNoRules is returned by env when neither arguments nor config name a
// rule.
var ErrNoRules = errors.New("usage: opskit env RULE [RULE...]")

// IsUsage reports whether err should be reported as a usage error.
func IsUsage(err error) bool {
	return errors.Is(err, diskpub.ErrUsage) || errors.Is(err, ErrNoRules)
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// OutputOptions collects the global output flags into output.Options. attrs
// is used when --attrs is not given.
func OutputOptions(cmd *cli.Command, attrs string) output.Options {
	if extras := cmd.String("attrs"); extras != "" {
		attrs = extras
	}
	return output.Options{
		Format: cmd.String("output"),
		Attrs:  output.ParseAttrs(attrs),
		Filter: cmd.String("filter"),
		Sort:   cmd.String("sort"),
		Titles: cmd.Bool("titles"),
		Color:  cmd.Bool("color"),
	}
}

// EmitJSON marshals results and passes them to the common output routine.
func EmitJSON(cmd *cli.Command, results any, attrs string) error {
	raw, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	return output.Spit(raw, OutputOptions(cmd, attrs), stdout(cmd))
}

func stdout(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	return os.Stdout
}

func stderr(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.ErrWriter != nil {
		return root.ErrWriter
	}
	return os.Stderr
}
