// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/opskit/internal/command"
	"github.com/staranto/opskit/internal/config"
	"github.com/staranto/opskit/internal/log"
	"github.com/staranto/opskit/internal/version"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

// handleVersion checks for --version/-v and returns whether it was handled.
func handleVersion(args []string) bool {
	for _, a := range args {
		if a == "--" {
			break
		}
		if a == "--version" || a == "-v" {
			fmt.Println(version.String())
			return true
		}
	}
	return false
}

// handleNakedCommand appends --help if no command is provided.
func handleNakedCommand(args []string) []string {
	if len(args) <= 1 {
		return append(args, "--help")
	}
	return args
}

// helpRequested reports whether --help appears anywhere in args.
func helpRequested(args []string) bool {
	for _, a := range args {
		if a == "--help" || a == "-h" {
			return true
		}
	}
	return false
}

// processCommandArgs handles command-specific argument processing.
func processCommandArgs(args []string) []string {
	if len(args) > 1 && args[1] == "completion" {
		// Short-circuit completion: pass args directly.
		return args
	}
	args = processSetOnly(args)
	log.Debugf("args after set processing: args=%v", args)
	return deduplicateFlags(args, newFlagSpec(commandFlags(args)))
}

// processSetOnly expands an @set argument in place with the entries of the
// config list <command>.<set>. Each entry is split on whitespace.
func processSetOnly(args []string) []string {
	if len(args) < 3 {
		return args
	}

	for i := 2; i < len(args); i++ {
		if args[i] == "--" {
			break
		}
		if !strings.HasPrefix(args[i], "@") || len(args[i]) == 1 {
			continue
		}
		key := args[1] + "." + args[i][1:]
		entries, err := config.GetStringSlice(key)
		if err != nil {
			log.Debugf("set not expanded: key=%s err=%v", key, err)
		}
		trimmed := append(args[:i:i], args[i+1:]...)
		return injectConfigSet(trimmed, entries, i)
	}
	return args
}

// injectConfigSet inserts the whitespace-split entries into args at
// insertIdx.
func injectConfigSet(args []string, entries []string, insertIdx int) []string {
	if len(entries) == 0 {
		return args
	}
	out := append([]string{}, args[:insertIdx]...)
	for _, entry := range entries {
		out = append(out, strings.Fields(entry)...)
	}
	return append(out, args[insertIdx:]...)
}

// flagSpec describes the flags of one subcommand, keyed by every name and
// alias a flag answers to.
type flagSpec struct {
	primary    map[string]string
	takesValue map[string]bool
	repeatable map[string]bool
}

func newFlagSpec(flags []cli.Flag) flagSpec {
	spec := flagSpec{
		primary:    map[string]string{},
		takesValue: map[string]bool{},
		repeatable: map[string]bool{},
	}
	for _, f := range flags {
		names := f.Names()
		if len(names) == 0 {
			continue
		}
		p := names[0]
		for _, n := range names {
			spec.primary[n] = p
		}
		if df, ok := f.(cli.DocGenerationFlag); ok {
			spec.takesValue[p] = df.TakesValue()
		}
		if mf, ok := f.(cli.DocGenerationMultiValueFlag); ok {
			spec.repeatable[p] = mf.IsMultiValueFlag()
		}
	}
	return spec
}

// commandFlags returns the flags of the subcommand named by args[1].
func commandFlags(args []string) []cli.Flag {
	if len(args) < 2 {
		return nil
	}
	app, err := command.InitApp(ctx, args)
	if err != nil {
		return nil
	}
	if cmd := app.Command(args[1]); cmd != nil {
		return cmd.Flags
	}
	return nil
}

// deduplicateFlags drops all but the last occurrence of each single-value
// flag after the subcommand so that explicit flags override ones injected
// from a set. Aliases count as their primary name. Repeatable flags and flags
// the command does not know are passed through untouched. Only a flag that
// takes a value and is written without "=" consumes the following token.
func deduplicateFlags(args []string, spec flagSpec) []string {
	if len(args) <= 2 {
		return args
	}

	type token struct {
		name  string
		parts []string
	}

	var tokens []token
	for i := 2; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			tokens = append(tokens, token{parts: args[i:]})
			break
		}
		if !strings.HasPrefix(a, "-") || a == "-" {
			tokens = append(tokens, token{parts: []string{a}})
			continue
		}

		raw, _, hasValue := strings.Cut(strings.TrimLeft(a, "-"), "=")
		name, known := spec.primary[raw]
		if !known {
			tokens = append(tokens, token{parts: []string{a}})
			continue
		}

		parts := []string{a}
		if !hasValue && spec.takesValue[name] && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			parts = append(parts, args[i+1])
			i++
		}
		if spec.repeatable[name] {
			name = ""
		}
		tokens = append(tokens, token{name: name, parts: parts})
	}

	last := make(map[string]int, len(tokens))
	for i, t := range tokens {
		if t.name != "" {
			last[t.name] = i
		}
	}

	out := append([]string{}, args[:2]...)
	for i, t := range tokens {
		if t.name != "" && last[t.name] != i {
			continue
		}
		out = append(out, t.parts...)
	}
	return out
}

// initAndRunApp initializes the app and runs it, returning the exit code.
func initAndRunApp(args []string, stdout, stderr io.Writer) int {
	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		log.Debugf("app init err: err=%v", err)
		return 1
	}
	app.Writer = stdout
	app.ErrWriter = stderr

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(stderr, err)
		log.Debugf("app run err: err=%v", err)
		if command.IsUsage(err) {
			return 1
		}
		return 2
	}

	return 0
}

func realMain() int {
	log.InitLogger()

	args := os.Args
	log.Debugf("args captured: args=%v", args)

	if handleVersion(args) {
		return 0
	}

	args = handleNakedCommand(args)

	// If --help appears anywhere, skip command processing and let the CLI handle it.
	if !helpRequested(args) {
		args = processCommandArgs(args)
	}

	return initAndRunApp(args, os.Stdout, os.Stderr)
}
