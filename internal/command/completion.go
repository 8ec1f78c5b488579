// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/opskit/internal/meta"
)

const bashCompletionScript = `# bash completion for opskit
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_opskit()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "du env completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--attrs -a --color -c --filter -f --output -o --sort -s --titles -t"

    # Count positionals already given after the subcommand.
    local npos=0
    local idx=2
    while [[ $idx -lt $COMP_CWORD ]]; do
        if [[ ${COMP_WORDS[$idx]} != -* ]]; then
            ((npos++))
        fi
        ((idx++))
    done

    if [[ "$prev" == "--output" || "$prev" == "-o" ]]; then
        COMPREPLY=( $(compgen -W "text table json yaml raw" -- "$cur") )
        return 0
    fi

    case "$cmd" in
        du)
            local opts="$common --archive-bucket --archive-prefix --endpoint --exclude -e --metric -m --profile -p --region -r --skip-unreadable --timeout"
            # <namespace> then <folder_path>
            if [[ "$cur" != -* && $npos -eq 1 ]]; then
                COMPREPLY=( $(compgen -o dirnames -- "$cur") )
                return 0
            fi
            ;;
        env)
            local opts="$common --config-defaults --export -x --keys -k"
            if [[ "$cur" != -* ]]; then
                COMPREPLY=( $(compgen -v -- "$cur") )
                return 0
            fi
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    return 0
}

complete -F _opskit opskit
`

const zshCompletionScript = `#compdef opskit

_opskit() {
  local -a cmds
  cmds=(
    'du:publish folder disk usage as a metric'
    'env:fill unset environment variables from fallbacks'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-o --output)'{-o,--output}'[output format]:format:(text table json yaml raw)'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'opskit commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    du)
      _arguments -C \
        $common \
        '--archive-bucket[S3 archive bucket]:bucket' \
        '--archive-prefix[S3 archive key prefix]:prefix' \
        '--endpoint[AWS endpoint override]:url' \
        '(-e --exclude)'{-e,--exclude}'[glob to leave out]:pattern' \
        '(-m --metric)'{-m,--metric}'[metric name]:metric' \
        '(-p --profile)'{-p,--profile}'[AWS profile]:profile' \
        '(-r --region)'{-r,--region}'[AWS region]:region' \
        '--skip-unreadable[skip unreadable entries]' \
        '--timeout[bound the run]:duration' \
        '1:namespace' \
        '2:folder:_directories'
      ;;
    env)
      _arguments -C \
        $common \
        '--config-defaults[seed DEFAULT_ keys from config]' \
        '(-x --export)'{-x,--export}'[write export lines]' \
        '(-k --keys)'{-k,--keys}'[keys to export]:keys' \
        '*:rule:_parameters'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _opskit opskit
`

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := cmd.Args().First()
	if shell == "" {
		// Try to detect from SHELL.
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			shell = "zsh"
		case strings.HasSuffix(sh, "bash"):
			shell = "bash"
		}
	}

	switch shell {
	case "bash":
		fmt.Fprint(stdout(cmd), bashCompletionScript)
	case "zsh":
		fmt.Fprint(stdout(cmd), zshCompletionScript)
	default:
		fmt.Fprintln(stderr(cmd), "usage: opskit completion [bash|zsh]")
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "opskit completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
