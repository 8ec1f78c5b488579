// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package envdefault

import "fmt"

// DefaultPrefix is prepended to a target to name its implicit fallback key.
const DefaultPrefix = "DEFAULT_"

// Kind identifies where a fallback value comes from.
type Kind int

const (
	// FromKey copies the value of another key.
	FromKey Kind = iota
	// FromLiteral uses the fallback text itself.
	FromLiteral
	// FromIndirect treats the fallback text as the name of a key to read.
	// This is how the historical literal helper behaved.
	FromIndirect
)

func (k Kind) String() string {
	switch k {
	case FromKey:
		return "key"
	case FromLiteral:
		return "literal"
	case FromIndirect:
		return "indirect"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText renders k by name in JSON and YAML documents.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Result describes the outcome of resolving a single target.
type Result struct {
	Target string `json:"target" yaml:"target"`
	// Source is the fallback key name, or the literal for FromLiteral.
	Source  string `json:"source" yaml:"source"`
	Kind    Kind   `json:"kind" yaml:"kind"`
	Value   string `json:"value" yaml:"value"`
	Applied bool   `json:"applied" yaml:"applied"`
}

// Status renders the human-readable diagnostic line for r.
func (r Result) Status() string {
	if !r.Applied {
		return fmt.Sprintf("%s already set: '%s'", r.Target, r.Value)
	}
	switch r.Kind {
	case FromLiteral:
		return fmt.Sprintf("%s not set, using default: '%s'", r.Target, r.Value)
	case FromIndirect:
		return fmt.Sprintf("%s not set, using default from $%s: '%s'", r.Target, r.Source, r.Value)
	default:
		return fmt.Sprintf("%s not set, using default from %s: '%s'", r.Target, r.Source, r.Value)
	}
}

// ResolveFromKey returns a copy of env in which target is set to the value of
// source when target is absent. source defaults to DEFAULT_<target>. An absent
// source yields an empty value. A present target, even one set to "", is left
// unchanged.
func ResolveFromKey(env Env, target string, source ...string) (Env, Result) {
	src := DefaultPrefix + target
	if len(source) > 0 && source[0] != "" {
		src = source[0]
	}
	return resolve(env, target, src, FromKey, func(e Env) string { return e[src] })
}

// ResolveFromLiteral returns a copy of env in which target is set to value
// when target is absent.
func ResolveFromLiteral(env Env, target, value string) (Env, Result) {
	return resolve(env, target, value, FromLiteral, func(Env) string { return value })
}

// ResolveFromIndirect returns a copy of env in which target is set to the
// value of the key named by name when target is absent. It preserves the
// behavior of the historical literal helper, which expanded its argument as a
// variable reference.
func ResolveFromIndirect(env Env, target, name string) (Env, Result) {
	return resolve(env, target, name, FromIndirect, func(e Env) string { return e[name] })
}

// Resolve applies rule to env.
func Resolve(env Env, rule Rule) (Env, Result) {
	switch rule.Kind {
	case FromLiteral:
		return ResolveFromLiteral(env, rule.Target, rule.Fallback)
	case FromIndirect:
		return ResolveFromIndirect(env, rule.Target, rule.Fallback)
	default:
		return ResolveFromKey(env, rule.Target, rule.Fallback)
	}
}

func resolve(env Env, target, source string, kind Kind, fallback func(Env) string) (Env, Result) {
	out := env.Clone()
	res := Result{Target: target, Source: source, Kind: kind}

	if v, ok := out[target]; ok {
		res.Value = v
		return out, res
	}

	res.Value = fallback(out)
	res.Applied = true
	out[target] = res.Value
	return out, res
}
