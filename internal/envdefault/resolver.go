// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package envdefault

import (
	"fmt"
	"io"
	"os"

	"github.com/staranto/opskit/internal/log"
)

// Resolver wraps the resolve functions and reports each outcome as a status
// line on Out.
type Resolver struct {
	Out io.Writer
}

// New returns a Resolver writing status lines to w, or to stdout when w is
// nil.
func New(w io.Writer) *Resolver {
	if w == nil {
		w = os.Stdout
	}
	return &Resolver{Out: w}
}

// FromKey is ResolveFromKey with reporting.
func (r *Resolver) FromKey(env Env, target string, source ...string) Env {
	out, res := ResolveFromKey(env, target, source...)
	r.report(res)
	return out
}

// FromLiteral is ResolveFromLiteral with reporting.
func (r *Resolver) FromLiteral(env Env, target, value string) Env {
	out, res := ResolveFromLiteral(env, target, value)
	r.report(res)
	return out
}

// FromIndirect is ResolveFromIndirect with reporting.
func (r *Resolver) FromIndirect(env Env, target, name string) Env {
	out, res := ResolveFromIndirect(env, target, name)
	r.report(res)
	return out
}

// ResolveAll applies rules in order. Each rule sees the effect of the ones
// before it.
func (r *Resolver) ResolveAll(env Env, rules []Rule) (Env, []Result) {
	results := make([]Result, 0, len(rules))
	for _, rule := range rules {
		var res Result
		env, res = Resolve(env, rule)
		r.report(res)
		results = append(results, res)
	}
	return env, results
}

// WithDefaults seeds env with DEFAULT_<key> entries from defaults. Existing
// DEFAULT_ entries win, so a caller's environment can override configured
// defaults.
func WithDefaults(env Env, defaults map[string]string) Env {
	out := env.Clone()
	for k, v := range defaults {
		dk := DefaultPrefix + k
		if _, ok := out[dk]; !ok {
			out[dk] = v
		}
	}
	return out
}

func (r *Resolver) report(res Result) {
	log.Debugf("resolved: target=%s kind=%s applied=%t", res.Target, res.Kind, res.Applied)
	if r.Out == nil {
		return
	}
	fmt.Fprintln(r.Out, res.Status())
}
