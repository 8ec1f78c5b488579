// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package envdefault

import (
	"fmt"
	"regexp"
	"strings"
)

var keyNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Rule is a parsed resolution request.
//
// Syntax:
//
//	TARGET          fallback from DEFAULT_TARGET
//	TARGET=SOURCE   fallback from key SOURCE
//	TARGET=$NAME    fallback from key NAME (indirect)
//	TARGET:=VALUE   literal fallback VALUE
type Rule struct {
	Target   string
	Fallback string
	Kind     Kind
}

// ParseRule parses a single rule.
func ParseRule(s string) (Rule, error) {
	s = strings.TrimSpace(s)

	if target, value, ok := strings.Cut(s, ":="); ok && ValidKey(target) {
		return Rule{Target: target, Fallback: value, Kind: FromLiteral}, nil
	}

	target, source, hasSource := strings.Cut(s, "=")
	if !ValidKey(target) {
		return Rule{}, fmt.Errorf("invalid target key in rule %q", s)
	}

	if !hasSource {
		return Rule{Target: target, Fallback: DefaultPrefix + target, Kind: FromKey}, nil
	}

	kind := FromKey
	if strings.HasPrefix(source, "$") {
		kind = FromIndirect
		source = source[1:]
	}
	if source == "" {
		source = DefaultPrefix + target
	} else if !ValidKey(source) {
		return Rule{}, fmt.Errorf("invalid source key in rule %q", s)
	}

	return Rule{Target: target, Fallback: source, Kind: kind}, nil
}

// ParseRules parses each rule in order, stopping at the first error.
func ParseRules(specs []string) ([]Rule, error) {
	rules := make([]Rule, 0, len(specs))
	for _, s := range specs {
		r, err := ParseRule(s)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// String renders r in rule syntax.
func (r Rule) String() string {
	switch r.Kind {
	case FromLiteral:
		return r.Target + ":=" + r.Fallback
	case FromIndirect:
		return r.Target + "=$" + r.Fallback
	default:
		if r.Fallback == "" || r.Fallback == DefaultPrefix+r.Target {
			return r.Target
		}
		return r.Target + "=" + r.Fallback
	}
}

// ValidKey reports whether s is a usable environment variable name.
func ValidKey(s string) bool {
	return keyNameRegex.MatchString(s)
}
