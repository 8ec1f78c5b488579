// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/staranto/opskit/internal/log"
)

// filterRegex splits an expression into key, operator (optionally negated)
// and target. Operators are one of = ^ ~ < > @ or /.
var filterRegex = regexp.MustCompile(`^([^!=^~<>@/]*)(!?[=^~<>@/])?(.*)$`)

// Filter is a single parsed --filter expression.
type Filter struct {
	Key     string `yaml:"key" json:"key"`
	Negate  bool   `yaml:"negate" json:"negate"`
	Operand string `yaml:"operand" json:"operand"`
	Value   string `yaml:"value" json:"value"`
}

// Parse splits spec on "," (or OPSKIT_FILTER_DELIM) and parses each entry.
// Malformed entries are logged and skipped.
func Parse(spec string) []Filter {
	//nolint:prealloc
	var filters []Filter

	if spec == "" {
		return filters
	}

	delim := ","
	if d, ok := os.LookupEnv("OPSKIT_FILTER_DELIM"); ok && d != "" {
		delim = d
	}

	for _, s := range strings.Split(spec, delim) {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}

		parts := filterRegex.FindStringSubmatch(s)
		key := ""
		if parts != nil {
			key = strings.TrimSpace(parts[1])
		}
		if key == "" {
			log.Errorf("invalid filter: %s", s)
			continue
		}

		operand := parts[2]
		negate := strings.HasPrefix(operand, "!")
		filters = append(filters, Filter{
			Key:     key,
			Negate:  negate,
			Operand: strings.TrimPrefix(operand, "!"),
			Value:   parts[3],
		})
	}

	return filters
}

// Apply returns the rows that match every filter. A filter naming a key no
// row carries is reported once and ignored.
func Apply(rows []map[string]interface{}, filters []Filter) []map[string]interface{} {
	if len(filters) == 0 {
		return rows
	}

	active := filters[:0:0]
	for _, f := range filters {
		if !anyHasKey(rows, f.Key) && len(rows) > 0 {
			log.Warnf("filter key not found: %s", f.Key)
			continue
		}
		active = append(active, f)
	}

	kept := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		if matchAll(row, active) {
			kept = append(kept, row)
		}
	}
	log.Debugf("filtered rows: in=%d out=%d", len(rows), len(kept))
	return kept
}

// Match reports whether row satisfies f.
func (f Filter) Match(row map[string]interface{}) bool {
	value := row[f.Key]
	if value == nil {
		return f.Operand != "" && f.Negate
	}

	// A bare key tests truthiness.
	if f.Operand == "" {
		return truthy(value)
	}

	switch v := value.(type) {
	case string:
		return matchString(v, f)
	case bool:
		return matchString(strconv.FormatBool(v), f)
	case float64:
		return matchNumber(v, f)
	case []interface{}:
		return matchContains(v, f)
	default:
		return matchString(fmt.Sprintf("%v", v), f)
	}
}

func matchAll(row map[string]interface{}, filters []Filter) bool {
	for _, f := range filters {
		if !f.Match(row) {
			return false
		}
	}
	return true
}

func anyHasKey(rows []map[string]interface{}, key string) bool {
	for _, r := range rows {
		if _, ok := r[key]; ok {
			return true
		}
	}
	return false
}

func truthy(v interface{}) bool {
	switch v := v.(type) {
	case bool:
		return v
	case string:
		return v != "" && v != "false" && v != "0"
	case float64:
		return v != 0
	default:
		return v != nil
	}
}

func matchContains(items []interface{}, f Filter) bool {
	if f.Operand != "@" {
		log.Errorf("unsupported operand for list: %s", f.Operand)
		return false
	}
	for _, item := range items {
		if fmt.Sprintf("%v", item) == f.Value {
			return !f.Negate
		}
	}
	return f.Negate
}

func matchNumber(v float64, f Filter) bool {
	tgt, err := strconv.ParseFloat(strings.TrimSpace(f.Value), 64)
	if err != nil {
		// Not a number on the right, compare as text.
		return matchString(strconv.FormatFloat(v, 'f', -1, 64), f)
	}

	var ok bool
	switch f.Operand {
	case "=":
		ok = v == tgt
	case ">":
		ok = v > tgt
	case "<":
		ok = v < tgt
	default:
		return matchString(strconv.FormatFloat(v, 'f', -1, 64), f)
	}
	return ok != f.Negate
}

func matchString(v string, f Filter) bool {
	var ok bool
	switch f.Operand {
	case "=":
		ok = v == f.Value
	case "~":
		ok = strings.EqualFold(v, f.Value)
	case "^":
		ok = strings.HasPrefix(v, f.Value)
	case ">":
		ok = v > f.Value
	case "<":
		ok = v < f.Value
	case "@":
		ok = strings.Contains(v, f.Value)
	case "/":
		re, err := regexp.Compile(f.Value)
		if err != nil {
			log.Errorf("invalid regex: %s", f.Value)
			return false
		}
		ok = re.MatchString(v)
	default:
		log.Errorf("unsupported filtering operand: %s", f.Operand)
		return false
	}
	return ok != f.Negate
}
