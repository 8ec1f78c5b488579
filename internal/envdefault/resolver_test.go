// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package envdefault

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolver_ReportsEachCall(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)

	env := Env{"DEFAULT_A": "1", "B": ""}
	env = r.FromKey(env, "A")
	env = r.FromKey(env, "B", "A")
	env = r.FromLiteral(env, "C", "lit")
	env = r.FromIndirect(env, "D", "C")

	assert.Equal(t, "1", env["A"])
	assert.Equal(t, "", env["B"])
	assert.Equal(t, "lit", env["C"])
	assert.Equal(t, "lit", env["D"])
	assert.Equal(t,
		"A not set, using default from DEFAULT_A: '1'\n"+
			"B already set: ''\n"+
			"C not set, using default: 'lit'\n"+
			"D not set, using default from $C: 'lit'\n",
		buf.String())
}

func TestResolver_ResolveAllChains(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)

	rules := []Rule{
		{Target: "AWS_REGION", Fallback: "us-east-1", Kind: FromLiteral},
		{Target: "AWS_DEFAULT_REGION", Fallback: "AWS_REGION", Kind: FromKey},
	}
	env, results := r.ResolveAll(Env{}, rules)

	assert.Equal(t, "us-east-1", env["AWS_DEFAULT_REGION"])
	assert.Len(t, results, 2)
	assert.True(t, results[1].Applied)
	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestResolver_NilOut(t *testing.T) {
	r := &Resolver{}
	env := r.FromLiteral(Env{}, "A", "x")
	assert.Equal(t, "x", env["A"])
}

func TestWithDefaults(t *testing.T) {
	env := WithDefaults(
		Env{"DEFAULT_A": "from-env"},
		map[string]string{"A": "from-config", "B": "b"},
	)

	assert.Equal(t, "from-env", env["DEFAULT_A"])
	assert.Equal(t, "b", env["DEFAULT_B"])

	env, res := ResolveFromKey(env, "B")
	assert.True(t, res.Applied)
	assert.Equal(t, "b", env["B"])
}
