// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package envdefault

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromPairs(t *testing.T) {
	env := FromPairs([]string{"A=1", "B=", "C", "=skipped", "D=x=y", "A=2"})

	assert.Equal(t, Env{"A": "2", "B": "", "C": "", "D": "x=y"}, env)
}

func TestFromOS(t *testing.T) {
	t.Setenv("OPSKIT_TEST_PRESENT", "yes")
	t.Setenv("OPSKIT_TEST_EMPTY", "")

	env := FromOS()
	v, ok := env.Lookup("OPSKIT_TEST_PRESENT")
	assert.True(t, ok)
	assert.Equal(t, "yes", v)

	v, ok = env.Lookup("OPSKIT_TEST_EMPTY")
	assert.True(t, ok)
	assert.Equal(t, "", v)
}

func TestEnv_Apply(t *testing.T) {
	t.Setenv("OPSKIT_TEST_APPLY", "before")

	env := Env{"OPSKIT_TEST_APPLY": "after"}
	require.NoError(t, env.Apply("OPSKIT_TEST_APPLY", "OPSKIT_TEST_MISSING"))

	assert.Equal(t, "after", os.Getenv("OPSKIT_TEST_APPLY"))
	_, ok := os.LookupEnv("OPSKIT_TEST_MISSING")
	assert.False(t, ok)
}

func TestEnv_Export(t *testing.T) {
	env := Env{"B": "it's", "A": "plain", "E": ""}

	var buf bytes.Buffer
	require.NoError(t, env.Export(&buf))
	assert.Equal(t, "export A='plain'\nexport B='it'\\''s'\nexport E=''\n", buf.String())

	buf.Reset()
	require.NoError(t, env.Export(&buf, "E", "MISSING", "A"))
	assert.Equal(t, "export E=''\nexport A='plain'\n", buf.String())
}

func TestEnv_CloneIndependent(t *testing.T) {
	a := Env{"K": "v"}
	b := a.Clone()
	b["K"] = "changed"
	assert.Equal(t, "v", a["K"])
	assert.NotNil(t, Env(nil).Clone())
}

func TestShellQuote(t *testing.T) {
	assert.Equal(t, "''", ShellQuote(""))
	assert.Equal(t, "'a b'", ShellQuote("a b"))
	assert.Equal(t, `''\'''`, ShellQuote("'"))
}
