// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

const dataset = `[
  {"target":"TERM","value":"xterm","applied":true,"meta":{"kind":"literal"}},
  {"target":"AWS_REGION","value":"","applied":false,"meta":{"kind":"key"}}
]`

func TestParseAttrs(t *testing.T) {
	attrs := ParseAttrs(" target, meta.kind:kind ,,value:")
	assert.Equal(t, []Attr{
		{Path: "target", Key: "target"},
		{Path: "meta.kind", Key: "kind"},
		{Path: "value", Key: "value"},
	}, attrs)

	assert.Empty(t, ParseAttrs(""))
}

func TestRows(t *testing.T) {
	rows := Rows(gjson.Parse(dataset), ParseAttrs("target,meta.kind:kind,missing"))

	require.Len(t, rows, 2)
	assert.Equal(t, "TERM", rows[0]["target"])
	assert.Equal(t, "literal", rows[0]["kind"])
	assert.Nil(t, rows[0]["missing"])
}

func TestRows_SingleObject(t *testing.T) {
	rows := Rows(gjson.Parse(`{"bytes":42}`), ParseAttrs("bytes"))
	require.Len(t, rows, 1)
	assert.Equal(t, 42.0, rows[0]["bytes"])
}

func TestSpit_JSON(t *testing.T) {
	var buf bytes.Buffer
	err := Spit([]byte(dataset), Options{Format: "json", Attrs: ParseAttrs("target,applied")}, &buf)
	require.NoError(t, err)

	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, []map[string]interface{}{
		{"target": "TERM", "applied": true},
		{"target": "AWS_REGION", "applied": false},
	}, got)
}

func TestSpit_Filtered(t *testing.T) {
	var buf bytes.Buffer
	opts := Options{Format: "json", Attrs: ParseAttrs("target,applied"), Filter: "applied"}
	require.NoError(t, Spit([]byte(dataset), opts, &buf))

	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, []map[string]interface{}{
		{"target": "TERM", "applied": true},
	}, got)
}

func TestSpit_YAMLSorted(t *testing.T) {
	var buf bytes.Buffer
	err := Spit([]byte(dataset), Options{Format: "yaml", Attrs: ParseAttrs("target"), Sort: "target"}, &buf)
	require.NoError(t, err)

	var got []map[string]string
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, []map[string]string{{"target": "AWS_REGION"}, {"target": "TERM"}}, got)
}

func TestSpit_Raw(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Spit([]byte("not even json"), Options{Format: "raw"}, &buf))
	assert.Equal(t, "not even json", buf.String())
}

func TestSpit_InvalidJSON(t *testing.T) {
	var buf bytes.Buffer
	err := Spit([]byte("{"), Options{Format: "json"}, &buf)
	assert.Error(t, err)
}

func TestSpit_Text(t *testing.T) {
	var buf bytes.Buffer
	err := Spit([]byte(dataset), Options{
		Format: "text",
		Attrs:  ParseAttrs("target,value,applied"),
		Titles: true,
		Header: "Resolved keys:",
		Color:  true,
	}, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Resolved keys:")
	assert.Contains(t, out, "target")
	assert.Contains(t, out, "TERM")
	assert.Contains(t, out, "xterm")
	assert.Contains(t, out, "AWS_REGION")
	assert.Contains(t, out, "false")
}

func TestTableWriter_EmptyRows(t *testing.T) {
	var buf bytes.Buffer
	TableWriter(nil, Options{Header: "none"}, &buf)
	assert.Equal(t, "none", strings.TrimSpace(buf.String()))
}

func TestSortRows(t *testing.T) {
	rows := []map[string]interface{}{
		{"name": "b", "size": 2.0},
		{"name": "A", "size": 10.0},
		{"name": "c", "size": 2.0},
	}

	SortRows(rows, "name")
	assert.Equal(t, "A", rows[0]["name"])

	SortRows(rows, "!name")
	assert.Equal(t, "A", rows[0]["name"], "uppercase sorts first when case sensitive")

	SortRows(rows, "-size,name")
	assert.Equal(t, []string{"A", "b", "c"}, []string{
		rows[0]["name"].(string), rows[1]["name"].(string), rows[2]["name"].(string),
	})

	SortRows(rows, "size,-name")
	assert.Equal(t, "c", rows[0]["name"])
	assert.Equal(t, "A", rows[2]["name"])
}

func TestInterfaceToString(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		empty []string
		want  string
	}{
		{"nil", nil, nil, ""},
		{"nil custom empty", nil, []string{"-"}, "-"},
		{"empty string", "", []string{"-"}, "-"},
		{"string", "x", nil, "x"},
		{"int", 7, nil, "7"},
		{"int64", int64(8), nil, "8"},
		{"float whole", 4096.0, nil, "4096"},
		{"float fraction", 1.5, nil, "1.5"},
		{"zero float", 0.0, []string{"-"}, "0"},
		{"false", false, []string{"-"}, "false"},
		{"map", map[string]interface{}{"a": 1.0}, nil, `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InterfaceToString(tt.value, tt.empty...))
		})
	}
}
