// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/tidwall/gjson"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/staranto/opskit/internal/config"
	"github.com/staranto/opskit/internal/filters"
	"github.com/staranto/opskit/internal/log"
)

// Formats lists the accepted values of Options.Format.
var Formats = []string{"text", "table", "json", "yaml", "raw"}

// Attr selects one value from each row. Path is a gjson path; Key is the
// column title and the key in json/yaml output.
type Attr struct {
	Path string
	Key  string
}

// ParseAttrs parses a comma-separated list of path[:key] specs.
func ParseAttrs(spec string) []Attr {
	var attrs []Attr
	for _, s := range strings.Split(spec, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		path, key, ok := strings.Cut(s, ":")
		if !ok || key == "" {
			key = path
		}
		attrs = append(attrs, Attr{Path: path, Key: key})
	}
	return attrs
}

// Options controls how Spit renders a dataset.
type Options struct {
	Format string
	Attrs  []Attr
	Filter string
	Sort   string
	Titles bool
	Color  bool
	Header string
}

// Spit renders raw, a JSON array of objects, to w according to opts. Text
// and table output is a borderless table; json and yaml emit the selected
// attributes; raw writes the document unchanged.
func Spit(raw []byte, opts Options, w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}

	if opts.Format == "raw" {
		_, err := w.Write(raw)
		return err
	}

	if !gjson.ValidBytes(raw) {
		return fmt.Errorf("dataset is not valid JSON")
	}

	rows := Rows(gjson.ParseBytes(raw), opts.Attrs)
	rows = filters.Apply(rows, filters.Parse(opts.Filter))
	if opts.Sort != "" {
		SortRows(rows, opts.Sort)
	}

	switch opts.Format {
	case "json":
		b, err := json.Marshal(rows)
		if err != nil {
			return fmt.Errorf("failed to marshal json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "yaml":
		b, err := yaml.Marshal(rows)
		if err != nil {
			return fmt.Errorf("failed to marshal yaml: %w", err)
		}
		_, err = w.Write(b)
		return err
	default:
		TableWriter(rows, opts, w)
		return nil
	}
}

// Rows extracts the selected attributes from each element of dataset. A
// dataset that is a single object is treated as a one-row array.
func Rows(dataset gjson.Result, attrs []Attr) []map[string]interface{} {
	elems := dataset.Array()
	if dataset.IsObject() {
		elems = []gjson.Result{dataset}
	}

	rows := make([]map[string]interface{}, 0, len(elems))
	for _, e := range elems {
		row := make(map[string]interface{}, len(attrs))
		for _, a := range attrs {
			row[a.Key] = e.Get(a.Path).Value()
		}
		rows = append(rows, row)
	}
	log.Tracef("rows extracted: count=%d attrs=%d", len(rows), len(attrs))
	return rows
}

// TableWriter renders rows as a borderless table in attribute order.
func TableWriter(rows []map[string]interface{}, opts Options, w io.Writer) {
	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if opts.Color && isTerminal(w) {
		headerColor, evenColor, oddColor := getColors("colors")
		headerStyle = headerStyle.Bold(true).Foreground(headerColor)
		evenRowStyle = evenRowStyle.Foreground(evenColor)
		oddRowStyle = oddRowStyle.Foreground(oddColor)
	}

	if opts.Header != "" {
		fmt.Fprintln(w, headerStyle.Render(opts.Header))
	}

	if len(rows) == 0 {
		return
	}

	var cells [][]string
	for _, r := range rows {
		line := make([]string, 0, len(opts.Attrs))
		for _, a := range opts.Attrs {
			line = append(line, InterfaceToString(r[a.Key], "-"))
		}
		cells = append(cells, line)
	}

	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}
			if col > 0 {
				style = style.PaddingLeft(1)
			}
			return style
		}).
		Headers().
		Rows(cells...)

	if opts.Titles {
		headers := make([]string, 0, len(opts.Attrs))
		for _, a := range opts.Attrs {
			headers = append(headers, a.Key)
		}
		t = t.Headers(headers...).BorderHeader(false)
	}
	fmt.Fprintln(w, t)
}

// InterfaceToString converts supported primitive or composite values to a
// string. A custom empty value may be provided.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	if len(emptyValue) == 0 {
		emptyValue = []string{""}
	}

	if value == nil || reflect.ValueOf(value).IsZero() {
		// false and 0 are values, not blanks.
		switch value.(type) {
		case bool, float64, int, int64:
		default:
			return emptyValue[0]
		}
	}

	switch value := value.(type) {
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		b, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(b)
	}
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// getColors returns configured color values for table rendering, falling
// back to defaults picked for the terminal background.
func getColors(key string) (header, even, odd color.Color) {
	isDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)

	resolveColor := func(key string, light string, dark string) color.Color {
		if c, err := config.GetString(key); err == nil {
			return lipgloss.Color(c)
		}
		if isDark {
			return lipgloss.Color(dark)
		}
		return lipgloss.Color(light)
	}

	header = resolveColor(key+".title", "#b08800", "#f6be00")
	even = resolveColor(key+".even", "#333333", "#ffffff")
	odd = resolveColor(key+".odd", "#0088a0", "#00c8f0")
	return
}
