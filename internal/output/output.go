// Package output renders command results as aligned text tables or
// pretty-printed JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"unicode"
)

// Formatter writes command results in text or JSON form.
type Formatter struct {
	Writer   io.Writer
	JSONMode bool
}

// New returns a Formatter writing to w.
func New(w io.Writer, jsonMode bool) *Formatter {
	return &Formatter{Writer: w, JSONMode: jsonMode}
}

// List renders a collection of models. Text mode prints rows as a table,
// or the empty message alone when there are no rows and empty is set.
// JSON mode encodes data, the models the rows were built from, so an empty
// result is still a JSON array.
func (f *Formatter) List(empty string, headers []string, rows [][]string, data any) error {
	if f.JSONMode {
		return f.Print(data)
	}
	if len(rows) == 0 && empty != "" {
		return f.line(empty)
	}
	return f.writeTable(headers, rows)
}

// Table renders rows that have no backing model. In JSON mode each row
// becomes an object keyed by the snake_cased header, e.g. "Open Interest"
// becomes "open_interest".
func (f *Formatter) Table(headers []string, rows [][]string) error {
	if !f.JSONMode {
		return f.writeTable(headers, rows)
	}

	keys := make([]string, len(headers))
	for i, h := range headers {
		keys[i] = snakeCase(h)
	}
	objs := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		obj := make(map[string]string, len(keys))
		for i, k := range keys {
			if i < len(row) {
				obj[k] = row[i]
			} else {
				obj[k] = ""
			}
		}
		objs = append(objs, obj)
	}
	return f.Print(objs)
}

// Result reports the outcome of a mutation: msg in text mode, data in JSON
// mode.
func (f *Formatter) Result(msg string, data any) error {
	if f.JSONMode {
		return f.Print(data)
	}
	return f.line(msg)
}

// Print encodes data as indented JSON, or with %v outside JSON mode.
func (f *Formatter) Print(data any) error {
	if !f.JSONMode {
		_, err := fmt.Fprintf(f.Writer, "%v\n", data)
		return err
	}
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func (f *Formatter) line(s string) error {
	_, err := fmt.Fprintln(f.Writer, s)
	return err
}

// writeTable prints headers, a dashed rule under each header and the rows,
// padded into columns.
func (f *Formatter) writeTable(headers []string, rows [][]string) error {
	tw := tabwriter.NewWriter(f.Writer, 0, 0, 2, ' ', 0)

	rule := make([]string, len(headers))
	for i, h := range headers {
		rule[i] = strings.Repeat("-", len(h))
	}
	lines := append([][]string{headers, rule}, rows...)
	for _, cols := range lines {
		if _, err := fmt.Fprintln(tw, strings.Join(cols, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// snakeCase lowercases h and joins its alphanumeric runs with underscores.
func snakeCase(h string) string {
	words := strings.FieldsFunc(h, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.ToLower(strings.Join(words, "_"))
}
