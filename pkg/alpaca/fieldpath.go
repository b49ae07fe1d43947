package alpaca

import (
	"bytes"
	"encoding"
	"encoding/json"
	"reflect"
	"strings"
)

var (
	jsonUnmarshalerType = reflect.TypeFor[json.Unmarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// failingField returns the dotted JSON path of the first value in data that
// does not decode into its Go type t. encoding/json attaches a path only to
// *json.UnmarshalTypeError, so codec failures are located here instead.
// Paths follow encoding/json: object keys joined with dots, array indices
// left out.
func failingField(t reflect.Type, data []byte) string {
	path, _ := findFailing(t, data)
	return path
}

func findFailing(t reflect.Type, data []byte) (string, bool) {
	if t == nil {
		return "", false
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	data = bytes.TrimSpace(data)

	pt := reflect.PointerTo(t)
	if pt.Implements(jsonUnmarshalerType) || pt.Implements(textUnmarshalerType) {
		return "", json.Unmarshal(data, reflect.New(t).Interface()) != nil
	}

	switch t.Kind() {
	case reflect.Struct:
		fields := jsonFields(t)
		return walkMembers(data, '{', func(key string) (string, reflect.Type, bool) {
			return lookupField(fields, key)
		})
	case reflect.Map:
		return walkMembers(data, '{', func(key string) (string, reflect.Type, bool) { return key, t.Elem(), true })
	case reflect.Slice, reflect.Array:
		return walkMembers(data, '[', func(string) (string, reflect.Type, bool) { return "", t.Elem(), true })
	default:
		return "", json.Unmarshal(data, reflect.New(t).Interface()) != nil
	}
}

// walkMembers visits the members of a JSON object or array in document
// order and stops at the first one that fails to decode. member resolves a
// key to its path segment and Go type.
func walkMembers(data []byte, open json.Delim, member func(key string) (string, reflect.Type, bool)) (string, bool) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if tok, err := dec.Token(); err != nil || tok != open {
		return "", false
	}
	for dec.More() {
		var key string
		if open == '{' {
			tok, err := dec.Token()
			if err != nil {
				return "", false
			}
			key, _ = tok.(string)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return "", false
		}
		name, t, ok := member(key)
		if !ok {
			continue
		}
		if sub, bad := findFailing(t, value); bad {
			return joinPath(name, sub), true
		}
	}
	return "", false
}

func joinPath(key, sub string) string {
	switch {
	case key == "":
		return sub
	case sub == "":
		return key
	}
	return key + "." + sub
}

// jsonFields maps the JSON names of t's fields to their types, including
// fields promoted from untagged embedded structs.
func jsonFields(t reflect.Type) map[string]reflect.Type {
	fields := make(map[string]reflect.Type, t.NumField())
	var promoted []map[string]reflect.Type
	for i := range t.NumField() {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if f.Anonymous && name == "" {
			ft := f.Type
			for ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				promoted = append(promoted, jsonFields(ft))
				continue
			}
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		fields[name] = f.Type
	}
	for _, inner := range promoted {
		for name, ft := range inner {
			if _, ok := fields[name]; !ok {
				fields[name] = ft
			}
		}
	}
	return fields
}

// lookupField matches key the way encoding/json does, exactly first and
// then case-insensitively, and returns the field's declared JSON name.
func lookupField(fields map[string]reflect.Type, key string) (string, reflect.Type, bool) {
	if t, ok := fields[key]; ok {
		return key, t, true
	}
	for name, t := range fields {
		if strings.EqualFold(name, key) {
			return name, t, true
		}
	}
	return "", nil, false
}
