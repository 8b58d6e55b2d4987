package evaluator

import (
	"sort"
	"strconv"
	"strings"
)

// Array is mutable: `<<` appends in place.
type Array struct {
	Elements []Object
}

func (a *Array) Type() ObjectType { return ARRAY_OBJ }
func (a *Array) Inspect() string  { return inspectValue(a, nil) }

// Bytes is one chunk delivered by a file source.
type Bytes struct {
	Value []byte
}

func (b *Bytes) Type() ObjectType { return BYTES_OBJ }
func (b *Bytes) Inspect() string  { return "bytes(" + strconv.Quote(string(b.Value)) + ")" }

type Record struct {
	Fields map[string]Object
}

func NewRecord() *Record {
	return &Record{Fields: make(map[string]Object)}
}

func (r *Record) Type() ObjectType { return RECORD_OBJ }
func (r *Record) Inspect() string  { return inspectValue(r, nil) }

// inspectValue renders containers already on the current path as [...] or
// {...}, so an array appended to itself still prints.
func inspectValue(obj Object, path map[Object]bool) string {
	switch obj := obj.(type) {
	case *Array:
		if path[obj] {
			return "[...]"
		}
		path = enter(path, obj)
		defer delete(path, obj)

		parts := make([]string, 0, len(obj.Elements))
		for _, el := range obj.Elements {
			parts = append(parts, inspectValue(el, path))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *Record:
		if path[obj] {
			return "{...}"
		}
		path = enter(path, obj)
		defer delete(path, obj)

		keys := make([]string, 0, len(obj.Fields))
		for k := range obj.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+inspectValue(obj.Fields[k], path))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return obj.Inspect()
}

func enter(path map[Object]bool, obj Object) map[Object]bool {
	if path == nil {
		path = make(map[Object]bool)
	}
	path[obj] = true
	return path
}
