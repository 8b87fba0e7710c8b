// Package attr reads named fields out of loosely shaped provider payloads.
//
// Provider SDK objects arrive either as keyed containers (maps decoded from JSON,
// hand-built fixtures) or as attribute-bearing structs. Downstream code only ever
// talks to the Reader capability, the concrete shape is resolved once in For.
package attr

import (
	"reflect"
	"strings"

	"github.com/iancoleman/strcase"
)

// Reader looks up a single named field. The boolean is false when the field
// does not exist or holds a nil value.
type Reader interface {
	Lookup(field string) (any, bool)
}

// MapReader reads from any map keyed by a string kind.
type MapReader struct {
	v reflect.Value
}

func (m MapReader) Lookup(field string) (any, bool) {
	key := reflect.ValueOf(field)
	if kt := m.v.Type().Key(); kt != key.Type() {
		key = key.Convert(kt)
	}
	return unwrap(m.v.MapIndex(key))
}

// StructReader reads struct fields by json tag, by Go field name (snake_case
// names are camel-cased first) and finally by zero-argument accessor methods.
type StructReader struct {
	v reflect.Value
}

func (s StructReader) Lookup(field string) (any, bool) {
	t := s.v.Type()
	goName := strcase.ToCamel(field)

	var byName []int
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		if tagName(f) == field {
			return s.fieldByIndex(f.Index)
		}
		if byName == nil && (f.Name == goName || strings.EqualFold(f.Name, field)) {
			byName = f.Index
		}
	}
	if byName != nil {
		return s.fieldByIndex(byName)
	}

	return s.method(goName)
}

func (s StructReader) fieldByIndex(index []int) (any, bool) {
	fv, err := s.v.FieldByIndexErr(index)
	if err != nil {
		// nil embedded pointer on the path
		return nil, false
	}
	return unwrap(fv)
}

func (s StructReader) method(name string) (any, bool) {
	candidates := []reflect.Value{s.v}
	if s.v.CanAddr() {
		candidates = append(candidates, s.v.Addr())
	}
	for _, c := range candidates {
		m := c.MethodByName(name)
		if !m.IsValid() {
			continue
		}
		mt := m.Type()
		if mt.NumIn() != 0 || mt.NumOut() != 1 {
			return nil, false
		}
		return unwrap(m.Call(nil)[0])
	}
	return nil, false
}

func tagName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" || tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	return name
}

// For resolves the Reader for v. Values that already implement Reader are used
// as is, maps with string keys get a MapReader, structs (through any number of
// pointers) get a StructReader. Everything else has no fields.
func For(v any) (Reader, bool) {
	if r, ok := v.(Reader); ok {
		return r, true
	}
	rv, ok := indirect(reflect.ValueOf(v))
	if !ok {
		return nil, false
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		return MapReader{v: rv}, true
	case reflect.Struct:
		return StructReader{v: rv}, true
	default:
		return nil, false
	}
}

// Get returns field from v, or def if v has no such field. It never panics on
// a missing field or an unexpected shape.
func Get(v any, field string, def any) any {
	r, ok := For(v)
	if !ok {
		return def
	}
	ret, ok := r.Lookup(field)
	if !ok {
		return def
	}
	return ret
}

// IsMapLike reports whether v is a keyed container, as opposed to an
// attribute-bearing object.
func IsMapLike(v any) bool {
	if _, ok := v.(Reader); ok {
		return true
	}
	rv, ok := indirect(reflect.ValueOf(v))
	return ok && rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String
}

// String returns v as a string if its underlying kind is string.
func String(v any) (string, bool) {
	if s, ok := v.(string); ok {
		return s, true
	}
	rv, ok := indirect(reflect.ValueOf(v))
	if !ok || rv.Kind() != reflect.String {
		return "", false
	}
	return rv.String(), true
}

// IsList reports whether v is a slice or array. Byte slices are binary
// payloads, not lists.
func IsList(v any) bool {
	rv, ok := indirect(reflect.ValueOf(v))
	if !ok {
		return false
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv.Type().Elem().Kind() != reflect.Uint8
	default:
		return false
	}
}

// Items returns the elements of a list value, or nil if v is not a list.
func Items(v any) []any {
	if !IsList(v) {
		return nil
	}
	rv, _ := indirect(reflect.ValueOf(v))
	ret := make([]any, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		item, _ := unwrap(rv.Index(i))
		ret = append(ret, item)
	}
	return ret
}

// IsNil reports whether v is nil or a nil pointer/interface chain.
func IsNil(v any) bool {
	_, ok := indirect(reflect.ValueOf(v))
	return !ok
}

// IsEmpty reports whether v is absent or an empty/zero scalar or container.
// Structs are never empty.
func IsEmpty(v any) bool {
	rv, ok := indirect(reflect.ValueOf(v))
	if !ok {
		return true
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.String, reflect.Chan:
		return rv.Len() == 0
	case reflect.Struct:
		return false
	default:
		return rv.IsZero()
	}
}

func indirect(rv reflect.Value) (reflect.Value, bool) {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}, false
		}
		rv = rv.Elem()
	}
	return rv, rv.IsValid()
}

// unwrap turns a looked-up value into a plain interface, following pointers so
// that *string fields read as strings. Nil values count as absent.
func unwrap(rv reflect.Value) (any, bool) {
	if !rv.IsValid() {
		return nil, false
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return nil, false
		}
	}
	if rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		inner, ok := indirect(rv)
		if !ok {
			return nil, false
		}
		if inner.Kind() != reflect.Struct && inner.Kind() != reflect.Map && inner.CanInterface() {
			return inner.Interface(), true
		}
	}
	if !rv.CanInterface() {
		return nil, false
	}
	return rv.Interface(), true
}
