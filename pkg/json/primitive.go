package json

import (
	"fmt"
	"reflect"
)

// IsPrimitive reports whether v is written with its plain string form rather than as JSON.
// Booleans, numbers and named types over them (enums) count, as do pointers to those.
// A plain string is not primitive, it is written as a quoted JSON string.
func IsPrimitive(v interface{}) bool {
	if v == nil {
		return false
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return t != stringType
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

var stringType = reflect.TypeOf("")

// PlainString is the text form of a value: String() when available, fmt otherwise.
// Pointers are followed, a nil pointer renders empty.
func PlainString(v interface{}) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return ""
		}
		rv = rv.Elem()
		if s, ok := rv.Interface().(fmt.Stringer); ok {
			return s.String()
		}
	}
	if !rv.IsValid() {
		return ""
	}
	return fmt.Sprint(rv.Interface())
}
