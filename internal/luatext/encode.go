// Package luatext renders Go values as Lua literal source text.
//
// A single recursive encoder covers every shape handed to a plugin: nil,
// booleans, numbers, strings, lists, string-keyed maps and ordered Tables.
// Typed widget and option records are lowered to Tables and go through the
// same path, so escaping is identical everywhere.
package luatext

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Field is one named entry of a Table.
type Field struct {
	Key   string
	Value any
}

// Table is a Lua table with named entries emitted in declaration order.
type Table []Field

var quoteReplacer = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Quote returns s as a double-quoted Lua string literal. Only backslash and
// double quote are escaped; every other byte, control characters included,
// is written as is.
func Quote(s string) string {
	return `"` + quoteReplacer.Replace(s) + `"`
}

// Encode returns the Lua literal for v.
func Encode(v any) string {
	var b strings.Builder
	encode(&b, v)
	return b.String()
}

func encode(b *strings.Builder, v any) {
	switch x := v.(type) {
	case nil:
		b.WriteString("nil")
	case bool:
		b.WriteString(strconv.FormatBool(x))
	case string:
		b.WriteString(Quote(x))
	case json.Number:
		encodeJSONNumber(b, x)
	case float64:
		b.WriteString(FormatNumber(x))
	case float32:
		b.WriteString(FormatNumber(float64(x)))
	case int:
		b.WriteString(strconv.FormatInt(int64(x), 10))
	case int32:
		b.WriteString(strconv.FormatInt(int64(x), 10))
	case int64:
		b.WriteString(strconv.FormatInt(x, 10))
	case uint:
		b.WriteString(strconv.FormatUint(uint64(x), 10))
	case uint32:
		b.WriteString(strconv.FormatUint(uint64(x), 10))
	case uint64:
		b.WriteString(strconv.FormatUint(x, 10))
	case Table:
		b.WriteByte('{')
		for i, f := range x {
			if i > 0 {
				b.WriteString(", ")
			}
			encodeEntry(b, f.Key, f.Value)
		}
		b.WriteByte('}')
	case []any:
		b.WriteByte('{')
		for i, e := range x {
			if i > 0 {
				b.WriteString(", ")
			}
			encode(b, e)
		}
		b.WriteByte('}')
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			encodeEntry(b, k, x[k])
		}
		b.WriteByte('}')
	default:
		encodeReflect(b, v)
	}
}

func encodeEntry(b *strings.Builder, key string, v any) {
	b.WriteString("[")
	b.WriteString(Quote(key))
	b.WriteString("] = ")
	encode(b, v)
}

// encodeReflect handles typed pointers, slices and maps by lowering them to
// the generic shapes above.
func encodeReflect(b *strings.Builder, v any) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			b.WriteString("nil")
			return
		}
		encode(b, rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			b.WriteString("{}")
			return
		}
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		encode(b, items)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			panic(fmt.Sprintf("luatext: unsupported map key type %s", rv.Type().Key()))
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		encode(b, m)
	case reflect.String:
		b.WriteString(Quote(rv.String()))
	case reflect.Bool:
		b.WriteString(strconv.FormatBool(rv.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		b.WriteString(strconv.FormatInt(rv.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		b.WriteString(strconv.FormatUint(rv.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		b.WriteString(FormatNumber(rv.Float()))
	default:
		panic(fmt.Sprintf("luatext: unsupported value of type %T", v))
	}
}

func encodeJSONNumber(b *strings.Builder, n json.Number) {
	s := n.String()
	if s == "" {
		b.WriteString("0")
		return
	}
	// json.Number from a decoder is already valid Lua numeral syntax; anything
	// else is reformatted through float64.
	if _, err := strconv.ParseFloat(s, 64); err == nil && !strings.HasPrefix(s, "+") && !strings.ContainsAny(s, "xXpP_iInN") {
		b.WriteString(s)
		return
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		b.WriteString("nil")
		return
	}
	b.WriteString(FormatNumber(f))
}

// FormatNumber formats f the way encoding/json does, with Lua expressions for
// the values JSON cannot carry: (0/0) for NaN and (1/0), (-1/0) for the infinities.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "(0/0)"
	case math.IsInf(f, 1):
		return "(1/0)"
	case math.IsInf(f, -1):
		return "(-1/0)"
	}

	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	s := strconv.FormatFloat(f, format, -1, 64)
	if format == 'e' {
		// clean up e-09 to e-9
		n := len(s)
		if n >= 4 && s[n-4] == 'e' && s[n-3] == '-' && s[n-2] == '0' {
			s = s[:n-2] + s[n-1:]
		}
	}
	return s
}
