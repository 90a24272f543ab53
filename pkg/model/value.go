package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValueKind tags the scalar carried by a Value.
type ValueKind uint8

const (
	KindAbsent ValueKind = iota
	KindString
	KindNumber
	KindBool
)

// Value is a single collected answer: a string, a number or a bool. The zero
// Value is absent.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	flag bool
}

// String wraps s.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number wraps n.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// Bool wraps b.
func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }

// Kind reports the scalar kind.
func (v Value) Kind() ValueKind { return v.kind }

// IsAbsent reports whether no value was ever collected.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// IsBlank reports whether v is absent or its textual form trims to "".
func (v Value) IsBlank() bool {
	if v.kind == KindAbsent {
		return true
	}
	return strings.TrimSpace(v.String()) == ""
}

// Truthy mirrors browser truthiness: absent, "", 0, NaN and false are falsy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindString:
		return v.str != ""
	case KindNumber:
		return v.num != 0 && !math.IsNaN(v.num)
	case KindBool:
		return v.flag
	default:
		return false
	}
}

// Omittable reports whether the value carries no meaningful answer for a
// payload: absent, empty string or false.
func (v Value) Omittable() bool {
	switch v.kind {
	case KindAbsent:
		return true
	case KindString:
		return v.str == ""
	case KindBool:
		return !v.flag
	default:
		return false
	}
}

// String returns the textual form used for validation and rendering.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.flag)
	default:
		return ""
	}
}

// Float returns the numeric payload and whether v is a number.
func (v Value) Float() (float64, bool) { return v.num, v.kind == KindNumber }

// BoolValue returns the boolean payload and whether v is a bool.
func (v Value) BoolValue() (bool, bool) { return v.flag, v.kind == KindBool }

// Equal reports whether both values hold the same scalar.
func (v Value) Equal(other Value) bool {
	return v == other
}

// MarshalJSON emits the native JSON scalar; absent values encode as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return nil, fmt.Errorf("model: value %v is not representable in JSON", v.num)
		}
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.flag)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts a JSON string, number, bool or null.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*v = Value{}
		return nil
	}
	var raw any
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}
	switch typed := raw.(type) {
	case string:
		*v = String(typed)
	case float64:
		*v = Number(typed)
	case bool:
		*v = Bool(typed)
	default:
		return fmt.Errorf("model: value must be a scalar, got %T", raw)
	}
	return nil
}

// Values maps element ids to collected answers.
type Values map[string]Value

// Get returns the value stored under id; missing ids yield an absent Value.
func (vs Values) Get(id string) Value {
	if vs == nil {
		return Value{}
	}
	return vs[id]
}

// Clone returns a copy of vs. A nil map clones to an empty one.
func (vs Values) Clone() Values {
	out := make(Values, len(vs))
	for id, value := range vs {
		out[id] = value
	}
	return out
}
