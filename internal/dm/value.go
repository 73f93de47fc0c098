package dm

// ValueKind enumerates the payload types a resource value can carry.
type ValueKind int

const (
	// KindNone is the zero Value; reading it with any accessor fails.
	KindNone ValueKind = iota

	// KindInt is a signed 64-bit integer (also used for timestamps).
	KindInt

	// KindString is a text value.
	KindString

	// KindBytes is an opaque byte value (e.g. key material).
	KindBytes
)

// Value is a tagged resource value. Values are immutable once built;
// byte payloads are copied on construction and on access so neither
// side can mutate the other's buffer.
type Value struct {
	kind ValueKind
	i    int64
	s    string
	b    []byte
}

// IntValue builds an integer Value.
func IntValue(v int64) Value {
	return Value{kind: KindInt, i: v}
}

// StringValue builds a string Value.
func StringValue(s string) Value {
	return Value{kind: KindString, s: s}
}

// BytesValue builds a byte Value. The input is copied.
func BytesValue(b []byte) Value {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Value{kind: KindBytes, b: cp}
}

// Kind reports the payload type.
func (v Value) Kind() ValueKind {
	return v.kind
}

// Int returns the integer payload. The second return is false when the
// value is not an integer.
func (v Value) Int() (int64, bool) {
	return v.i, v.kind == KindInt
}

// String returns the string payload. The second return is false when
// the value is not a string.
func (v Value) String() (string, bool) {
	return v.s, v.kind == KindString
}

// Bytes returns a copy of the byte payload. The second return is false
// when the value is not bytes.
func (v Value) Bytes() ([]byte, bool) {
	if v.kind != KindBytes {
		return nil, false
	}
	cp := make([]byte, len(v.b))
	copy(cp, v.b)
	return cp, true
}
