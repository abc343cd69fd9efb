package resp

import (
	"io"
	"strconv"
	"strings"
)

// Kind identifies the wire type of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindSimpleString
	KindBulkString
	KindInteger
	KindError
	KindBoolean
	KindArray
)

var kindNames = [...]string{
	KindNull:         "null",
	KindSimpleString: "simple-string",
	KindBulkString:   "bulk-string",
	KindInteger:      "integer",
	KindError:        "error",
	KindBoolean:      "boolean",
	KindArray:        "array",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a single RESP message. The zero Value is Null.
//
// Values are immutable after construction; Elems returns a copy of the
// element slice so callers cannot mutate a shared array.
type Value struct {
	kind Kind
	str  string
	num  int64
	b    bool
	arr  []Value
}

// Null returns the null value ($-1).
func Null() Value { return Value{} }

// SimpleString returns a +s value. CR and LF in s are replaced by spaces so
// the value stays on one line.
func SimpleString(s string) Value { return Value{kind: KindSimpleString, str: oneLine(s)} }

// BulkString returns a length-prefixed, binary-safe string value.
func BulkString(s string) Value { return Value{kind: KindBulkString, str: s} }

// Error returns a -s value. CR and LF in s are replaced by spaces.
func Error(s string) Value { return Value{kind: KindError, str: oneLine(s)} }

var lineBreaks = strings.NewReplacer("\r", " ", "\n", " ")

func oneLine(s string) string {
	if strings.ContainsAny(s, "\r\n") {
		return lineBreaks.Replace(s)
	}
	return s
}

// Integer returns a :i value.
func Integer(i int64) Value { return Value{kind: KindInteger, num: i} }

// Boolean returns a #t / #f value.
func Boolean(b bool) Value { return Value{kind: KindBoolean, b: b} }

// Array returns an array value holding a copy of vs.
func Array(vs ...Value) Value {
	var arr []Value
	if len(vs) > 0 {
		arr = make([]Value, len(vs))
		copy(arr, vs)
	}
	return Value{kind: KindArray, arr: arr}
}

// Kind reports the wire type.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsString reports whether v carries text usable as a command token.
func (v Value) IsString() bool {
	return v.kind == KindSimpleString || v.kind == KindBulkString
}

// Str returns the text of a simple string, bulk string or error.
// It returns "" for other kinds.
func (v Value) Str() string { return v.str }

// Int returns the integer payload. It returns 0 for other kinds.
func (v Value) Int() int64 { return v.num }

// Bool returns the boolean payload. It returns false for other kinds.
func (v Value) Bool() bool { return v.b }

// Len returns the number of elements of an array, or 0.
func (v Value) Len() int { return len(v.arr) }

// Elems returns a copy of the array elements.
func (v Value) Elems() []Value {
	if len(v.arr) == 0 {
		return nil
	}
	out := make([]Value, len(v.arr))
	copy(out, v.arr)
	return out
}

// Equal reports whether v and o have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindSimpleString, KindBulkString, KindError:
		return v.str == o.str
	case KindInteger:
		return v.num == o.num
	case KindBoolean:
		return v.b == o.b
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// AppendTo appends the wire encoding of v to dst and returns the extended slice.
func (v Value) AppendTo(dst []byte) []byte {
	switch v.kind {
	case KindSimpleString:
		dst = append(dst, '+')
		dst = append(dst, v.str...)
	case KindError:
		dst = append(dst, '-')
		dst = append(dst, v.str...)
	case KindInteger:
		dst = append(dst, ':')
		dst = strconv.AppendInt(dst, v.num, 10)
	case KindBulkString:
		dst = append(dst, '$')
		dst = strconv.AppendInt(dst, int64(len(v.str)), 10)
		dst = append(dst, '\r', '\n')
		dst = append(dst, v.str...)
	case KindBoolean:
		if v.b {
			dst = append(dst, '#', 't')
		} else {
			dst = append(dst, '#', 'f')
		}
	case KindArray:
		dst = append(dst, '*')
		dst = strconv.AppendInt(dst, int64(len(v.arr)), 10)
		dst = append(dst, '\r', '\n')
		for _, e := range v.arr {
			dst = e.AppendTo(dst)
		}
		return dst
	default:
		dst = append(dst, "$-1"...)
	}
	return append(dst, '\r', '\n')
}

// Bytes returns the wire encoding of v.
func (v Value) Bytes() []byte {
	return v.AppendTo(make([]byte, 0, v.encodedSizeHint()))
}

// WriteTo writes the wire encoding of v to w.
func (v Value) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(v.Bytes())
	return int64(n), err
}

func (v Value) encodedSizeHint() int {
	switch v.kind {
	case KindArray:
		n := 16
		for _, e := range v.arr {
			n += e.encodedSizeHint()
		}
		return n
	default:
		return len(v.str) + 24
	}
}

// Command converts an inbound array into a command name and its string
// arguments. The name is upper-cased. Elements after the first that are not
// strings are skipped. ok is false if v is not a non-empty array whose first
// element is a string.
func (v Value) Command() (name string, args []string, ok bool) {
	if v.kind != KindArray || len(v.arr) == 0 || !v.arr[0].IsString() {
		return "", nil, false
	}
	name = strings.ToUpper(v.arr[0].str)
	for _, e := range v.arr[1:] {
		if e.IsString() {
			args = append(args, e.str)
		}
	}
	return name, args, true
}

// String renders v for logs and debugging. It is not the wire encoding.
func (v Value) String() string {
	var sb strings.Builder
	v.writeDebug(&sb)
	return sb.String()
}

func (v Value) writeDebug(sb *strings.Builder) {
	switch v.kind {
	case KindNull:
		sb.WriteString("(nil)")
	case KindSimpleString:
		sb.WriteString(v.str)
	case KindBulkString:
		sb.WriteString(strconv.Quote(v.str))
	case KindError:
		sb.WriteString("(error) ")
		sb.WriteString(v.str)
	case KindInteger:
		sb.WriteString("(integer) ")
		sb.WriteString(strconv.FormatInt(v.num, 10))
	case KindBoolean:
		if v.b {
			sb.WriteString("(true)")
		} else {
			sb.WriteString("(false)")
		}
	case KindArray:
		sb.WriteByte('[')
		for i, e := range v.arr {
			if i > 0 {
				sb.WriteString(", ")
			}
			e.writeDebug(sb)
		}
		sb.WriteByte(']')
	}
}
