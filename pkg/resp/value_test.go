package resp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertValue(t *testing.T, want, got Value) {
	t.Helper()
	assert.True(t, want.Equal(got), "want %s, got %s", want, got)
}

func TestSerialize(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"null", Null(), "$-1\r\n"},
		{"simple string", SimpleString("OK"), "+OK\r\n"},
		{"bulk string", BulkString("hello"), "$5\r\nhello\r\n"},
		{"empty bulk string", BulkString(""), "$0\r\n\r\n"},
		{"bulk with crlf", BulkString("a\r\nb"), "$4\r\na\r\nb\r\n"},
		{"multibyte bulk length counts bytes", BulkString("héllo"), "$6\r\nhéllo\r\n"},
		{"integer", Integer(42), ":42\r\n"},
		{"negative integer", Integer(-7), ":-7\r\n"},
		{"error", Error("ERR boom"), "-ERR boom\r\n"},
		{"true", Boolean(true), "#t\r\n"},
		{"false", Boolean(false), "#f\r\n"},
		{"empty array", Array(), "*0\r\n"},
		{
			name:  "nested array",
			value: Array(BulkString("GET"), Array(Integer(1), Null())),
			want:  "*2\r\n$3\r\nGET\r\n*2\r\n:1\r\n$-1\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(tt.value.Bytes()))

			var buf bytes.Buffer
			n, err := tt.value.WriteTo(&buf)
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.want)), n)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestLineValues_StayOnOneLine(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"simple crlf", SimpleString("a\r\nb"), "+a  b\r\n"},
		{"simple lone lf", SimpleString("a\nb"), "+a b\r\n"},
		{"error injected reply", Error("ERR unknown command 'X\r\n+PONG'"), "-ERR unknown command 'X  +PONG'\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wire := tt.value.Bytes()
			assert.Equal(t, tt.want, string(wire))

			got, n, err := Parse(wire)
			require.NoError(t, err)
			assert.Equal(t, len(wire), n, "one frame must cover the whole encoding")
			assertValue(t, tt.value, got)
		})
	}
}

func TestAppendTo_PreservesPrefix(t *testing.T) {
	out := SimpleString("PONG").AppendTo([]byte("prefix:"))
	assert.Equal(t, "prefix:+PONG\r\n", string(out))
}

func TestZeroValueIsNull(t *testing.T) {
	var v Value
	assert.True(t, v.IsNull())
	assert.Equal(t, KindNull, v.Kind())
	assertValue(t, Null(), v)
}

func TestArray_IsImmutable(t *testing.T) {
	src := []Value{BulkString("a"), BulkString("b")}
	v := Array(src...)
	src[0] = BulkString("changed")

	elems := v.Elems()
	elems[1] = Integer(9)

	assertValue(t, Array(BulkString("a"), BulkString("b")), v)
	assert.Equal(t, 2, v.Len())
}

func TestEqual(t *testing.T) {
	assert.True(t, Null().Equal(Null()))
	assert.False(t, SimpleString("x").Equal(BulkString("x")))
	assert.False(t, Error("x").Equal(SimpleString("x")))
	assert.False(t, Integer(1).Equal(Integer(2)))
	assert.False(t, Boolean(true).Equal(Boolean(false)))
	assert.False(t, Array(Integer(1)).Equal(Array(Integer(1), Integer(2))))
	assert.True(t, Array(Array(Null())).Equal(Array(Array(Null()))))
}

func TestCommand(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		wantName string
		wantArgs []string
		wantOK   bool
	}{
		{
			name:     "bulk strings",
			value:    Array(BulkString("set"), BulkString("k"), BulkString("v")),
			wantName: "SET",
			wantArgs: []string{"k", "v"},
			wantOK:   true,
		},
		{
			name:     "simple string name",
			value:    Array(SimpleString("Ping")),
			wantName: "PING",
			wantOK:   true,
		},
		{
			name:     "non-string args are dropped",
			value:    Array(BulkString("echo"), Integer(5), Null(), SimpleString("hi"), Array()),
			wantName: "ECHO",
			wantArgs: []string{"hi"},
			wantOK:   true,
		},
		{
			name:     "arguments keep their case",
			value:    Array(BulkString("get"), BulkString("MiXeD")),
			wantName: "GET",
			wantArgs: []string{"MiXeD"},
			wantOK:   true,
		},
		{name: "empty array", value: Array()},
		{name: "not an array", value: BulkString("PING")},
		{name: "null", value: Null()},
		{name: "integer name", value: Array(Integer(1), BulkString("x"))},
		{name: "error name", value: Array(Error("PING"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, args, ok := tt.value.Command()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestValueString(t *testing.T) {
	v := Array(SimpleString("OK"), BulkString("x"), Integer(3), Null(), Error("ERR e"), Boolean(true))
	assert.Equal(t, `[OK, "x", (integer) 3, (nil), (error) ERR e, (true)]`, v.String())
	assert.Equal(t, "bulk-string", KindBulkString.String())
}
