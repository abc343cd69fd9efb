package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/yndnr/respkv/pkg/resp"
)

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON).(*JSONFormatter); !ok {
		t.Error("expected JSONFormatter")
	}
	if _, ok := NewFormatter(FormatYAML).(*YAMLFormatter); !ok {
		t.Error("expected YAMLFormatter")
	}
	if _, ok := NewFormatter(FormatRaw).(*RawFormatter); !ok {
		t.Error("expected RawFormatter")
	}
	if _, ok := NewFormatter("unknown").(*RawFormatter); !ok {
		t.Error("unknown formats should default to raw")
	}
}

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"raw", "JSON", "Yaml"} {
		if _, err := ParseFormat(in); err != nil {
			t.Errorf("ParseFormat(%q) error = %v", in, err)
		}
	}
	if _, err := ParseFormat("table"); err == nil {
		t.Error("ParseFormat(table) should fail")
	}
}

func format(t *testing.T, f Formatter, v resp.Value) string {
	t.Helper()
	var buf bytes.Buffer
	if err := f.Format(&buf, v); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	return buf.String()
}

func TestRawFormatter_Format(t *testing.T) {
	tests := []struct {
		name string
		v    resp.Value
		want string
	}{
		{"simple string", resp.SimpleString("PONG"), "PONG\n"},
		{"bulk string", resp.BulkString("hello world"), "\"hello world\"\n"},
		{"bulk with quote", resp.BulkString(`say "hi"`), "\"say \\\"hi\\\"\"\n"},
		{"empty bulk", resp.BulkString(""), "\"\"\n"},
		{"integer", resp.Integer(3), "(integer) 3\n"},
		{"negative integer", resp.Integer(-1), "(integer) -1\n"},
		{"null", resp.Null(), "(nil)\n"},
		{"error", resp.Error("ERR unknown command 'X'"), "(error) ERR unknown command 'X'\n"},
		{"true", resp.Boolean(true), "(true)\n"},
		{"false", resp.Boolean(false), "(false)\n"},
		{"empty array", resp.Array(), "(empty array)\n"},
		{"multi-line bulk", resp.BulkString("line one\nline two"), "line one\nline two\n"},
		{
			"array",
			resp.Array(resp.BulkString("a"), resp.Integer(1), resp.Null()),
			"1) \"a\"\n2) (integer) 1\n3) (nil)\n",
		},
		{
			"nested array",
			resp.Array(resp.BulkString("a"), resp.Array(resp.BulkString("b"), resp.BulkString("c"))),
			"1) \"a\"\n2) 1) \"b\"\n   2) \"c\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := format(t, &RawFormatter{}, tt.v); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRawFormatter_WideArrayAligns(t *testing.T) {
	elems := make([]resp.Value, 10)
	for i := range elems {
		elems[i] = resp.Integer(int64(i))
	}

	out := format(t, &RawFormatter{}, resp.Array(elems...))
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if lines[0] != " 1) (integer) 0" {
		t.Errorf("first line = %q", lines[0])
	}
	if lines[9] != "10) (integer) 9" {
		t.Errorf("last line = %q", lines[9])
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	tests := []struct {
		name string
		v    resp.Value
		want string
	}{
		{"string", resp.BulkString("v"), `"v"`},
		{"integer", resp.Integer(42), `42`},
		{"null", resp.Null(), `null`},
		{"boolean", resp.Boolean(true), `true`},
		{"error", resp.Error("ERR bad"), "{\n  \"error\": \"ERR bad\"\n}"},
		{"array", resp.Array(resp.SimpleString("OK"), resp.Integer(1)), "[\n  \"OK\",\n  1\n]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := strings.TrimSpace(format(t, &JSONFormatter{}, tt.v))
			if got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestYAMLFormatter_Format(t *testing.T) {
	tests := []struct {
		name string
		v    resp.Value
		want string
	}{
		{"string", resp.SimpleString("PONG"), "PONG\n"},
		{"integer", resp.Integer(7), "7\n"},
		{"null", resp.Null(), "null\n"},
		{"error", resp.Error("ERR bad"), "error: ERR bad\n"},
		{"array", resp.Array(resp.BulkString("a"), resp.Integer(2)), "- a\n- 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := format(t, &YAMLFormatter{}, tt.v); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}
