package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/yndnr/respkv/pkg/resp"
)

// Format represents the output format.
type Format string

const (
	FormatRaw  Format = "raw"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the accepted format names.
func Formats() []Format {
	return []Format{FormatRaw, FormatJSON, FormatYAML}
}

// ParseFormat resolves a format name, ignoring case.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (want raw, json or yaml)", s)
}

// Formatter writes one reply.
type Formatter interface {
	Format(w io.Writer, v resp.Value) error
}

// NewFormatter creates a formatter for the given format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return &RawFormatter{}
	}
}

// toData maps a reply onto plain Go values for the structured encoders.
func toData(v resp.Value) any {
	switch v.Kind() {
	case resp.KindNull:
		return nil
	case resp.KindSimpleString, resp.KindBulkString:
		return v.Str()
	case resp.KindError:
		return map[string]string{"error": v.Str()}
	case resp.KindInteger:
		return v.Int()
	case resp.KindBoolean:
		return v.Bool()
	case resp.KindArray:
		elems := v.Elems()
		out := make([]any, len(elems))
		for i, e := range elems {
			out[i] = toData(e)
		}
		return out
	}
	return nil
}
