package logger

import (
	"log/slog"
	"strconv"
)

// MaxValueLen bounds string attributes. Request payloads can be up to the
// protocol's bulk limit and must not be copied into logs whole.
const MaxValueLen = 256

// Abbreviate shortens s to MaxValueLen bytes, noting how much was dropped.
func Abbreviate(s string) string {
	if len(s) <= MaxValueLen {
		return s
	}
	return s[:MaxValueLen] + "...(+" + strconv.Itoa(len(s)-MaxValueLen) + " bytes)"
}

// abbreviateAttr is the slog ReplaceAttr hook.
func abbreviateAttr(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		if s := a.Value.String(); len(s) > MaxValueLen {
			return slog.String(a.Key, Abbreviate(s))
		}
	case slog.KindGroup:
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = abbreviateAttr(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}
	return a
}

// abbreviateArgs applies Abbreviate to the string values of a key/value list.
func abbreviateArgs(args []any) []any {
	var out []any
	for i := 1; i < len(args); i += 2 {
		s, ok := args[i].(string)
		if !ok || len(s) <= MaxValueLen {
			continue
		}
		if out == nil {
			out = make([]any, len(args))
			copy(out, args)
		}
		out[i] = Abbreviate(s)
	}
	if out == nil {
		return args
	}
	return out
}
