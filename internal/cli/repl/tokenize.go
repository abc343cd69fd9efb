package repl

import (
	"errors"
	"strings"
)

// ErrUnbalancedQuotes is returned for a line with an unterminated quoted string.
var ErrUnbalancedQuotes = errors.New("unbalanced quotes in input")

// Tokenize splits line on whitespace. A double-quoted section is kept in
// one argument and may contain \" and \\ escapes; other backslashes are
// taken literally. Quoted text directly next to unquoted text joins it,
// so `a"b c"` is the single argument `ab c`.
func Tokenize(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inToken bool
		quoted  bool
	)

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quoted && c == '\\' && i+1 < len(line) && (line[i+1] == '"' || line[i+1] == '\\'):
			i++
			cur.WriteByte(line[i])
		case c == '"':
			quoted = !quoted
			inToken = true
		case !quoted && isSpace(c):
			if inToken {
				args = append(args, cur.String())
				cur.Reset()
				inToken = false
			}
		default:
			cur.WriteByte(c)
			inToken = true
		}
	}

	if quoted {
		return nil, ErrUnbalancedQuotes
	}
	if inToken {
		args = append(args, cur.String())
	}
	return args, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
