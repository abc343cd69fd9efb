package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yndnr/respkv/pkg/resp"
)

// RawFormatter prints replies the way redis-cli does on a terminal.
// Multi-line bulk strings such as the HELP text are printed verbatim.
type RawFormatter struct{}

// Format writes v followed by a newline.
func (f *RawFormatter) Format(w io.Writer, v resp.Value) error {
	_, err := io.WriteString(w, strings.Join(rawLines(v), "\n")+"\n")
	return err
}

func rawLines(v resp.Value) []string {
	switch v.Kind() {
	case resp.KindNull:
		return []string{"(nil)"}
	case resp.KindSimpleString:
		return []string{v.Str()}
	case resp.KindBulkString:
		if strings.Contains(v.Str(), "\n") {
			return strings.Split(v.Str(), "\n")
		}
		return []string{strconv.Quote(v.Str())}
	case resp.KindError:
		return []string{"(error) " + v.Str()}
	case resp.KindInteger:
		return []string{"(integer) " + strconv.FormatInt(v.Int(), 10)}
	case resp.KindBoolean:
		if v.Bool() {
			return []string{"(true)"}
		}
		return []string{"(false)"}
	case resp.KindArray:
		return arrayLines(v.Elems())
	}
	return []string{v.String()}
}

// arrayLines numbers elements and indents nested arrays under their index.
func arrayLines(elems []resp.Value) []string {
	if len(elems) == 0 {
		return []string{"(empty array)"}
	}

	width := len(strconv.Itoa(len(elems)))
	var lines []string
	for i, e := range elems {
		prefix := fmt.Sprintf("%*d) ", width, i+1)
		pad := strings.Repeat(" ", len(prefix))
		for j, l := range rawLines(e) {
			if j == 0 {
				lines = append(lines, prefix+l)
			} else {
				lines = append(lines, pad+l)
			}
		}
	}
	return lines
}
