package relational

import (
	"fmt"
	"strconv"
	"strings"
)

// Bind rewrites $name placeholders to the $1..$n form lib/pq expects and
// returns the arguments in order. A name used twice is bound once. Every
// placeholder must have a value; unused values are an error too, so a typo
// on either side is caught before the statement is sent.
func Bind(stmt Statement, params map[string]any) (string, []any, error) {
	var (
		out   strings.Builder
		args  []any
		index = map[string]int{}
		text  = stmt.Text
	)
	out.Grow(len(text))

	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '$' || i+1 >= len(text) || !isNameStart(text[i+1]) {
			out.WriteByte(c)
			continue
		}
		j := i + 1
		for j < len(text) && isNamePart(text[j]) {
			j++
		}
		name := text[i+1 : j]
		n, seen := index[name]
		if !seen {
			value, ok := params[name]
			if !ok {
				return "", nil, fmt.Errorf("%s: no value for $%s", stmt.Name, name)
			}
			args = append(args, value)
			n = len(args)
			index[name] = n
		}
		out.WriteByte('$')
		out.WriteString(strconv.Itoa(n))
		i = j - 1
	}

	if len(index) != len(params) {
		for name := range params {
			if _, ok := index[name]; !ok {
				return "", nil, fmt.Errorf("%s: unused value $%s", stmt.Name, name)
			}
		}
	}
	return out.String(), args, nil
}

func isNameStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isNamePart(c byte) bool {
	return isNameStart(c) || ('0' <= c && c <= '9')
}
