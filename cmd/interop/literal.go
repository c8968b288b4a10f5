package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/KevoDB/interop/pkg/untyped/protoval"
)

var errUnbalanced = errors.New("unbalanced quotes or brackets")

// splitArgs splits a command line on whitespace. Double-quoted strings and
// bracketed JSON literals stay in one piece.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inQuote bool
		escaped bool
		depth   int
	)

	flush := func() {
		if cur.Len() > 0 {
			args = append(args, cur.String())
			cur.Reset()
		}
	}

	for _, r := range line {
		switch {
		case escaped:
			escaped = false
		case inQuote && r == '\\':
			escaped = true
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[' || r == '{':
			depth++
		case r == ']' || r == '}':
			depth--
			if depth < 0 {
				return nil, errUnbalanced
			}
		case depth == 0 && (r == ' ' || r == '\t'):
			flush()
			continue
		}
		cur.WriteRune(r)
	}

	if inQuote || depth != 0 {
		return nil, errUnbalanced
	}
	flush()
	return args, nil
}

// parseLiteral turns a shell token into a value: integers, floats,
// true/false, null, quoted strings, JSON arrays and objects. Anything
// else is taken as a bare string.
func parseLiteral(tok string) (any, error) {
	switch tok {
	case "null":
		return nil, nil
	case "true":
		return true, nil
	case "false":
		return false, nil
	}

	if strings.HasPrefix(tok, `"`) {
		s, err := strconv.Unquote(tok)
		if err != nil {
			return nil, fmt.Errorf("bad string literal %s: %w", tok, err)
		}
		return s, nil
	}

	if strings.HasPrefix(tok, "[") || strings.HasPrefix(tok, "{") {
		v, err := protoval.Parse([]byte(tok))
		if err != nil {
			return nil, err
		}
		return v.AsInterface(), nil
	}

	if i, err := strconv.Atoi(tok); err == nil {
		return i, nil
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return f, nil
	}
	return tok, nil
}

// formatValue renders a value with its dynamic type
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(x)
	default:
		return fmt.Sprintf("%v (%T)", x, x)
	}
}
