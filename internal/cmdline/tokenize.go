package cmdline

import (
	"strings"
	"unicode"
)

// Tokenize splits text into arguments. A quoted span is opened by ' or " and
// closed only by the same character; the other quote character inside a span
// is kept literally. Blank input yields an empty slice.
func Tokenize(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}

	var (
		args    []string
		buf     strings.Builder
		inQuote bool
		quote   rune
	)

	flush := func() {
		if buf.Len() > 0 {
			args = append(args, buf.String())
		}
		buf.Reset()
	}

	for _, r := range text {
		switch {
		case r == '"' || r == '\'':
			switch {
			case inQuote && r == quote:
				inQuote = false
			case !inQuote:
				inQuote = true
				quote = r
			default:
				buf.WriteRune(r)
			}
		case unicode.IsSpace(r) && !inQuote:
			flush()
		default:
			buf.WriteRune(r)
		}
	}
	flush()
	if args == nil {
		return []string{}
	}
	return args
}

// Join renders args back into a display string, quoting tokens that contain
// whitespace. The result round-trips through Tokenize for tokens that do not
// contain both quote characters.
func Join(args []string) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		parts = append(parts, quoteArg(arg))
	}
	return strings.Join(parts, " ")
}

func quoteArg(arg string) string {
	if arg != "" && !strings.ContainsFunc(arg, unicode.IsSpace) && !strings.ContainsAny(arg, `"'`) {
		return arg
	}
	if strings.Contains(arg, `"`) {
		return "'" + arg + "'"
	}
	return `"` + arg + `"`
}
