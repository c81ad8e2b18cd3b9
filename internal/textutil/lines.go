package textutil

import "strings"

// Lines splits output on CR/LF boundaries, trims each line, and drops blanks.
func Lines(output string) []string {
	raw := strings.FieldsFunc(output, func(r rune) bool { return r == '\n' || r == '\r' })
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// FirstLine returns the first non-blank trimmed line of output, or "".
func FirstLine(output string) string {
	for _, line := range strings.FieldsFunc(output, func(r rune) bool { return r == '\n' || r == '\r' }) {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
