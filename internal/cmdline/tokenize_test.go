package cmdline_test

import (
	"reflect"
	"testing"

	"docbatch/internal/cmdline"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []string
	}{
		{"blank", "   ", []string{}},
		{"empty", "", []string{}},
		{"simple", "--toc --standalone", []string{"--toc", "--standalone"}},
		{"double quoted", `--title "My Doc" --toc`, []string{"--title", "My Doc", "--toc"}},
		{"single quoted", `--metadata 'title=A B'`, []string{"--metadata", "title=A B"}},
		{"mixed quote literal", `"it's here"`, []string{"it's here"}},
		{"other quote inside single", `'say "hi"'`, []string{`say "hi"`}},
		{"adjacent concatenates", `a"b c"d`, []string{"ab cd"}},
		{"no escapes", `C:\tools\x "C:\Program Files\y"`, []string{`C:\tools\x`, `C:\Program Files\y`}},
		{"tabs and newlines", "a\tb\nc", []string{"a", "b", "c"}},
		{"unterminated quote keeps rest", `--css "a b`, []string{"--css", "a b"}},
		{"empty quotes dropped", `a "" b`, []string{"a", "b"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := cmdline.Tokenize(tc.input)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Tokenize(%q) = %#v, want %#v", tc.input, got, tc.want)
			}
		})
	}
}

func TestJoinRoundTrips(t *testing.T) {
	args := []string{"--title", "My Doc", "--css=style.css", `say "hi"`}
	joined := cmdline.Join(args)
	if got := cmdline.Tokenize(joined); !reflect.DeepEqual(got, args) {
		t.Fatalf("round trip mismatch: %q -> %#v", joined, got)
	}
}
