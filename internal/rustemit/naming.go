package rustemit

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// titleCaser renders the leading word of a doc comment with a
// capitalized first letter, Unicode-aware — a plain byte-level upper-
// casing of the first rune mishandles the (rare but real) doc comment
// that starts with an accented letter or multi-byte rune.
var titleCaser = cases.Title(language.Und)

// toSnakeCase converts a camelCase (or PascalCase) surface field name
// to the idiomatic Rust field spelling, e.g. "isActive" -> "is_active",
// "HTMLParser" -> "html_parser". The original spelling is preserved on
// the wire via a struct-level rename_all attribute (spec §4.3), so this
// conversion is purely cosmetic on the Rust side.
func toSnakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]))
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if i > 0 && (prevLower || (nextLower && unicode.IsUpper(runes[i-1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		if r == '-' || r == ' ' {
			b.WriteByte('_')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// docComment renders s as a block of Rust `///` doc comment lines, one
// per input line, with the first line's leading letter capitalized.
func docComment(e *Emitter, s string) {
	if s == "" {
		return
	}
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	lines[0] = capitalizeFirst(lines[0])
	for _, line := range lines {
		if line == "" {
			e.Line("///")
			continue
		}
		e.Line("/// %s", line)
	}
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	head, rest := string(runes[:1]), string(runes[1:])
	return titleCaser.String(head) + rest
}
