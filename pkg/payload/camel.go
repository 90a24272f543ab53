package payload

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// CamelCase derives a customFields key from a label: words are split on
// whitespace, the first letter of the first word is lower-cased, the first
// letter of every later word is upper-cased and the words are joined. Only the
// leading rune of each word changes, so "First Name" becomes "firstName" and
// "E-mail ID" becomes "e-mailID". Punctuation is kept as is.
func CamelCase(label string) string {
	words := strings.Fields(label)
	if len(words) == 0 {
		return ""
	}

	var builder strings.Builder
	builder.Grow(len(label))
	for idx, word := range words {
		first, size := utf8.DecodeRuneInString(word)
		if idx == 0 {
			builder.WriteRune(unicode.ToLower(first))
		} else {
			builder.WriteRune(unicode.ToUpper(first))
		}
		builder.WriteString(word[size:])
	}
	return builder.String()
}
