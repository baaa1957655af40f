// Package slug derives URL-safe identifiers from display names.
package slug

import (
	"strings"
	"unicode"
)

// translitTable maps lower-case Cyrillic letters to Latin sequences and a
// space to a hyphen. Read-only after process start.
var translitTable = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "yo", 'ж': "zh",
	'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m", 'н': "n", 'о': "o",
	'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u", 'ф': "f", 'х': "h", 'ц': "ts",
	'ч': "ch", 'ш': "sh", 'щ': "sch", 'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu",
	'я': "ya", ' ': "-",
}

// Generate lower-cases the input and maps each rune through the
// transliteration table; unmapped letters and digits are kept, punctuation
// and everything else is dropped. Deterministic and stateless.
func Generate(input string) string {
	input = strings.ToLower(input)

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if mapped, ok := translitTable[r]; ok {
			b.WriteString(mapped)
			continue
		}
		if (unicode.IsLetter(r) || unicode.IsDigit(r)) && !unicode.IsPunct(r) {
			b.WriteRune(r)
		}
	}

	return b.String()
}
