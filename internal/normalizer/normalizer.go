// Package normalizer produces the canonical uppercase ASCII form of
// advertisement text that the cascade search matches against.
package normalizer

import (
	"strings"
	"unicode"
)

// cyrillicToLatin maps each Cyrillic rune to its fixed Latin replacement.
// Part numbers show up written in mixed alphabets, so the table covers
// both cases; soft and hard signs are dropped. The uppercase half follows
// visual similarity (У->Y, Н->H), the lowercase half is phonetic.
var cyrillicToLatin = map[rune]string{
	'А': "A", 'В': "B", 'Е': "E", 'К': "K", 'М': "M", 'Н': "H",
	'О': "O", 'Р': "P", 'С': "C", 'Т': "T", 'У': "Y", 'Х': "X",
	'Я': "Y", 'И': "I", 'Й': "I", 'Ю': "U", 'Ё': "E", 'Ч': "C",
	'Ш': "S", 'Щ': "S", 'Ж': "Z", 'З': "Z", 'Ц': "C", 'Ь': "", 'Ъ': "",
	'Г': "G", 'Д': "D", 'Л': "L", 'П': "P", 'Ф': "F", 'Б': "B",
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e",
	'ё': "e", 'ж': "z", 'з': "z", 'и': "i", 'й': "i", 'к': "k",
	'л': "l", 'м': "m", 'н': "n", 'о': "o", 'п': "p", 'р': "r",
	'с': "s", 'т': "t", 'у': "u", 'ф': "f", 'х': "x", 'ц': "c",
	'ч': "c", 'ш': "s", 'щ': "s", 'ъ': "", 'ы': "y", 'ь': "",
	'э': "e", 'ю': "u", 'я': "y",
}

func transliterate(text string) string {
	var out strings.Builder
	out.Grow(len(text))
	for _, r := range text {
		if latin, ok := cyrillicToLatin[r]; ok {
			out.WriteString(latin)
			continue
		}
		out.WriteRune(r)
	}
	return out.String()
}

// ForSearch normalizes raw text into the form the matchers are built for:
// Cyrillic transliterated, uppercased, hyphens and every non-alphanumeric
// replaced by a space, whitespace runs collapsed, edges trimmed.
// The transform is idempotent.
func ForSearch(text string) string {
	return normalize(text, false)
}

// ForStorage follows the same steps as ForSearch but keeps hyphens,
// preserving the display form of article codes written to the database.
func ForStorage(text string) string {
	return normalize(text, true)
}

func normalize(text string, keepHyphens bool) string {
	if text == "" {
		return ""
	}

	// Transliterate before uppercasing: the table is case-sensitive.
	upper := strings.ToUpper(transliterate(text))

	var out strings.Builder
	out.Grow(len(upper))
	for _, r := range upper {
		switch {
		case r == '-':
			if keepHyphens {
				out.WriteRune('-')
			} else {
				out.WriteRune(' ')
			}
		case r >= 'A' && r <= 'Z' || r >= '0' && r <= '9':
			out.WriteRune(r)
		case unicode.IsSpace(r):
			out.WriteRune(' ')
		default:
			out.WriteRune(' ')
		}
	}

	// Collapse whitespace runs and trim in one pass.
	return strings.Join(strings.Fields(out.String()), " ")
}
