package slug

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxLength = 64

// Make turns a display name into a lowercase, dash separated, ASCII slug.
// Accents are folded ("Café Noir" -> "cafe-noir"); other symbols become separators.
func Make(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	lastWasSep := true
	for _, r := range strings.ToLower(folded) {
		if b.Len() >= maxLength {
			break
		}
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			lastWasSep = false
		case !lastWasSep:
			b.WriteByte('-')
			lastWasSep = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Unique appends -2, -3, ... to base until taken reports false.
func Unique(base string, taken func(string) (bool, error)) (string, error) {
	if base == "" {
		base = "store"
	}
	candidate := base
	for i := 2; ; i++ {
		exists, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(i)
	}
}
