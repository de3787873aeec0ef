package glyphatlas

import (
	"fmt"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FoldText strips diacritics so that accented Latin letters map onto
// their ASCII base letters, e.g. "café" becomes "cafe". Characters with no
// ASCII decomposition are left alone and still fall back to FallbackRune
// when drawn.
//
// AppendText never folds on its own; callers opt in by passing the result.
func FoldText(s string) (string, error) {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return "", fmt.Errorf("glyphatlas: fold text: %w", err)
	}
	return out, nil
}
