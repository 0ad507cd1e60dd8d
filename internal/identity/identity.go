// Package identity produces the canonical comparison key that decides
// whether two shopping items denote the same purchasable thing.
package identity

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD, drops combining marks and recomposes,
// turning e.g. "Müsli" into "Musli".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases, strips diacritics, collapses internal whitespace
// and trims. It is deliberately crude: no stemming, no synonym table, so
// user-typed regional terms stay distinct unless they match exactly after
// normalization. Pure and total; equal inputs always yield equal keys.
func Normalize(text string) string {
	stripped, _, err := transform.String(stripMarks, text)
	if err != nil {
		// transform.String only fails on a misbehaving transformer;
		// fall back to the raw text rather than dropping the item.
		stripped = text
	}
	return strings.Join(strings.Fields(strings.ToLower(stripped)), " ")
}
