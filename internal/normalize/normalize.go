// Package normalize implements the string folding used to match image
// filenames against operator-declared room tokens.
package normalize

import "strings"

// Accented letters are deleted outright rather than mapped to their base
// letter, so "café" folds to "caf". Room tokens are typed by operators
// against this behaviour and must not change.
var stripper = strings.NewReplacer(
	" ", "", "-", "", "_", "",
	"á", "", "é", "", "í", "", "ó", "", "ú", "",
	"â", "", "ê", "", "î", "", "ô", "", "û", "",
	"ã", "", "õ", "",
	"à", "", "è", "", "ì", "", "ò", "", "ù", "",
	"ä", "", "ë", "", "ï", "", "ö", "", "ü", "",
	"ç", "",
)

// Normalize lowercases s and removes separators and Portuguese diacritic letters.
func Normalize(s string) string {
	return stripper.Replace(strings.ToLower(s))
}
