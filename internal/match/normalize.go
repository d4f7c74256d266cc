package match

import (
	"strings"
	"unicode"
)

// qualifiers are trailing words that record layouts attach to names
// inconsistently: "bankCode" and "bank", "accountNumber" and "accountNo".
var qualifiers = map[string]struct{}{
	"code": {}, "number": {}, "no": {}, "nr": {}, "num": {}, "id": {}, "key": {}, "type": {},
}

// Words splits a logical name, a Go identifier or a path expression into
// lower-case words. Separators and path punctuation end a word, and so does a
// case change:
//   - "accountNumber" -> [account number]
//   - "BANK_CODE" -> [bank code]
//   - "MTIVersion" -> [mti version]
//   - `balances["EUR"].amount` -> [balances eur amount]
func Words(s string) []string {
	var (
		words []string
		cur   []rune
	)

	flush := func() {
		if len(cur) > 0 {
			words = append(words, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}

		if i > 0 && len(cur) > 0 && boundary(runes, i) {
			flush()
		}

		cur = append(cur, r)
	}

	flush()

	return words
}

// boundary reports whether a new word starts at runes[i]: a lower-to-upper
// change, or the last capital of an acronym followed by lower case.
func boundary(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) {
		return false
	}

	if !unicode.IsUpper(prev) {
		return true
	}

	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}

// Normalize folds case and drops separators, so that spellings of the same
// name compare equal.
func Normalize(s string) string {
	return strings.Join(Words(s), "")
}

// Stem normalizes s and drops one trailing qualifier word, unless the name
// consists of nothing else.
func Stem(s string) string {
	words := Words(s)
	if n := len(words); n > 1 {
		if _, ok := qualifiers[words[n-1]]; ok {
			words = words[:n-1]
		}
	}

	return strings.Join(words, "")
}
