package vt

import "unicode/utf8"

// decodeRune returns size 0 when text ends inside a multi-byte rune.
func decodeRune(text string) (rune, int) {
	if !utf8.FullRuneInString(text) {
		return 0, 0
	}
	return utf8.DecodeRuneInString(text)
}
