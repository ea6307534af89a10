// Package token cleans single words for the completion index.
package token

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// DefaultMinWordLength is the minimum rune count of a kept token.
const DefaultMinWordLength = 3

// decorative glyphs removed anywhere in a word
var removeReplacer = strings.NewReplacer(
	"„", "", "“", "", "«", "", "»", "",
	")", "", "(", "",
	"!", "", "?", "", "&", "",
)

// trailing characters trimmed from the right end of a word
const rightTrimCutset = "\n\t.:,"

// pictographic code point ranges, inclusive
var pictographRanges = [...][2]rune{
	{0x1F600, 0x1F64F}, // emoticons
	{0x1F300, 0x1F5FF}, // misc symbols and pictographs
	{0x1F680, 0x1F6FF}, // transport and map symbols
	{0x2600, 0x26FF},   // misc symbols
	{0x2700, 0x27BF},   // dingbats
}

// Clean removes decorative punctuation, trims trailing separators and strips pictographs.
func Clean(word string) string {
	word = removeReplacer.Replace(word)
	word = strings.TrimRight(word, rightTrimCutset)
	return stripPictographs(word)
}

func stripPictographs(s string) string {
	if !hasPictograph(s) {
		return s
	}
	return strings.Map(func(r rune) rune {
		if isPictograph(r) {
			return -1
		}
		return r
	}, s)
}

func hasPictograph(s string) bool {
	for _, r := range s {
		if isPictograph(r) {
			return true
		}
	}
	return false
}

func isPictograph(r rune) bool {
	for _, rg := range pictographRanges {
		if r >= rg[0] && r <= rg[1] {
			return true
		}
	}
	return false
}

// IsNumeric reports whether s is a plain decimal number such as "2022", "-1.5" or "1e3".
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r >= '0' && r <= '9') && !strings.ContainsRune("+-.eE", r) {
			return false
		}
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// Len returns the rune count of s.
func Len(s string) int {
	return utf8.RuneCountInString(s)
}

// Acceptable reports whether a cleaned word may be kept, ignoring stop words.
func Acceptable(word string, minWordLength int) bool {
	return word != "" && !IsNumeric(word) && Len(word) >= minWordLength
}
