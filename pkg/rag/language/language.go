// Package language holds the script heuristic used to route questions and the
// text normalisation applied before relevance scoring.
package language

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Code identifies a conversation language. Arabic is the primary language of
// the passage corpus; English is the secondary one.
type Code string

const (
	Arabic  Code = "ar"
	English Code = "en"
)

// arabicShare is the fraction of Arabic-block runes above which a text counts as Arabic.
const arabicShare = 0.3

// Parse maps a request value onto a Code, defaulting to Arabic.
func Parse(value string) Code {
	if strings.EqualFold(strings.TrimSpace(value), string(English)) {
		return English
	}
	return Arabic
}

func (c Code) IsPrimary() bool {
	return c == Arabic
}

// Detect classifies text by counting runes in the Arabic block (U+0600..U+06FF).
// It is a heuristic, not a language model: mixed or very short inputs can be misread.
func Detect(text string) Code {
	total := utf8.RuneCountInString(text)
	if total == 0 {
		return English
	}
	arabic := 0
	for _, r := range text {
		if r >= 0x0600 && r <= 0x06FF {
			arabic++
		}
	}
	if float64(arabic) > float64(total)*arabicShare {
		return Arabic
	}
	return English
}

// isTashkeel matches the Arabic short-vowel and gemination marks (fathatan..sukun).
func isTashkeel(r rune) bool {
	return r >= 0x064B && r <= 0x0652
}

var tashkeelRemover = runes.Remove(runes.Predicate(isTashkeel))

// StripDiacritics removes Arabic vowel marks. Letters, including hamza forms,
// are left untouched so query and passage stay comparable.
func StripDiacritics(text string) string {
	out, _, err := transform.String(tashkeelRemover, text)
	if err != nil {
		return text
	}
	return out
}
