// Package textutil derives slugs, excerpts and reading statistics from post text.
package textutil

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultExcerptLength is the number of characters kept by GenerateExcerpt
// when no explicit length is given.
const DefaultExcerptLength = 150

// wordsPerMinute drives ReadingTime.
const wordsPerMinute = 200

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)
	markupTags   = regexp.MustCompile(`<[^>]*>`)
)

// GenerateSlug lower-cases title, collapses every run of characters outside
// [a-z0-9] into a single dash and trims dashes from both ends.
// The result is not guaranteed to be unique.
func GenerateSlug(title string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

// GenerateExcerpt strips markup tags from content and truncates the plain
// text to maxLength characters, appending "..." when it was cut.
// A non-positive maxLength selects DefaultExcerptLength.
func GenerateExcerpt(content string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultExcerptLength
	}

	plain := StripTags(content)
	if utf8.RuneCountInString(plain) <= maxLength {
		return plain
	}

	runes := []rune(plain)
	return string(runes[:maxLength]) + "..."
}

// StripTags removes anything that looks like a <...> markup tag.
func StripTags(content string) string {
	return markupTags.ReplaceAllString(content, "")
}

// WordCount counts whitespace separated words.
func WordCount(content string) int {
	return len(strings.Fields(content))
}

// ReadingTime estimates reading time in whole minutes, rounded up.
func ReadingTime(content string) int {
	return int(math.Ceil(float64(WordCount(content)) / wordsPerMinute))
}
