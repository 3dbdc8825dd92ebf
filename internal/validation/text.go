package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MaxCommentWords = 100
	MaxCommentChars = 400
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

// WordCount counts whitespace-separated words
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// Comment checks a free-text comment against the word and character caps.
// Blank input is rejected when required and accepted otherwise.
func Comment(text string, required bool) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		if required {
			return fmt.Errorf("Comment is required")
		}
		return nil
	}
	if n := WordCount(trimmed); n > MaxCommentWords {
		return fmt.Errorf("Comment must be at most %d words (got %d)", MaxCommentWords, n)
	}
	if n := utf8.RuneCountInString(trimmed); n > MaxCommentChars {
		return fmt.Errorf("Comment must be at most %d characters (got %d)", MaxCommentChars, n)
	}
	return nil
}

// Email reports whether s looks like an email address
func Email(s string) bool {
	return emailPattern.MatchString(s)
}

// Phone reports whether s is a 10 digit number
func Phone(s string) bool {
	return phonePattern.MatchString(s)
}
