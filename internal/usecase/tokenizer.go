package usecase

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// statementDelimiters separate statements and are replaced with whitespace.
// Commas are handled separately because a comma between digits is a decimal separator.
const statementDelimiters = ";:!?()[]{}\"'«»&/+*|"

// Tokenizer turns a free-text statement into lowercase tokens
type Tokenizer struct {
	// words from catalog names that contain a letter/digit transition (e.g. "7up")
	protected map[string]bool
}

// NewTokenizer creates a tokenizer. The catalog keys are only used to keep words such as
// "7up" intact when inserting letter/digit boundaries.
func NewTokenizer(catalogKeys []string) *Tokenizer {
	protected := make(map[string]bool)
	for _, key := range catalogKeys {
		for _, word := range strings.Fields(strings.ToLower(key)) {
			if hasLetterDigitTransition(word) {
				protected[word] = true
			}
		}
	}
	return &Tokenizer{protected: protected}
}

// Tokenize splits text into tokens. It never returns empty tokens.
func (t *Tokenizer) Tokenize(text string) []string {
	text = strings.ToLower(norm.NFC.String(text))
	cleaned := replaceDelimiters(text)

	var tokens []string
	for _, word := range strings.Fields(cleaned) {
		word = trimToken(word)
		if word == "" {
			continue
		}
		if t.protected[word] {
			tokens = append(tokens, word)
			continue
		}
		for _, part := range splitLetterDigit(word) {
			if part = trimToken(part); part != "" {
				tokens = append(tokens, part)
			}
		}
	}

	return tokens
}

// replaceDelimiters blanks out statement delimiters, keeping commas between two digits
func replaceDelimiters(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s))

	for i, r := range runes {
		switch {
		case r == ',':
			if i > 0 && i < len(runes)-1 && isASCIIDigit(runes[i-1]) && isASCIIDigit(runes[i+1]) {
				b.WriteRune(r)
			} else {
				b.WriteRune(' ')
			}
		case strings.ContainsRune(statementDelimiters, r):
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}

// splitLetterDigit inserts a boundary at every letter->digit and digit->letter transition.
// Other characters (".", ",", "-") stay attached to the current part.
func splitLetterDigit(word string) []string {
	var parts []string
	var current strings.Builder
	last := classOther

	for _, r := range word {
		class := charClass(r)
		if class != classOther && last != classOther && class != last {
			parts = append(parts, current.String())
			current.Reset()
		}
		current.WriteRune(r)
		if class != classOther {
			last = class
		}
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	return parts
}

func hasLetterDigitTransition(word string) bool {
	return len(splitLetterDigit(word)) > 1
}

// trimToken strips trailing dots and dashes ("milk." -> "milk"). A leading "-" is kept so
// negative numbers never read as quantities.
func trimToken(s string) string {
	s = strings.TrimRight(s, ".-,")
	return strings.TrimLeft(s, ",")
}

const (
	classOther = iota
	classLetter
	classDigit
)

func charClass(r rune) int {
	switch {
	case isASCIIDigit(r):
		return classDigit
	case unicode.IsLetter(r):
		return classLetter
	default:
		return classOther
	}
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// isNumeric checks if a token is a plain number: digits with at most one "." or ","
func isNumeric(s string) bool {
	digits := 0
	separators := 0
	for _, c := range s {
		switch {
		case isASCIIDigit(c):
			digits++
		case c == '.' || c == ',':
			separators++
		default:
			return false
		}
	}
	return digits > 0 && separators <= 1
}
