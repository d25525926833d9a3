// Package fuzzy implements typo-tolerant subsequence matching.
//
// A Pattern must appear in the candidate text as a case-insensitive
// subsequence. Matches are scored with a Smith-Waterman style alignment that
// rewards consecutive runs and characters at word boundaries, so exact,
// prefix and contiguous matches outrank scattered ones.
package fuzzy

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	scoreMatch        = 16
	scoreGapStart     = -3
	scoreGapExtension = -1

	bonusBoundary            = scoreMatch / 2
	bonusNonWord             = scoreMatch / 2
	bonusBoundaryWhite       = bonusBoundary + 2
	bonusBoundaryDelimiter   = bonusBoundary + 1
	bonusCamel123            = bonusBoundary + scoreGapExtension
	bonusConsecutive         = -(scoreGapStart + scoreGapExtension)
	bonusFirstCharMultiplier = 2

	// bonusPrefix is added once when the text starts with the whole pattern
	// and once more when the first field equals it.
	bonusPrefix = scoreMatch

	negInf = math.MinInt32 / 4
)

type charClass uint8

const (
	charWhite charClass = iota
	charNonWord
	charDelimiter
	charLower
	charUpper
	charLetter
	charNumber
)

func classOf(r rune) charClass {
	switch {
	case r < utf8.RuneSelf:
		switch {
		case r >= 'a' && r <= 'z':
			return charLower
		case r >= 'A' && r <= 'Z':
			return charUpper
		case r >= '0' && r <= '9':
			return charNumber
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			return charWhite
		case strings.ContainsRune("/,:;|.", r):
			return charDelimiter
		}
		return charNonWord
	case unicode.IsLower(r):
		return charLower
	case unicode.IsUpper(r):
		return charUpper
	case unicode.IsNumber(r):
		return charNumber
	case unicode.IsLetter(r):
		return charLetter
	case unicode.IsSpace(r):
		return charWhite
	}
	return charNonWord
}

func isWord(c charClass) bool {
	return c >= charLower
}

// bonusFor returns the bonus for matching a character of class cur that
// follows a character of class prev.
func bonusFor(prev, cur charClass) int32 {
	if isWord(cur) {
		switch prev {
		case charWhite:
			return bonusBoundaryWhite
		case charDelimiter:
			return bonusBoundaryDelimiter
		case charNonWord:
			return bonusBoundary
		}
	}
	if prev == charLower && cur == charUpper ||
		prev != charNumber && cur == charNumber {
		return bonusCamel123
	}
	switch cur {
	case charNonWord, charDelimiter:
		return bonusNonWord
	case charWhite:
		return bonusBoundaryWhite
	}
	return 0
}

// newNormalizer returns a transformer that strips combining marks, so that
// "Café" matches "cafe". Transformers are stateful and must not be shared.
func newNormalizer() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// Pattern is a normalized query. A Pattern is immutable and may be shared
// between goroutines.
type Pattern struct {
	runes []rune
}

// NewPattern normalizes query for matching.
func NewPattern(query string) *Pattern {
	q := strings.TrimSpace(query)
	if !isASCII(q) {
		if s, _, err := transform.String(newNormalizer(), q); err == nil {
			q = s
		}
	}

	rs := make([]rune, 0, len(q))
	for _, r := range q {
		rs = append(rs, unicode.ToLower(r))
	}
	return &Pattern{runes: rs}
}

// Empty reports whether the pattern has no characters.
func (p *Pattern) Empty() bool {
	return p == nil || len(p.runes) == 0
}

// String returns the normalized pattern.
func (p *Pattern) String() string {
	if p == nil {
		return ""
	}
	return string(p.runes)
}
