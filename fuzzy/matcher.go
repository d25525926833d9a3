package fuzzy

import (
	"math"
	"unicode"

	"golang.org/x/text/transform"
)

// Matcher scores candidate texts against a Pattern.
//
// A Matcher owns scratch buffers that grow to fit the longest text it has
// scored and are reused by later calls. It is not safe for concurrent use;
// give each goroutine its own Matcher.
type Matcher struct {
	text  []rune
	bonus []int32

	// head is the length of the first field within text.
	head int

	// DP rows over the match window: best score of an alignment ending at
	// a column, and the bonus of the consecutive run ending there.
	prevH, curH []int32
	prevB, curB []int32

	normalizer transform.Transformer
}

// NewMatcher returns a Matcher with empty scratch buffers.
func NewMatcher() *Matcher {
	return &Matcher{normalizer: newNormalizer()}
}

// Score returns the similarity of p to the given fields joined by single
// spaces. It returns 0 when p is empty or is not a subsequence of the text;
// every match scores at least 1. A pattern equal to the whole first field
// earns a second prefix bonus.
func (m *Matcher) Score(p *Pattern, fields ...string) uint16 {
	if p.Empty() {
		return 0
	}
	m.fill(fields)

	pat := p.runes
	text := m.text
	if len(pat) > len(text) {
		return 0
	}

	first, last, ok := window(text, pat)
	if !ok {
		return 0
	}

	best := m.align(pat, first, last)

	if hasPrefix(text, pat) {
		best += bonusPrefix
		if m.head == len(pat) {
			best += bonusPrefix
		}
	}

	switch {
	case best < 1:
		return 1
	case best > math.MaxUint16:
		return math.MaxUint16
	}
	return uint16(best)
}

// fill normalizes fields into m.text and computes per-character bonuses.
func (m *Matcher) fill(fields []string) {
	m.text = m.text[:0]
	m.bonus = m.bonus[:0]
	m.head = 0

	prev := charWhite
	for i, f := range fields {
		if i > 0 {
			m.text = append(m.text, ' ')
			m.bonus = append(m.bonus, bonusFor(prev, charWhite))
			prev = charWhite
		}
		if !isASCII(f) {
			if s, _, err := transform.String(m.normalizer, f); err == nil {
				f = s
			}
		}
		for _, r := range f {
			class := classOf(r)
			m.text = append(m.text, unicode.ToLower(r))
			m.bonus = append(m.bonus, bonusFor(prev, class))
			prev = class
		}
		if i == 0 {
			m.head = len(m.text)
		}
	}
}

// window returns the narrowest column range that can hold a match: from the
// first occurrence of the pattern's head to the last occurrence of its tail.
func window(text, pat []rune) (first, last int, ok bool) {
	pi := 0
	first = -1
	for j := 0; j < len(text); j++ {
		if text[j] != pat[pi] {
			continue
		}
		if pi == 0 {
			first = j
		}
		pi++
		if pi == len(pat) {
			break
		}
	}
	if pi < len(pat) {
		return 0, 0, false
	}

	pi = len(pat) - 1
	last = len(text) - 1
	for j := len(text) - 1; j >= first; j-- {
		if text[j] != pat[pi] {
			continue
		}
		if pi == len(pat)-1 {
			last = j
		}
		pi--
		if pi < 0 {
			break
		}
	}
	return first, last, true
}

// align computes the best alignment score of pat within text[first:last+1].
func (m *Matcher) align(pat []rune, first, last int) int32 {
	w := last - first + 1
	m.prevH = grow(m.prevH, w)
	m.curH = grow(m.curH, w)
	m.prevB = grow(m.prevB, w)
	m.curB = grow(m.curB, w)

	for i, pc := range pat {
		// gap is the best score of an alignment of pat[:i] ending at least
		// two columns back, already charged for the skipped characters.
		gap := int32(negInf)
		for k := 0; k < w; k++ {
			if i > 0 && k >= 2 {
				gap = max(gap+scoreGapExtension, m.prevH[k-2]+scoreGapStart)
			}

			j := first + k
			if m.text[j] != pc {
				m.curH[k] = negInf
				m.curB[k] = 0
				continue
			}

			b := m.bonus[j]
			if i == 0 {
				m.curH[k] = scoreMatch + b*bonusFirstCharMultiplier
				m.curB[k] = b
				continue
			}

			best, bestB := int32(negInf), int32(0)
			if k >= 1 && m.prevH[k-1] > negInf {
				run := max(m.prevB[k-1], b, bonusConsecutive)
				best = m.prevH[k-1] + scoreMatch + run
				bestB = run
			}
			if gap > negInf/2 {
				if s := gap + scoreMatch + b; s > best {
					best, bestB = s, b
				}
			}
			m.curH[k] = best
			m.curB[k] = bestB
		}
		m.prevH, m.curH = m.curH, m.prevH
		m.prevB, m.curB = m.curB, m.prevB
	}

	best := int32(negInf)
	for k := 0; k < w; k++ {
		best = max(best, m.prevH[k])
	}
	return best
}

func hasPrefix(text, pat []rune) bool {
	if len(text) < len(pat) {
		return false
	}
	for i, r := range pat {
		if text[i] != r {
			return false
		}
	}
	return true
}

func grow(s []int32, n int) []int32 {
	if cap(s) < n {
		return make([]int32, n)
	}
	return s[:n]
}
