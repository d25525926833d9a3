package docset

import (
	"bufio"
	"strconv"
	"strings"
	"unicode"
)

// Heading is one Markdown heading of a rendered page.
type Heading struct {
	Level  int    `json:"level"`
	Title  string `json:"title"`
	Anchor string `json:"anchor"`
}

// Outline returns the ATX headings of a Markdown page in document order.
// Lines inside fenced code blocks are skipped. Anchors are unique within
// the page: repeated titles get "-1", "-2" suffixes.
func Outline(markdown string) []Heading {
	var (
		headings []Heading
		fence    string
		seen     = make(map[string]int)
	)

	sc := bufio.NewScanner(strings.NewReader(markdown))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		trimmed := strings.TrimLeft(line, " ")

		if fence != "" {
			if strings.HasPrefix(trimmed, fence) {
				fence = ""
			}
			continue
		}
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			fence = trimmed[:3]
			continue
		}

		level, title, ok := parseHeading(line)
		if !ok {
			continue
		}

		base := slugify(title)
		anchor := base
		if n := seen[base]; n > 0 {
			anchor = base + "-" + strconv.Itoa(n)
		}
		seen[base]++

		headings = append(headings, Heading{Level: level, Title: title, Anchor: anchor})
	}
	return headings
}

func parseHeading(line string) (int, string, bool) {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level > 6 || level == len(line) || line[level] != ' ' {
		return 0, "", false
	}

	title := strings.TrimSpace(line[level:])
	if i := strings.LastIndex(title, " #"); i >= 0 && strings.Trim(title[i+1:], "#") == "" {
		title = strings.TrimSpace(title[:i])
	}
	if title == "" {
		return 0, "", false
	}
	return level, title, true
}

// slugify lowercases title and joins its letter and digit runs with "-".
func slugify(title string) string {
	fields := strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(fields, "-")
}
