package layout

import (
	"strings"
	"unicode/utf8"
)

const ellipsis = "…"

// TruncateDescription keeps text on one line of at most budget characters,
// replacing the tail with an ellipsis when it does not fit.
func TruncateDescription(text string, budget int) string {
	text = strings.ReplaceAll(text, "\n", " ")
	if budget <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= budget {
		return text
	}
	runes := []rune(text)
	return strings.TrimRight(string(runes[:budget-1]), " ") + ellipsis
}

// WrapNote word-wraps text to lines of at most budget characters. Newlines
// start a new paragraph; an empty paragraph stays as an empty line. Words
// longer than the budget are split at character boundaries.
func WrapNote(text string, budget int) []string {
	if budget < 1 {
		budget = 1
	}
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		lines = append(lines, wrapParagraph(para, budget)...)
	}
	return lines
}

func wrapParagraph(para string, budget int) []string {
	words := strings.Fields(para)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	var cur []rune
	for _, w := range words {
		word := []rune(w)

		if len(cur) > 0 && len(cur)+1+len(word) <= budget {
			cur = append(cur, ' ')
			cur = append(cur, word...)
			continue
		}
		if len(cur) > 0 {
			lines = append(lines, string(cur))
			cur = nil
		}
		for len(word) > budget {
			lines = append(lines, string(word[:budget]))
			word = word[budget:]
		}
		cur = word
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}
