package interview

import (
	"strings"
	"unicode"
)

// DefaultExitKeywords - слова, по которым кандидат может закончить разговор
var DefaultExitKeywords = []string{"exit", "quit", "bye", "goodbye", "end", "stop"}

// ExitMatch задает, где в тексте ищется ключевое слово
type ExitMatch string

const (
	// ExitMatchWordPrefix: слово текста начинается с ключевого ("quitter", но не "Backend")
	ExitMatchWordPrefix ExitMatch = "word_prefix"
	// ExitMatchSubstring: ключевое слово где угодно в тексте
	ExitMatchSubstring ExitMatch = "substring"
)

// ExitDetector распознает просьбу закончить интервью без учета регистра
type ExitDetector struct {
	keywords []string
	mode     ExitMatch
}

func NewExitDetector(keywords []string, mode ExitMatch) ExitDetector {
	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			lowered = append(lowered, k)
		}
	}
	if mode == "" {
		mode = ExitMatchWordPrefix
	}
	return ExitDetector{keywords: lowered, mode: mode}
}

func (d ExitDetector) IsExit(text string) bool {
	lower := strings.ToLower(text)

	if d.mode == ExitMatchSubstring {
		for _, k := range d.keywords {
			if strings.Contains(lower, k) {
				return true
			}
		}
		return false
	}

	words := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		for _, k := range d.keywords {
			if strings.HasPrefix(w, k) {
				return true
			}
		}
	}
	return false
}
