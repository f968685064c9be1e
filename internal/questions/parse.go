package questions

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	numberingRe = regexp.MustCompile(`^\d+[.)]\s*`)
	bulletRe    = regexp.MustCompile(`^-\s*`)
)

// Parse выбирает из ответа модели строки-вопросы: непустые строки,
// начинающиеся с цифры или дефиса. Нумерация "N." / "N)" и маркер "-" срезаются.
// Возвращает не более limit вопросов в исходном порядке.
func Parse(text string, limit int) []string {
	var questions []string

	for _, line := range strings.Split(text, "\n") {
		if limit > 0 && len(questions) == limit {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		first := rune(line[0])
		if !unicode.IsDigit(first) && first != '-' {
			continue
		}

		q := numberingRe.ReplaceAllString(line, "")
		q = bulletRe.ReplaceAllString(q, "")
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}

		questions = append(questions, q)
	}

	return questions
}
