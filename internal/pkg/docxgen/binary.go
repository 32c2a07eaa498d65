package docxgen

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/freshprince84/airbnbform/internal/pkg/placeholder"

	"github.com/unidoc/unioffice/document"
)

// renderBinary открывает бинарный DOCX-шаблон и заменяет в нем все
// известные плейсхолдеры. Любая ошибка приводит к деградации на
// JSON-шаблон в Assemble.
func (a *Assembler) renderBinary(data map[string]string) ([]byte, error) {
	doc, err := document.Open(a.store.BinaryPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open binary template: %w", err)
	}

	for _, token := range placeholder.Tokens {
		marker := "{" + token + "}"
		value := data[token]
		if value == "" {
			value = a.defaults[token]
		}
		if value == "" {
			value = placeholder.DefaultMissing
		}

		for _, para := range doc.Paragraphs() {
			replaceInParagraph(para, marker, value)
		}
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize filled template: %w", err)
	}
	return buf.Bytes(), nil
}

// replaceInParagraph заменяет плейсхолдер в абзаце. Word может разбить
// текст плейсхолдера на несколько runs, поэтому помимо простого случая
// обрабатывается и замена через границы runs.
func replaceInParagraph(p document.Paragraph, marker, value string) {
	runs := p.Runs()
	if len(runs) == 0 {
		return
	}

	// Собираем весь текст абзаца для проверки
	var paragraphText strings.Builder
	for _, r := range runs {
		paragraphText.WriteString(r.Text())
	}
	if !strings.Contains(paragraphText.String(), marker) {
		return
	}

	// Плейсхолдер полностью содержится в одном run
	for _, r := range runs {
		runText := r.Text()
		if strings.Contains(runText, marker) {
			r.ClearContent()
			r.AddText(strings.ReplaceAll(runText, marker, value))
			// В абзаце может быть еще одно вхождение
			replaceInParagraph(p, marker, value)
			return
		}
	}

	// Плейсхолдер разбит между несколькими runs: ищем начало и конец
	var startRun int
	var startFound bool
	markerBytes := []byte(marker)
	matched := 0

	for i, r := range runs {
		runText := r.Text()
		for j := 0; j < len(runText); j++ {
			if matched < len(markerBytes) && runText[j] == markerBytes[matched] {
				if !startFound {
					startRun = i
					startFound = true
				}
				matched++
				if matched == len(markerBytes) {
					// Очищаем все runs от начала до конца плейсхолдера
					// и записываем значение в первый из них
					for k := startRun; k <= i; k++ {
						runs[k].ClearContent()
					}
					runs[startRun].AddText(value)
					return
				}
			} else {
				matched = 0
				startFound = false
			}
		}
	}
}
