package docxgen

import (
	"bytes"
	"fmt"

	"github.com/freshprince84/airbnbform/internal/pkg/placeholder"
	"github.com/freshprince84/airbnbform/internal/pkg/template"

	"github.com/unidoc/unioffice/document"
	"github.com/unidoc/unioffice/measurement"
	"github.com/unidoc/unioffice/schema/soo/wml"
)

// renderTemplate строит DOCX-документ из JSON-шаблона. Структура вывода:
// заголовок (по центру), строка даты (справа), пустой абзац, затем для
// каждой секции заголовок, по абзацу на элемент содержимого и пустой
// абзац-разделитель, в конце строка для подписей.
func (a *Assembler) renderTemplate(tpl template.Template, data map[string]string) ([]byte, error) {
	doc := document.New()

	// Заголовок договора
	titlePara := doc.AddParagraph()
	titlePara.Properties().SetAlignment(wml.ST_JcCenter)
	titleRun := titlePara.AddRun()
	titleRun.Properties().SetBold(true)
	titleRun.Properties().SetSize(14 * measurement.Point)
	titleRun.AddText(placeholder.Substitute(tpl.Title, data, a.defaults))

	// Строка даты
	datePara := doc.AddParagraph()
	datePara.Properties().SetAlignment(wml.ST_JcRight)
	datePara.AddRun().AddText(placeholder.Substitute(tpl.DateLine, data, a.defaults))

	// Разделитель после шапки
	doc.AddParagraph()

	for _, section := range tpl.Sections {
		// Заголовок секции не проходит подстановку
		headingPara := doc.AddParagraph()
		headingRun := headingPara.AddRun()
		headingRun.Properties().SetBold(true)
		headingRun.AddText(section.Title)

		for _, item := range section.Content {
			para := doc.AddParagraph()
			if item.Label != "" {
				labelRun := para.AddRun()
				labelRun.Properties().SetBold(true)
				labelRun.AddText(item.Label + ": ")
			}
			para.AddRun().AddText(placeholder.Substitute(item.Value, data, a.defaults))
		}

		// Разделитель после секции
		doc.AddParagraph()
	}

	// Строка для подписей
	doc.AddParagraph().AddRun().AddText(SignatureLine)

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize document: %w", err)
	}
	return buf.Bytes(), nil
}
