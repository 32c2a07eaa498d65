package docxgen

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/freshprince84/airbnbform/internal/pkg/template"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unidoc/unioffice/document"
)

// minimalTemplate шаблон из одного раздела с двумя строками
func minimalTemplate() template.Template {
	return template.Template{
		Title: "Vertrag für {name}",
		Sections: []template.Section{
			{
				Content: []template.ContentItem{
					{Value: "Passnummer: {passportNumber}"},
					{Value: "Ankunftsdatum: {arrivalDate}"},
				},
			},
		},
	}
}

func newTestAssembler(t *testing.T, tpl template.Template) (*Assembler, *template.Store) {
	t.Helper()
	store, err := template.NewStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set(tpl))
	return NewAssembler(store), store
}

// paragraphTexts извлекает текст всех абзацев из сериализованного DOCX
func paragraphTexts(t *testing.T, buf []byte) []string {
	t.Helper()
	doc, err := document.Read(bytes.NewReader(buf), int64(len(buf)))
	require.NoError(t, err)

	var texts []string
	for _, p := range doc.Paragraphs() {
		var sb strings.Builder
		for _, r := range p.Runs() {
			sb.WriteString(r.Text())
		}
		texts = append(texts, sb.String())
	}
	return texts
}

func TestAssemble_MinimalTemplate(t *testing.T) {
	assembler, _ := newTestAssembler(t, minimalTemplate())

	data := map[string]string{
		"name":           "Jane Doe",
		"passportNumber": "X1234567",
		"arrivalDate":    "2024-05-01",
	}

	buf, path, err := assembler.Assemble(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, PathJSON, path)

	texts := paragraphTexts(t, buf)
	assert.Contains(t, texts, "Vertrag für Jane Doe")
	assert.Contains(t, texts, "Passnummer: X1234567")
	assert.Contains(t, texts, "Ankunftsdatum: 2024-05-01")

	// Ни один плейсхолдер не должен остаться в документе
	for _, text := range texts {
		assert.NotContains(t, text, "{name}")
		assert.NotContains(t, text, "{passportNumber}")
		assert.NotContains(t, text, "{arrivalDate}")
	}
}

func TestAssemble_MissingFieldRendersDefault(t *testing.T) {
	assembler, _ := newTestAssembler(t, minimalTemplate())

	data := map[string]string{
		"name":        "Jane Doe",
		"arrivalDate": "2024-05-01",
	}

	buf, _, err := assembler.Assemble(context.Background(), data)
	require.NoError(t, err)

	texts := paragraphTexts(t, buf)
	assert.Contains(t, texts, "Passnummer: Nicht angegeben")
}

func TestAssemble_ParagraphCount(t *testing.T) {
	tpl := template.Default()
	assembler, _ := newTestAssembler(t, tpl)

	buf, _, err := assembler.Assemble(context.Background(), map[string]string{"name": "Jane"})
	require.NoError(t, err)

	// 1 заголовок + 1 дата + 1 разделитель + на каждую секцию
	// (1 заголовок + содержимое + 1 разделитель) + 1 строка подписей
	expected := 3 + 1
	for _, section := range tpl.Sections {
		expected += 2 + len(section.Content)
	}

	texts := paragraphTexts(t, buf)
	assert.Len(t, texts, expected)
}

func TestAssemble_SignatureLineLast(t *testing.T) {
	assembler, _ := newTestAssembler(t, minimalTemplate())

	buf, _, err := assembler.Assemble(context.Background(), map[string]string{"name": "Jane"})
	require.NoError(t, err)

	texts := paragraphTexts(t, buf)
	require.NotEmpty(t, texts)
	assert.Equal(t, SignatureLine, texts[len(texts)-1])
}

func TestAssemble_CurrentDateFilledAutomatically(t *testing.T) {
	tpl := minimalTemplate()
	tpl.DateLine = "Datum: {currentDate}"
	assembler, _ := newTestAssembler(t, tpl)
	assembler.now = func() time.Time {
		return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	}

	buf, _, err := assembler.Assemble(context.Background(), map[string]string{"name": "Jane"})
	require.NoError(t, err)

	texts := paragraphTexts(t, buf)
	assert.Contains(t, texts, "Datum: 01.05.2024")
}

func TestAssemble_CorruptBinaryTemplateFallsBack(t *testing.T) {
	assembler, store := newTestAssembler(t, minimalTemplate())

	// Невалидный DOCX на месте бинарного шаблона
	require.NoError(t, os.WriteFile(store.BinaryPath(), []byte("kein docx"), 0644))

	data := map[string]string{
		"name":           "Jane Doe",
		"passportNumber": "X1234567",
	}

	buf, path, err := assembler.Assemble(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, PathJSON, path)

	texts := paragraphTexts(t, buf)
	assert.Contains(t, texts, "Vertrag für Jane Doe")
}

func TestAssemble_BinaryTemplatePath(t *testing.T) {
	assembler, store := newTestAssembler(t, minimalTemplate())

	assembler.CreateDefaultBinaryTemplate()
	require.True(t, store.BinaryExists())

	data := map[string]string{
		"name":           "Jane Doe",
		"passportNumber": "X1234567",
		"guestFirstName": "Jane",
		"guestLastName":  "Doe",
	}

	buf, path, err := assembler.Assemble(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, PathBinary, path)

	joined := strings.Join(paragraphTexts(t, buf), "\n")
	assert.Contains(t, joined, "Jane Doe")
	assert.Contains(t, joined, "X1234567")
	assert.NotContains(t, joined, "{name}")
	assert.NotContains(t, joined, "{passportNumber}")
}

func TestCreateDefaultBinaryTemplate_Idempotent(t *testing.T) {
	assembler, store := newTestAssembler(t, minimalTemplate())

	assembler.CreateDefaultBinaryTemplate()
	require.True(t, store.BinaryExists())

	info, err := os.Stat(store.BinaryPath())
	require.NoError(t, err)

	// Повторный вызов не должен перезаписывать существующий шаблон
	assembler.CreateDefaultBinaryTemplate()
	again, err := os.Stat(store.BinaryPath())
	require.NoError(t, err)
	assert.Equal(t, info.ModTime(), again.ModTime())
}

func BenchmarkAssemble(b *testing.B) {
	store, err := template.NewStore(b.TempDir())
	if err != nil {
		b.Fatal(err)
	}
	assembler := NewAssembler(store)

	data := map[string]string{
		"name":           "Jane Doe",
		"passportNumber": "X1234567",
		"arrivalDate":    "01.05.2024",
		"guestFirstName": "Jane",
		"guestLastName":  "Doe",
		"email":          "jane@example.com",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := assembler.Assemble(context.Background(), data); err != nil {
			b.Fatal(err)
		}
	}
}
