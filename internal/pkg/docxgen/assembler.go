// Package docxgen собирает готовый договор в формате DOCX. Поддерживаются
// две стратегии: заполнение бинарного DOCX-шаблона и построение документа
// из JSON-шаблона. Бинарный шаблон имеет приоритет; при любой ошибке его
// обработки сборка деградирует на JSON-шаблон.
package docxgen

import (
	"context"
	"fmt"
	"time"

	"github.com/freshprince84/airbnbform/internal/pkg/logger"
	"github.com/freshprince84/airbnbform/internal/pkg/metrics"
	"github.com/freshprince84/airbnbform/internal/pkg/placeholder"
	"github.com/freshprince84/airbnbform/internal/pkg/template"
	"github.com/freshprince84/airbnbform/internal/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DateLayout формат даты в договоре (немецкая локаль)
const DateLayout = "02.01.2006"

// SignatureLine завершающая строка договора
const SignatureLine = "Unterschrift Vermieter: ____________________    Unterschrift Mieter: ____________________"

// Path идентифицирует стратегию, которой был собран документ
type Path string

const (
	PathBinary Path = "binary"
	PathJSON   Path = "json"
)

// Assembler собирает договор из активного шаблона и данных формы
type Assembler struct {
	store    *template.Store
	defaults map[string]string
	now      func() time.Time
}

// NewAssembler создает сборщик документов поверх хранилища шаблонов
func NewAssembler(store *template.Store) *Assembler {
	return &Assembler{
		store:    store,
		defaults: placeholder.Defaults(),
		now:      time.Now,
	}
}

// Assemble собирает готовый DOCX-документ. data содержит значения всех
// плейсхолдеров (данные гостя и арендодателя); текущая дата добавляется
// автоматически, если не задана.
func (a *Assembler) Assemble(ctx context.Context, data map[string]string) ([]byte, Path, error) {
	ctx, span := tracing.StartSpan(ctx, "Assembler.Assemble")
	defer span.End()

	start := time.Now()

	if data == nil {
		data = make(map[string]string)
	}
	if data["currentDate"] == "" {
		data["currentDate"] = a.now().Format(DateLayout)
	}

	// Стратегия 1: бинарный шаблон, если он присутствует на диске
	if a.store.BinaryExists() {
		buf, err := a.renderBinary(data)
		if err == nil {
			span.SetAttributes(attribute.String("assembly.path", string(PathBinary)))
			metrics.ContractGenerationDuration.WithLabelValues(string(PathBinary)).Observe(time.Since(start).Seconds())
			metrics.ContractFileSizeBytes.Observe(float64(len(buf)))
			return buf, PathBinary, nil
		}

		// Деградация на JSON-шаблон, ошибка не покидает сборщик
		logger.Warn("Binary template rendering failed, falling back to JSON template",
			zap.String("template", a.store.BinaryPath()),
			zap.Error(err),
		)
		tracing.RecordError(ctx, err)
		metrics.TemplateFallbackTotal.Inc()
	}

	// Стратегия 2: построение документа из JSON-шаблона
	buf, err := a.renderTemplate(a.store.Get(), data)
	if err != nil {
		return nil, PathJSON, fmt.Errorf("failed to render contract: %w", err)
	}

	span.SetAttributes(attribute.String("assembly.path", string(PathJSON)))
	metrics.ContractGenerationDuration.WithLabelValues(string(PathJSON)).Observe(time.Since(start).Seconds())
	metrics.ContractFileSizeBytes.Observe(float64(len(buf)))
	return buf, PathJSON, nil
}

// CreateDefaultBinaryTemplate генерирует бинарный шаблон из встроенного
// JSON-шаблона, если его еще нет на диске. Вызывается один раз при старте
// сервера; ошибка логируется и не считается фатальной.
func (a *Assembler) CreateDefaultBinaryTemplate() {
	if a.store.BinaryExists() {
		return
	}

	// В шаблоне плейсхолдеры остаются незамещенными, поэтому подстановку
	// выполняем с "пустыми" значениями, равными самим маркерам.
	data := make(map[string]string, len(placeholder.Tokens))
	for _, token := range placeholder.Tokens {
		data[token] = "{" + token + "}"
	}

	buf, err := a.renderTemplate(template.Default(), data)
	if err != nil {
		logger.Warn("Failed to render default binary template", zap.Error(err))
		return
	}

	if err := a.store.WriteBinary(buf); err != nil {
		logger.Warn("Failed to write default binary template", zap.Error(err))
		return
	}

	logger.Info("Default binary template created", zap.String("path", a.store.BinaryPath()))
}
