package template

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/freshprince84/airbnbform/internal/pkg/logger"

	"go.uber.org/zap"
)

const (
	jsonTemplateFile   = "default_template.json"
	binaryTemplateFile = "contract_template.docx"
)

// Store хранит активный JSON-шаблон договора. Запись заменяет шаблон
// целиком и сразу сохраняет его на диск; читатели получают глубокую
// копию. Если рядом лежит бинарный шаблон (DOCX), при сборке документа
// он имеет приоритет над JSON.
type Store struct {
	mu      sync.RWMutex
	dir     string
	current Template
}

// NewStore создает хранилище шаблонов в указанной директории.
// Если default_template.json отсутствует, записывает встроенный шаблон.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create templates dir: %w", err)
	}

	s := &Store{dir: dir}

	path := filepath.Join(dir, jsonTemplateFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read template file: %w", err)
		}
		// Первый старт: записываем встроенный шаблон
		s.current = Default()
		if err := s.persist(); err != nil {
			return nil, err
		}
		logger.Info("Default contract template written", zap.String("path", path))
		return s, nil
	}

	var tpl Template
	if err := json.Unmarshal(data, &tpl); err != nil {
		return nil, fmt.Errorf("failed to parse template file: %w", err)
	}
	s.current = tpl
	return s, nil
}

// Get возвращает глубокую копию активного шаблона
func (s *Store) Get() Template {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Set заменяет активный шаблон целиком и сохраняет его на диск
func (s *Store) Set(tpl Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = tpl.Clone()
	return s.persist()
}

// persist записывает актуальный шаблон на диск. Вызывается под mu.
func (s *Store) persist() error {
	data, err := json.MarshalIndent(s.current, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal template: %w", err)
	}
	path := filepath.Join(s.dir, jsonTemplateFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write template file: %w", err)
	}
	return nil
}

// BinaryPath возвращает путь к бинарному DOCX-шаблону
func (s *Store) BinaryPath() string {
	return filepath.Join(s.dir, binaryTemplateFile)
}

// BinaryExists сообщает, присутствует ли бинарный шаблон на диске
func (s *Store) BinaryExists() bool {
	info, err := os.Stat(s.BinaryPath())
	return err == nil && !info.IsDir()
}

// WriteBinary записывает бинарный шаблон на диск
func (s *Store) WriteBinary(data []byte) error {
	if err := os.WriteFile(s.BinaryPath(), data, 0644); err != nil {
		return fmt.Errorf("failed to write binary template: %w", err)
	}
	return nil
}
