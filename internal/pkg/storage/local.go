package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/freshprince84/airbnbform/internal/pkg/logger"
)

// Каталоги внутри корня данных
const (
	ContractsDir = "contracts"
	UploadsDir   = "uploads"
	TemplatesDir = "templates"
)

// FileInfo краткая информация о файле для выдачи наружу
type FileInfo struct {
	Name    string `json:"name"`
	Size    int64  `json:"size"`
	ModTime int64  `json:"modTime"`
}

// Local файловое хранилище на локальном диске.
// Структура каталогов создается при старте сервиса.
type Local struct {
	root string
}

// NewLocal создает хранилище и подготавливает структуру каталогов
func NewLocal(root string) (*Local, error) {
	for _, dir := range []string{ContractsDir, UploadsDir, TemplatesDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
		}
	}

	logger.Info("local storage initialized", logger.Field("root", root))
	return &Local{root: root}, nil
}

// Root возвращает корневой каталог хранилища
func (l *Local) Root() string {
	return l.root
}

// TemplatesPath возвращает каталог шаблонов
func (l *Local) TemplatesPath() string {
	return filepath.Join(l.root, TemplatesDir)
}

// SaveContract сохраняет сгенерированный договор
func (l *Local) SaveContract(fileName string, content []byte) (string, error) {
	return l.save(ContractsDir, fileName, content)
}

// SaveSignedContract сохраняет подписанный договор
func (l *Local) SaveSignedContract(fileName string, content []byte) (string, error) {
	return l.save(ContractsDir, fileName, content)
}

// SavePassport сохраняет документ, удостоверяющий личность
func (l *Local) SavePassport(fileName string, content []byte) (string, error) {
	return l.save(UploadsDir, fileName, content)
}

func (l *Local) save(dir, fileName string, content []byte) (string, error) {
	// Имя не должно выводить за пределы каталога
	if fileName == "" || fileName != filepath.Base(fileName) {
		return "", fmt.Errorf("invalid file name: %q", fileName)
	}

	path := filepath.Join(l.root, dir, fileName)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to save file %s: %w", fileName, err)
	}

	return path, nil
}

// ListContracts возвращает список файлов договоров
func (l *Local) ListContracts() ([]FileInfo, error) {
	return l.list(ContractsDir)
}

// ListUploads возвращает список загруженных документов
func (l *Local) ListUploads() ([]FileInfo, error) {
	return l.list(UploadsDir)
}

func (l *Local) list(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(filepath.Join(l.root, dir))
	if err != nil {
		return nil, fmt.Errorf("failed to list directory %s: %w", dir, err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime().UnixMilli(),
		})
	}

	// Новые файлы первыми
	sort.Slice(files, func(i, j int) bool {
		return files[i].ModTime > files[j].ModTime
	})

	return files, nil
}

// ReadContract читает файл договора по имени
func (l *Local) ReadContract(fileName string) ([]byte, error) {
	return l.read(ContractsDir, fileName)
}

// ReadUpload читает загруженный документ по имени
func (l *Local) ReadUpload(fileName string) ([]byte, error) {
	return l.read(UploadsDir, fileName)
}

func (l *Local) read(dir, fileName string) ([]byte, error) {
	if fileName == "" || fileName != filepath.Base(fileName) {
		return nil, fmt.Errorf("invalid file name: %q", fileName)
	}

	content, err := os.ReadFile(filepath.Join(l.root, dir, fileName))
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", fileName, err)
	}
	return content, nil
}
