package template

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const hostSettingsFile = "host_settings.json"

// HostSettings данные арендодателя, подставляемые в каждый договор.
// Хранятся отдельно от данных гостей и читаются при каждой сборке.
type HostSettings struct {
	HostFirstName   string `json:"hostFirstName"`
	HostLastName    string `json:"hostLastName"`
	PropertyAddress string `json:"propertyAddress"`
	RentalAmount    string `json:"rentalAmount"`
}

// TokenValues возвращает значения настроек в виде карты токенов
func (h HostSettings) TokenValues() map[string]string {
	return map[string]string{
		"hostFirstName":   h.HostFirstName,
		"hostLastName":    h.HostLastName,
		"propertyAddress": h.PropertyAddress,
		"rentalAmount":    h.RentalAmount,
	}
}

// HostSettingsStore хранит настройки арендодателя в JSON-файле
type HostSettingsStore struct {
	mu   sync.RWMutex
	path string
}

// NewHostSettingsStore создает хранилище настроек в директории шаблонов
func NewHostSettingsStore(dir string) *HostSettingsStore {
	return &HostSettingsStore{path: filepath.Join(dir, hostSettingsFile)}
}

// Get читает настройки с диска. Отсутствующий файл означает пустые
// настройки, недостающие поля заполняются значениями по умолчанию при
// подстановке.
func (s *HostSettingsStore) Get() (HostSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return HostSettings{}, nil
		}
		return HostSettings{}, fmt.Errorf("failed to read host settings: %w", err)
	}

	var settings HostSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return HostSettings{}, fmt.Errorf("failed to parse host settings: %w", err)
	}
	return settings, nil
}

// Set заменяет настройки целиком и сохраняет их на диск
func (s *HostSettingsStore) Set(settings HostSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal host settings: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write host settings: %w", err)
	}
	return nil
}
