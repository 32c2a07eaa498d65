package template

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore_WritesDefaultTemplate(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)

	// Встроенный шаблон должен быть записан на диск
	_, err = os.Stat(filepath.Join(dir, "default_template.json"))
	assert.NoError(t, err)

	tpl := store.Get()
	assert.Equal(t, Default().Title, tpl.Title)
	assert.NotEmpty(t, tpl.Sections)
}

func TestNewStore_LoadsExistingTemplate(t *testing.T) {
	dir := t.TempDir()

	custom := Template{
		Title:    "Vertrag für {name}",
		DateLine: "Datum: {currentDate}",
		Sections: []Section{
			{Title: "Daten", Content: []ContentItem{{Value: "Passnummer: {passportNumber}"}}},
		},
	}

	first, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set(custom))

	// Повторное открытие должно прочитать сохраненный шаблон
	second, err := NewStore(dir)
	require.NoError(t, err)
	assert.Equal(t, custom, second.Get())
}

func TestStore_SetGetRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	custom := Template{
		Title: "Vertrag für {name}",
		Sections: []Section{
			{Title: "A", Content: []ContentItem{{Label: "Pass", Value: "{passportNumber}"}}},
		},
	}
	require.NoError(t, store.Set(custom))
	assert.Equal(t, custom, store.Get())
}

func TestStore_GetReturnsIsolatedCopy(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	tpl := store.Get()
	tpl.Title = "geändert"
	tpl.Sections[0].Title = "geändert"
	tpl.Sections[0].Content[0].Value = "geändert"

	fresh := store.Get()
	assert.NotEqual(t, "geändert", fresh.Title)
	assert.NotEqual(t, "geändert", fresh.Sections[0].Title)
	assert.NotEqual(t, "geändert", fresh.Sections[0].Content[0].Value)
}

func TestStore_BinaryExists(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	assert.False(t, store.BinaryExists())

	require.NoError(t, os.WriteFile(store.BinaryPath(), []byte("docx"), 0644))
	assert.True(t, store.BinaryExists())
}

func TestHostSettingsStore(t *testing.T) {
	dir := t.TempDir()
	store := NewHostSettingsStore(dir)

	// Отсутствующий файл означает пустые настройки
	settings, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, HostSettings{}, settings)

	saved := HostSettings{
		HostFirstName:   "Max",
		HostLastName:    "Mustermann",
		PropertyAddress: "Musterstraße 1, Berlin",
		RentalAmount:    "1200 EUR",
	}
	require.NoError(t, store.Set(saved))

	loaded, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)

	values := loaded.TokenValues()
	assert.Equal(t, "Max", values["hostFirstName"])
	assert.Equal(t, "Musterstraße 1, Berlin", values["propertyAddress"])
}
