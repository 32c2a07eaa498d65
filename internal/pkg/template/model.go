package template

// ContentItem элемент содержимого секции договора. Label опционален и
// выводится жирным, Value проходит подстановку плейсхолдеров.
type ContentItem struct {
	Label string `json:"label,omitempty"`
	Value string `json:"value"`
}

// Section секция договора с заголовком и упорядоченным содержимым
type Section struct {
	Title   string        `json:"title"`
	Content []ContentItem `json:"content"`
}

// Template JSON-представление шаблона договора
type Template struct {
	Title    string    `json:"title"`
	DateLine string    `json:"dateLine"`
	Sections []Section `json:"sections"`
}

// Clone возвращает глубокую копию шаблона
func (t Template) Clone() Template {
	clone := Template{
		Title:    t.Title,
		DateLine: t.DateLine,
	}
	if t.Sections == nil {
		return clone
	}

	clone.Sections = make([]Section, len(t.Sections))
	for i, section := range t.Sections {
		copied := Section{Title: section.Title}
		if section.Content != nil {
			copied.Content = make([]ContentItem, len(section.Content))
			copy(copied.Content, section.Content)
		}
		clone.Sections[i] = copied
	}
	return clone
}

// Default возвращает встроенный шаблон Mietvertrag'а. Используется при
// первом старте сервера и как содержимое для генерации бинарного
// шаблона по умолчанию.
func Default() Template {
	return Template{
		Title:    "Mietvertrag für {name}",
		DateLine: "Datum: {currentDate}",
		Sections: []Section{
			{
				Title: "1. Vertragsparteien",
				Content: []ContentItem{
					{Label: "Vermieter", Value: "{hostFirstName} {hostLastName}"},
					{Label: "Mieter", Value: "{guestFirstName} {guestLastName}"},
					{Label: "Passnummer", Value: "{passportNumber}"},
					{Label: "E-Mail", Value: "{email}"},
				},
			},
			{
				Title: "2. Mietobjekt",
				Content: []ContentItem{
					{Label: "Adresse", Value: "{propertyAddress}"},
					{Label: "Anzahl Gäste", Value: "{guests}"},
				},
			},
			{
				Title: "3. Mietdauer",
				Content: []ContentItem{
					{Label: "Ankunftsdatum", Value: "{arrivalDate}"},
					{Label: "Check-in", Value: "{checkInDate}"},
					{Label: "Check-out", Value: "{checkOutDate}"},
				},
			},
			{
				Title: "4. Miete",
				Content: []ContentItem{
					{Label: "Mietbetrag", Value: "{rentalAmount}"},
					{Value: "Der Mietbetrag ist bei Ankunft in voller Höhe zu entrichten."},
				},
			},
			{
				Title: "5. Besondere Vereinbarungen",
				Content: []ContentItem{
					{Value: "{specialAgreements}"},
				},
			},
		},
	}
}
