package placeholder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubstitute(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		data     map[string]string
		expected string
	}{
		{
			name:     "single token",
			text:     "Vertrag für {name}",
			data:     map[string]string{"name": "Jane Doe"},
			expected: "Vertrag für Jane Doe",
		},
		{
			name:     "all occurrences replaced",
			text:     "{name} und nochmals {name}",
			data:     map[string]string{"name": "Jane"},
			expected: "Jane und nochmals Jane",
		},
		{
			name:     "multiple tokens",
			text:     "Passnummer: {passportNumber}, Ankunft: {arrivalDate}",
			data:     map[string]string{"passportNumber": "X1234567", "arrivalDate": "2024-05-01"},
			expected: "Passnummer: X1234567, Ankunft: 2024-05-01",
		},
		{
			name:     "missing field uses default",
			text:     "Passnummer: {passportNumber}",
			data:     map[string]string{},
			expected: "Passnummer: Nicht angegeben",
		},
		{
			name:     "empty value uses default",
			text:     "E-Mail: {email}",
			data:     map[string]string{"email": ""},
			expected: "E-Mail: Nicht angegeben",
		},
		{
			name:     "unknown token untouched",
			text:     "Hallo {unbekannt}, Gast {name}",
			data:     map[string]string{"name": "Jane"},
			expected: "Hallo {unbekannt}, Gast Jane",
		},
		{
			name:     "no tokens",
			text:     "Keine Platzhalter hier",
			data:     map[string]string{"name": "Jane"},
			expected: "Keine Platzhalter hier",
		},
	}

	defaults := Defaults()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Substitute(tt.text, tt.data, defaults))
		})
	}
}

func TestSubstitute_AllTokensHaveDefaults(t *testing.T) {
	defaults := Defaults()
	for _, token := range Tokens {
		text := "Wert: {" + token + "}"
		result := Substitute(text, nil, defaults)
		assert.NotContains(t, result, "{"+token+"}", "token %s must never survive substitution", token)
		assert.Equal(t, "Wert: "+DefaultMissing, result)
	}
}

func TestSubstitute_Idempotent(t *testing.T) {
	defaults := Defaults()
	data := map[string]string{
		"name":           "Jane Doe",
		"passportNumber": "X1234567",
	}
	text := "Vertrag für {name}, Pass {passportNumber}, Ankunft {arrivalDate}"

	once := Substitute(text, data, defaults)
	twice := Substitute(once, data, defaults)
	assert.Equal(t, once, twice)
}

func TestSubstitute_CustomDefaults(t *testing.T) {
	defaults := Defaults()
	defaults["specialAgreements"] = "Keine"

	result := Substitute("Vereinbarungen: {specialAgreements}", nil, defaults)
	assert.Equal(t, "Vereinbarungen: Keine", result)
}
