// Package placeholder реализует подстановку плейсхолдеров вида {token}
// в текст договора. Набор токенов фиксирован, вложенность и экранирование
// не поддерживаются.
package placeholder

import "strings"

// Tokens фиксированный набор поддерживаемых плейсхолдеров
var Tokens = []string{
	"name",
	"passportNumber",
	"arrivalDate",
	"currentDate",
	"guestFirstName",
	"guestLastName",
	"email",
	"checkInDate",
	"checkOutDate",
	"guests",
	"specialAgreements",
	"hostFirstName",
	"hostLastName",
	"propertyAddress",
	"rentalAmount",
}

// DefaultMissing значение по умолчанию для отсутствующих полей
const DefaultMissing = "Nicht angegeben"

// Defaults возвращает значения по умолчанию для всех токенов.
// Политика единая: отсутствующее поле подставляется как DefaultMissing.
func Defaults() map[string]string {
	defaults := make(map[string]string, len(Tokens))
	for _, token := range Tokens {
		defaults[token] = DefaultMissing
	}
	return defaults
}

// Substitute заменяет все вхождения известных плейсхолдеров в тексте.
// Если значение в data пустое или отсутствует, берется значение из
// defaults, а при его отсутствии DefaultMissing. Неизвестные
// плейсхолдеры остаются без изменений.
func Substitute(text string, data map[string]string, defaults map[string]string) string {
	for _, token := range Tokens {
		marker := "{" + token + "}"
		if !strings.Contains(text, marker) {
			continue
		}

		value := data[token]
		if value == "" {
			value = defaults[token]
		}
		if value == "" {
			value = DefaultMissing
		}

		text = strings.ReplaceAll(text, marker, value)
	}
	return text
}
