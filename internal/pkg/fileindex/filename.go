package fileindex

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Kind тип сохраняемого файла
type Kind string

const (
	KindContract       Kind = "contract"
	KindSignedContract Kind = "signed_contract"
	KindPassport       Kind = "passport"
)

const (
	contractPrefix = "Vertrag_"
	signedPrefix   = "Signierter_Vertrag_"
	passportPrefix = "passport_"
)

// SanitizeGuest убирает пробельные символы из имени гостя,
// чтобы оно было пригодно для имени файла
func SanitizeGuest(name string) string {
	return strings.Join(strings.Fields(name), "")
}

// ContractFileName формирует имя файла договора
func ContractFileName(guestName string, now time.Time) string {
	return fmt.Sprintf("%s%s_%d.docx", contractPrefix, SanitizeGuest(guestName), now.UnixMilli())
}

// SignedContractFileName формирует имя файла подписанного договора,
// сохраняя расширение исходного файла
func SignedContractFileName(guestName, originalName string, now time.Time) string {
	ext := filepath.Ext(originalName)
	if ext == "" {
		ext = ".docx"
	}
	return fmt.Sprintf("%s%s_%d%s", signedPrefix, SanitizeGuest(guestName), now.UnixMilli(), ext)
}

// PassportFileName формирует имя файла документа, удостоверяющего
// личность. Исходное имя файла сохраняется в хвосте имени.
func PassportFileName(guestName, originalName string, now time.Time) string {
	original := SanitizeGuest(filepath.Base(originalName))
	if original == "" || original == "." {
		original = "scan"
	}
	return fmt.Sprintf("%s%s_%d_%s", passportPrefix, SanitizeGuest(guestName), now.UnixMilli(), original)
}

// ParsedName результат разбора имени файла
type ParsedName struct {
	Kind      Kind
	Guest     string
	Timestamp int64
}

// ParseFileName разбирает имя файла, сформированное этим пакетом.
// Для имен, не соответствующих соглашению, возвращается ok == false.
func ParseFileName(fileName string) (ParsedName, bool) {
	var kind Kind
	var rest string

	switch {
	case strings.HasPrefix(fileName, signedPrefix):
		kind = KindSignedContract
		rest = strings.TrimPrefix(fileName, signedPrefix)
	case strings.HasPrefix(fileName, contractPrefix):
		kind = KindContract
		rest = strings.TrimPrefix(fileName, contractPrefix)
	case strings.HasPrefix(fileName, passportPrefix):
		// Имя документа гостя содержит исходное имя файла в хвосте:
		// passport_<гость>_<метка>_<исходное имя>
		rest = strings.TrimPrefix(fileName, passportPrefix)
		parts := strings.SplitN(rest, "_", 3)
		if len(parts) < 2 {
			return ParsedName{}, false
		}
		ts, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return ParsedName{}, false
		}
		return ParsedName{Kind: KindPassport, Guest: parts[0], Timestamp: ts}, true
	default:
		return ParsedName{}, false
	}

	rest = strings.TrimSuffix(rest, filepath.Ext(rest))
	idx := strings.LastIndex(rest, "_")
	if idx <= 0 {
		return ParsedName{}, false
	}

	ts, err := strconv.ParseInt(rest[idx+1:], 10, 64)
	if err != nil {
		return ParsedName{}, false
	}

	return ParsedName{
		Kind:      kind,
		Guest:     rest[:idx],
		Timestamp: ts,
	}, true
}

// PassportMatchesGuest проверяет, относится ли файл документа к данному гостю
func PassportMatchesGuest(fileName, guestName string) bool {
	return strings.HasPrefix(fileName, passportPrefix+SanitizeGuest(guestName)+"_")
}
