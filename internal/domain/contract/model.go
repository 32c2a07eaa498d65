package contract

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

var (
	// ErrValidation возвращается при некорректных данных формы
	ErrValidation = errors.New("validation error")
	// ErrAssembly возвращается при ошибке сборки документа
	ErrAssembly = errors.New("contract assembly error")
	// ErrUpload возвращается, когда документ сохранен локально,
	// но загрузка в облако не удалась
	ErrUpload = errors.New("cloud upload error")
	// ErrNotFound возвращается, когда запрошенный файл не существует
	ErrNotFound = errors.New("file not found")
)

// EmbeddedFile файл, переданный внутри JSON запроса
type EmbeddedFile struct {
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
	// Data содержимое файла в кодировке base64
	Data string `json:"data"`
}

// GuestFormData данные формы гостя
type GuestFormData struct {
	Name              string `json:"name"`
	PassportNumber    string `json:"passportNumber"`
	ArrivalDate       string `json:"arrivalDate"`
	GuestFirstName    string `json:"guestFirstName"`
	GuestLastName     string `json:"guestLastName"`
	Email             string `json:"email"`
	CheckInDate       string `json:"checkInDate"`
	CheckOutDate      string `json:"checkOutDate"`
	Guests            string `json:"guests"`
	SpecialAgreements string `json:"specialAgreements"`

	// PassportFile необязательная копия документа гостя
	PassportFile *EmbeddedFile `json:"passportFile,omitempty"`
}

// Validate проверяет обязательные поля формы
func (d GuestFormData) Validate() error {
	var missing []string
	if strings.TrimSpace(d.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(d.PassportNumber) == "" {
		missing = append(missing, "passportNumber")
	}
	if strings.TrimSpace(d.ArrivalDate) == "" {
		missing = append(missing, "arrivalDate")
	}
	if len(missing) > 0 {
		return fmtValidationError(missing)
	}
	if d.Email != "" {
		if _, err := mail.ParseAddress(d.Email); err != nil {
			return fmt.Errorf("%w: invalid email address", ErrValidation)
		}
	}
	return nil
}

func fmtValidationError(missing []string) error {
	return &ValidationError{Fields: missing}
}

// ValidationError описывает отсутствующие обязательные поля
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// TokenValues возвращает значения подстановок из данных формы.
// Пустые поля опускаются, для них действуют значения по умолчанию.
func (d GuestFormData) TokenValues() map[string]string {
	values := map[string]string{}
	set := func(token, value string) {
		if strings.TrimSpace(value) != "" {
			values[token] = value
		}
	}

	set("name", d.Name)
	set("passportNumber", d.PassportNumber)
	set("arrivalDate", d.ArrivalDate)
	set("guestFirstName", d.GuestFirstName)
	set("guestLastName", d.GuestLastName)
	set("email", d.Email)
	set("checkInDate", d.CheckInDate)
	set("checkOutDate", d.CheckOutDate)
	set("guests", d.Guests)
	set("specialAgreements", d.SpecialAgreements)

	return values
}

// GenerationResult результат генерации договора
type GenerationResult struct {
	RequestID    string `json:"requestId"`
	FileName     string `json:"fileName"`
	LocalPath    string `json:"localPath"`
	DriveURL     string `json:"driveUrl,omitempty"`
	AssemblyPath string `json:"assemblyPath"`
}

// UploadResult результат приема подписанного договора
type UploadResult struct {
	RequestID string `json:"requestId"`
	FileName  string `json:"fileName"`
	LocalPath string `json:"localPath"`
	DriveURL  string `json:"driveUrl,omitempty"`
}

// FileListing список файлов для административного интерфейса.
// Документы гостей, привязанные к договорам, показываются внутри
// записи договора, остальные попадают в StandalonePassports.
type FileListing struct {
	Contracts           []StoredFile `json:"contracts"`
	StandalonePassports []StoredFile `json:"standalonePassports"`
}

// StoredFile описание сохраненного файла
type StoredFile struct {
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	ModTime   int64  `json:"modTime"`
	Kind      string `json:"kind"`
	Guest     string `json:"guest,omitempty"`
	RequestID string `json:"requestId,omitempty"`

	// PassportFile документ гостя, относящийся к этому договору
	PassportFile *StoredFile `json:"passportFile,omitempty"`
}
