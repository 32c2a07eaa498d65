package contract

import (
	"context"

	"github.com/freshprince84/airbnbform/internal/pkg/statistics"
	"github.com/freshprince84/airbnbform/internal/pkg/template"
)

// Service определяет операции по работе с договорами аренды
type Service interface {
	// Generate собирает договор из данных формы, сохраняет его локально
	// и при настроенном облаке загружает туда
	Generate(ctx context.Context, data GuestFormData) (GenerationResult, error)

	// AcceptSigned принимает подписанный договор от гостя
	AcceptSigned(ctx context.Context, guestName, originalName string, content []byte) (UploadResult, error)

	// ListFiles возвращает списки договоров и загруженных документов
	ListFiles(ctx context.Context) (FileListing, error)

	// DownloadFile читает сохраненный файл по типу и имени
	DownloadFile(ctx context.Context, kind, fileName string) ([]byte, error)

	// Template возвращает текущий шаблон договора
	Template(ctx context.Context) (template.Template, error)

	// SetTemplate заменяет шаблон договора
	SetTemplate(ctx context.Context, tpl template.Template) error

	// HostSettings возвращает настройки арендодателя
	HostSettings(ctx context.Context) (template.HostSettings, error)

	// SetHostSettings сохраняет настройки арендодателя
	SetHostSettings(ctx context.Context, settings template.HostSettings) error

	// Stats возвращает статистику работы сервиса
	Stats(ctx context.Context) statistics.StatsResponse

	// UploadHealthy сообщает о доступности облачного хранилища
	UploadHealthy() bool
}
