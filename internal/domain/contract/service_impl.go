package contract

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/freshprince84/airbnbform/internal/pkg/docxgen"
	"github.com/freshprince84/airbnbform/internal/pkg/drive"
	"github.com/freshprince84/airbnbform/internal/pkg/fileindex"
	"github.com/freshprince84/airbnbform/internal/pkg/logger"
	"github.com/freshprince84/airbnbform/internal/pkg/metrics"
	"github.com/freshprince84/airbnbform/internal/pkg/statistics"
	"github.com/freshprince84/airbnbform/internal/pkg/storage"
	"github.com/freshprince84/airbnbform/internal/pkg/template"
	"github.com/freshprince84/airbnbform/internal/pkg/tracing"
)

// ServiceImpl реализация Service
type ServiceImpl struct {
	assembler *docxgen.Assembler
	templates *template.Store
	settings  *template.HostSettingsStore
	local     *storage.Local
	index     *fileindex.Index
	uploader  drive.Uploader
	stats     *statistics.Recorder

	now func() time.Time
}

// NewService создает новый сервис договоров
func NewService(
	assembler *docxgen.Assembler,
	templates *template.Store,
	settings *template.HostSettingsStore,
	local *storage.Local,
	index *fileindex.Index,
	uploader drive.Uploader,
	stats *statistics.Recorder,
) *ServiceImpl {
	return &ServiceImpl{
		assembler: assembler,
		templates: templates,
		settings:  settings,
		local:     local,
		index:     index,
		uploader:  uploader,
		stats:     stats,
		now:       time.Now,
	}
}

// Generate собирает договор, сохраняет его локально и загружает в облако
func (s *ServiceImpl) Generate(ctx context.Context, data GuestFormData) (GenerationResult, error) {
	ctx, span := tracing.StartSpan(ctx, "contract.Generate")
	defer span.End()

	start := s.now()

	if err := data.Validate(); err != nil {
		metrics.ContractGenerationTotal.WithLabelValues("validation_error").Inc()
		return GenerationResult{}, err
	}

	// Данные гостя дополняются настройками арендодателя
	tokenValues := data.TokenValues()
	hostSettings, err := s.settings.Get()
	if err != nil {
		logger.Warn("failed to load host settings, using defaults",
			logger.Field("error", err.Error()),
		)
	} else {
		for token, value := range hostSettings.TokenValues() {
			if _, ok := tokenValues[token]; !ok && value != "" {
				tokenValues[token] = value
			}
		}
	}

	content, assemblyPath, err := s.assembler.Assemble(ctx, tokenValues)
	if err != nil {
		metrics.ContractGenerationTotal.WithLabelValues("assembly_error").Inc()
		tracing.RecordError(ctx, err)
		return GenerationResult{}, fmt.Errorf("%w: %v", ErrAssembly, err)
	}

	result := GenerationResult{
		RequestID:    uuid.NewString(),
		FileName:     fileindex.ContractFileName(data.Name, s.now()),
		AssemblyPath: string(assemblyPath),
	}
	tracing.AddAttributes(ctx, attribute.String("request_id", result.RequestID))

	localPath, err := s.local.SaveContract(result.FileName, content)
	if err != nil {
		metrics.ContractGenerationTotal.WithLabelValues("storage_error").Inc()
		tracing.RecordError(ctx, err)
		return GenerationResult{}, fmt.Errorf("failed to save contract: %w", err)
	}
	result.LocalPath = localPath

	guest := fileindex.SanitizeGuest(data.Name)
	if err := s.index.Record(ctx, result.RequestID, guest, fileindex.KindContract, result.FileName); err != nil {
		// Индекс вторичен по отношению к файлу на диске
		logger.Warn("contract saved but not indexed",
			logger.Field("request_id", result.RequestID),
			logger.Field("error", err.Error()),
		)
	}

	s.savePassportFile(ctx, result.RequestID, data)

	uploaded := false
	if s.uploader != nil && s.uploader.Enabled() {
		driveURL, err := s.uploader.Upload(ctx, content, result.FileName)
		if err != nil {
			metrics.ContractGenerationTotal.WithLabelValues("upload_error").Inc()
			s.stats.TrackGeneration(result.RequestID, guest, s.now().Sub(start), int64(len(content)), false, true)
			tracing.RecordError(ctx, err)
			logger.Error("contract saved locally but cloud upload failed",
				logger.Field("request_id", result.RequestID),
				logger.Field("file_name", result.FileName),
				logger.Field("error", err.Error()),
			)
			return result, fmt.Errorf("%w: %v", ErrUpload, err)
		}
		result.DriveURL = driveURL
		uploaded = true
	}

	metrics.ContractGenerationTotal.WithLabelValues("success").Inc()
	s.stats.TrackGeneration(result.RequestID, guest, s.now().Sub(start), int64(len(content)), uploaded, false)

	logger.Info("contract generated",
		logger.Field("request_id", result.RequestID),
		logger.Field("file_name", result.FileName),
		logger.Field("assembly_path", result.AssemblyPath),
		logger.Field("uploaded", uploaded),
	)

	return result, nil
}

// savePassportFile сохраняет копию документа гостя, если она приложена.
// Ошибки не прерывают генерацию договора.
func (s *ServiceImpl) savePassportFile(ctx context.Context, requestID string, data GuestFormData) {
	if data.PassportFile == nil || data.PassportFile.Data == "" {
		return
	}

	content, err := base64.StdEncoding.DecodeString(data.PassportFile.Data)
	if err != nil {
		logger.Warn("failed to decode passport file",
			logger.Field("request_id", requestID),
			logger.Field("error", err.Error()),
		)
		return
	}

	fileName := fileindex.PassportFileName(data.Name, data.PassportFile.Name, s.now())
	if _, err := s.local.SavePassport(fileName, content); err != nil {
		logger.Warn("failed to save passport file",
			logger.Field("request_id", requestID),
			logger.Field("error", err.Error()),
		)
		return
	}

	guest := fileindex.SanitizeGuest(data.Name)
	if err := s.index.Record(ctx, requestID, guest, fileindex.KindPassport, fileName); err != nil {
		logger.Warn("passport saved but not indexed",
			logger.Field("request_id", requestID),
			logger.Field("error", err.Error()),
		)
	}
	s.stats.TrackUpload(requestID, fileName, string(fileindex.KindPassport))
}

// AcceptSigned принимает подписанный договор от гостя
func (s *ServiceImpl) AcceptSigned(ctx context.Context, guestName, originalName string, content []byte) (UploadResult, error) {
	ctx, span := tracing.StartSpan(ctx, "contract.AcceptSigned")
	defer span.End()

	if len(content) == 0 {
		return UploadResult{}, fmt.Errorf("%w: empty file", ErrValidation)
	}
	if guestName == "" {
		// Имя гостя восстанавливается из имени исходного файла
		if parsed, ok := fileindex.ParseFileName(originalName); ok {
			guestName = parsed.Guest
		} else {
			return UploadResult{}, fmt.Errorf("%w: guest name is required", ErrValidation)
		}
	}

	result := UploadResult{
		RequestID: uuid.NewString(),
		FileName:  fileindex.SignedContractFileName(guestName, originalName, s.now()),
	}

	localPath, err := s.local.SaveSignedContract(result.FileName, content)
	if err != nil {
		return UploadResult{}, fmt.Errorf("failed to save signed contract: %w", err)
	}
	result.LocalPath = localPath

	guest := fileindex.SanitizeGuest(guestName)
	if err := s.index.Record(ctx, result.RequestID, guest, fileindex.KindSignedContract, result.FileName); err != nil {
		logger.Warn("signed contract saved but not indexed",
			logger.Field("request_id", result.RequestID),
			logger.Field("error", err.Error()),
		)
	}
	s.stats.TrackUpload(result.RequestID, result.FileName, string(fileindex.KindSignedContract))

	if s.uploader != nil && s.uploader.Enabled() {
		driveURL, err := s.uploader.Upload(ctx, content, result.FileName)
		if err != nil {
			logger.Error("signed contract saved locally but cloud upload failed",
				logger.Field("request_id", result.RequestID),
				logger.Field("file_name", result.FileName),
				logger.Field("error", err.Error()),
			)
			return result, fmt.Errorf("%w: %v", ErrUpload, err)
		}
		result.DriveURL = driveURL
	}

	logger.Info("signed contract accepted",
		logger.Field("request_id", result.RequestID),
		logger.Field("file_name", result.FileName),
	)

	return result, nil
}

// ListFiles возвращает списки договоров и загруженных документов
func (s *ServiceImpl) ListFiles(ctx context.Context) (FileListing, error) {
	_, span := tracing.StartSpan(ctx, "contract.ListFiles")
	defer span.End()

	contracts, err := s.local.ListContracts()
	if err != nil {
		return FileListing{}, fmt.Errorf("failed to list contracts: %w", err)
	}

	uploads, err := s.local.ListUploads()
	if err != nil {
		return FileListing{}, fmt.Errorf("failed to list uploads: %w", err)
	}

	passports := make([]StoredFile, 0, len(uploads))
	for _, f := range uploads {
		passports = append(passports, describeFile(f))
	}
	linked := make([]bool, len(passports))

	listing := FileListing{
		Contracts:           make([]StoredFile, 0, len(contracts)),
		StandalonePassports: []StoredFile{},
	}
	for _, f := range contracts {
		stored := describeFile(f)
		s.attachPassport(ctx, &stored, passports, linked)
		listing.Contracts = append(listing.Contracts, stored)
	}
	for i, p := range passports {
		if !linked[i] {
			listing.StandalonePassports = append(listing.StandalonePassports, p)
		}
	}

	return listing, nil
}

// attachPassport находит документ гостя для договора: сначала по
// идентификатору запроса в индексе, затем по записям индекса для того же
// гостя, в последнюю очередь по именам файлов. Последний вариант нужен
// для файлов, сохраненных до появления индекса.
func (s *ServiceImpl) attachPassport(ctx context.Context, stored *StoredFile, passports []StoredFile, linked []bool) {
	entry, ok, err := s.index.ByFileName(ctx, stored.Name)
	if err != nil {
		logger.Warn("file index lookup failed",
			logger.Field("file_name", stored.Name),
			logger.Field("error", err.Error()),
		)
	}
	if ok {
		stored.RequestID = entry.RequestID
		if related, err := s.index.ByRequestID(ctx, entry.RequestID); err == nil {
			if markPassport(stored, related, passports, linked) {
				return
			}
		}
	}

	if stored.Guest == "" {
		return
	}
	if related, err := s.index.ByGuest(ctx, stored.Guest); err == nil {
		if markPassport(stored, related, passports, linked) {
			return
		}
	}
	for i := range passports {
		if linked[i] {
			continue
		}
		if fileindex.PassportMatchesGuest(passports[i].Name, stored.Guest) {
			p := passports[i]
			stored.PassportFile = &p
			linked[i] = true
			return
		}
	}
}

// markPassport привязывает к договору первый из документов индекса,
// который присутствует на диске
func markPassport(stored *StoredFile, related []fileindex.Entry, passports []StoredFile, linked []bool) bool {
	for _, e := range related {
		if e.Kind != fileindex.KindPassport {
			continue
		}
		for i := range passports {
			if linked[i] || passports[i].Name != e.FileName {
				continue
			}
			p := passports[i]
			p.RequestID = e.RequestID
			stored.PassportFile = &p
			linked[i] = true
			return true
		}
	}
	return false
}

// describeFile дополняет информацию о файле данными из его имени
func describeFile(f storage.FileInfo) StoredFile {
	stored := StoredFile{
		Name:    f.Name,
		Size:    f.Size,
		ModTime: f.ModTime,
	}
	if parsed, ok := fileindex.ParseFileName(f.Name); ok {
		stored.Kind = string(parsed.Kind)
		stored.Guest = parsed.Guest
	}
	return stored
}

// DownloadFile читает сохраненный файл по типу и имени
func (s *ServiceImpl) DownloadFile(ctx context.Context, kind, fileName string) ([]byte, error) {
	_, span := tracing.StartSpan(ctx, "contract.DownloadFile")
	defer span.End()

	var content []byte
	var err error

	switch kind {
	case "contract":
		content, err = s.local.ReadContract(fileName)
	case "passport":
		content, err = s.local.ReadUpload(fileName)
	default:
		return nil, fmt.Errorf("%w: unknown file type %q", ErrValidation, kind)
	}

	if err != nil {
		if errors.Is(err, ErrValidation) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", ErrNotFound, fileName)
	}
	return content, nil
}

// Template возвращает текущий шаблон договора
func (s *ServiceImpl) Template(ctx context.Context) (template.Template, error) {
	return s.templates.Get(), nil
}

// SetTemplate заменяет шаблон договора
func (s *ServiceImpl) SetTemplate(ctx context.Context, tpl template.Template) error {
	if tpl.Title == "" || len(tpl.Sections) == 0 {
		return fmt.Errorf("%w: template must have a title and at least one section", ErrValidation)
	}
	return s.templates.Set(tpl)
}

// HostSettings возвращает настройки арендодателя
func (s *ServiceImpl) HostSettings(ctx context.Context) (template.HostSettings, error) {
	return s.settings.Get()
}

// SetHostSettings сохраняет настройки арендодателя
func (s *ServiceImpl) SetHostSettings(ctx context.Context, settings template.HostSettings) error {
	return s.settings.Set(settings)
}

// Stats возвращает статистику работы сервиса
func (s *ServiceImpl) Stats(ctx context.Context) statistics.StatsResponse {
	return s.stats.GetStatistics()
}

// UploadHealthy сообщает о доступности облачного хранилища
func (s *ServiceImpl) UploadHealthy() bool {
	type healthChecker interface {
		IsHealthy() bool
	}
	if hc, ok := s.uploader.(healthChecker); ok {
		return hc.IsHealthy()
	}
	return true
}
