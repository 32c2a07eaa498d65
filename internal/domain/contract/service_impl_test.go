package contract

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshprince84/airbnbform/internal/pkg/docxgen"
	"github.com/freshprince84/airbnbform/internal/pkg/fileindex"
	"github.com/freshprince84/airbnbform/internal/pkg/statistics"
	"github.com/freshprince84/airbnbform/internal/pkg/storage"
	"github.com/freshprince84/airbnbform/internal/pkg/template"
)

// fakeUploader управляемая заглушка облачного хранилища
type fakeUploader struct {
	enabled bool
	url     string
	err     error
	calls   int
}

func (f *fakeUploader) Enabled() bool { return f.enabled }

func (f *fakeUploader) Upload(ctx context.Context, content []byte, fileName string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

func newTestService(t *testing.T, uploader *fakeUploader) *ServiceImpl {
	t.Helper()

	root := t.TempDir()
	local, err := storage.NewLocal(root)
	require.NoError(t, err)

	store, err := template.NewStore(local.TemplatesPath())
	require.NoError(t, err)

	settings := template.NewHostSettingsStore(local.TemplatesPath())
	require.NoError(t, settings.Set(template.HostSettings{
		HostFirstName:   "Max",
		HostLastName:    "Mustermann",
		PropertyAddress: "Musterstraße 1, Berlin",
		RentalAmount:    "75 EUR",
	}))

	idx, err := fileindex.Open(filepath.Join(root, "file_index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	return NewService(
		docxgen.NewAssembler(store),
		store,
		settings,
		local,
		idx,
		uploader,
		statistics.NewRecorder(""),
	)
}

func validForm() GuestFormData {
	return GuestFormData{
		Name:           "Jane Doe",
		PassportNumber: "C01X00T47",
		ArrivalDate:    "01.05.2024",
	}
}

func TestService_Generate(t *testing.T) {
	svc := newTestService(t, &fakeUploader{})

	result, err := svc.Generate(context.Background(), validForm())
	require.NoError(t, err)

	assert.NotEmpty(t, result.RequestID)
	assert.True(t, strings.HasPrefix(result.FileName, "Vertrag_JaneDoe_"))
	assert.True(t, strings.HasSuffix(result.FileName, ".docx"))
	assert.FileExists(t, result.LocalPath)
	assert.Empty(t, result.DriveURL)
	assert.Equal(t, "json", result.AssemblyPath)

	// Файл попадает в индекс по идентификатору запроса
	entries, err := svc.index.ByRequestID(context.Background(), result.RequestID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, fileindex.KindContract, entries[0].Kind)
	assert.Equal(t, result.FileName, entries[0].FileName)
}

func TestService_Generate_ValidationError(t *testing.T) {
	svc := newTestService(t, &fakeUploader{})

	_, err := svc.Generate(context.Background(), GuestFormData{Name: "Jane Doe"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "passportNumber")
	assert.Contains(t, verr.Fields, "arrivalDate")
}

func TestService_Generate_InvalidEmail(t *testing.T) {
	svc := newTestService(t, &fakeUploader{})

	form := validForm()
	form.Email = "not-an-email"

	_, err := svc.Generate(context.Background(), form)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_Generate_WithUpload(t *testing.T) {
	uploader := &fakeUploader{enabled: true, url: "https://drive.google.com/file/d/abc/view"}
	svc := newTestService(t, uploader)

	result, err := svc.Generate(context.Background(), validForm())
	require.NoError(t, err)

	assert.Equal(t, "https://drive.google.com/file/d/abc/view", result.DriveURL)
	assert.Equal(t, 1, uploader.calls)
}

func TestService_Generate_UploadFailureKeepsLocalFile(t *testing.T) {
	uploader := &fakeUploader{enabled: true, err: errors.New("drive unavailable")}
	svc := newTestService(t, uploader)

	result, err := svc.Generate(context.Background(), validForm())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpload)

	// Локальный файл сохранен несмотря на ошибку загрузки
	assert.FileExists(t, result.LocalPath)
	assert.NotEmpty(t, result.RequestID)
}

func TestService_Generate_StorageFailure(t *testing.T) {
	svc := newTestService(t, &fakeUploader{})

	// Сборка проходит, но каталог договоров недоступен
	require.NoError(t, os.RemoveAll(filepath.Join(svc.local.Root(), storage.ContractsDir)))

	_, err := svc.Generate(context.Background(), validForm())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAssembly)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrUpload)
	assert.Contains(t, err.Error(), "failed to save contract")
}

func TestService_Generate_SavesPassportFile(t *testing.T) {
	svc := newTestService(t, &fakeUploader{})

	form := validForm()
	form.PassportFile = &EmbeddedFile{
		Name:     "scan.jpg",
		MimeType: "image/jpeg",
		Data:     base64.StdEncoding.EncodeToString([]byte("jpeg-bytes")),
	}

	result, err := svc.Generate(context.Background(), form)
	require.NoError(t, err)

	entries, err := svc.index.ByRequestID(context.Background(), result.RequestID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, fileindex.KindPassport, entries[1].Kind)
	assert.True(t, fileindex.PassportMatchesGuest(entries[1].FileName, "Jane Doe"))

	content, err := svc.DownloadFile(context.Background(), "passport", entries[1].FileName)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), content)
}

func TestService_Generate_InvalidPassportDataIgnored(t *testing.T) {
	svc := newTestService(t, &fakeUploader{})

	form := validForm()
	form.PassportFile = &EmbeddedFile{Name: "scan.jpg", Data: "not-base64!!!"}

	result, err := svc.Generate(context.Background(), form)
	require.NoError(t, err)

	entries, err := svc.index.ByRequestID(context.Background(), result.RequestID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestService_AcceptSigned(t *testing.T) {
	svc := newTestService(t, &fakeUploader{})

	result, err := svc.AcceptSigned(context.Background(), "Jane Doe", "Vertrag_JaneDoe_1714500000000.docx", []byte("signed"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.FileName, "Signierter_Vertrag_JaneDoe_"))
	assert.FileExists(t, result.LocalPath)

	content, err := svc.DownloadFile(context.Background(), "contract", result.FileName)
	require.NoError(t, err)
	assert.Equal(t, []byte("signed"), content)
}

func TestService_AcceptSigned_GuestFromFileName(t *testing.T) {
	svc := newTestService(t, &fakeUploader{})

	result, err := svc.AcceptSigned(context.Background(), "", "Vertrag_JaneDoe_1714500000000.docx", []byte("signed"))
	require.NoError(t, err)
	assert.Contains(t, result.FileName, "JaneDoe")
}

func TestService_AcceptSigned_Validation(t *testing.T) {
	svc := newTestService(t, &fakeUploader{})

	_, err := svc.AcceptSigned(context.Background(), "Jane Doe", "x.docx", nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.AcceptSigned(context.Background(), "", "unrecognized.docx", []byte("signed"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_ListFiles(t *testing.T) {
	svc := newTestService(t, &fakeUploader{})

	form := validForm()
	form.PassportFile = &EmbeddedFile{
		Name: "scan.jpg",
		Data: base64.StdEncoding.EncodeToString([]byte("jpeg-bytes")),
	}
	result, err := svc.Generate(context.Background(), form)
	require.NoError(t, err)

	listing, err := svc.ListFiles(context.Background())
	require.NoError(t, err)

	require.Len(t, listing.Contracts, 1)
	got := listing.Contracts[0]
	assert.Equal(t, "contract", got.Kind)
	assert.Equal(t, "JaneDoe", got.Guest)
	assert.Equal(t, result.RequestID, got.RequestID)

	// Документ гостя показывается внутри записи договора
	require.NotNil(t, got.PassportFile)
	assert.Equal(t, "passport", got.PassportFile.Kind)
	assert.Equal(t, result.RequestID, got.PassportFile.RequestID)
	assert.True(t, strings.HasPrefix(got.PassportFile.Name, "passport_JaneDoe_"))

	assert.Empty(t, listing.StandalonePassports)
}

func TestService_ListFiles_PassportMatchedByFileName(t *testing.T) {
	svc := newTestService(t, &fakeUploader{})

	// Файлы, сохраненные до появления индекса, связываются по именам
	_, err := svc.local.SaveContract("Vertrag_JaneDoe_1714500000000.docx", []byte("docx"))
	require.NoError(t, err)
	_, err = svc.local.SavePassport("passport_JaneDoe_1714500000000_scan.jpg", []byte("jpeg"))
	require.NoError(t, err)

	listing, err := svc.ListFiles(context.Background())
	require.NoError(t, err)

	require.Len(t, listing.Contracts, 1)
	require.NotNil(t, listing.Contracts[0].PassportFile)
	assert.Equal(t, "passport_JaneDoe_1714500000000_scan.jpg", listing.Contracts[0].PassportFile.Name)
	assert.Empty(t, listing.StandalonePassports)
}

func TestService_ListFiles_StandalonePassport(t *testing.T) {
	svc := newTestService(t, &fakeUploader{})

	_, err := svc.Generate(context.Background(), validForm())
	require.NoError(t, err)
	_, err = svc.local.SavePassport("passport_JohnRoe_1714500000000_id.png", []byte("png"))
	require.NoError(t, err)

	listing, err := svc.ListFiles(context.Background())
	require.NoError(t, err)

	require.Len(t, listing.Contracts, 1)
	assert.Nil(t, listing.Contracts[0].PassportFile)

	require.Len(t, listing.StandalonePassports, 1)
	assert.Equal(t, "JohnRoe", listing.StandalonePassports[0].Guest)
}

func TestService_DownloadFile_Errors(t *testing.T) {
	svc := newTestService(t, &fakeUploader{})

	_, err := svc.DownloadFile(context.Background(), "contract", "missing.docx")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.DownloadFile(context.Background(), "unknown", "x.docx")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_TemplateRoundTrip(t *testing.T) {
	svc := newTestService(t, &fakeUploader{})
	ctx := context.Background()

	tpl, err := svc.Template(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, tpl.Sections)

	tpl.Title = "Untermietvertrag"
	require.NoError(t, svc.SetTemplate(ctx, tpl))

	got, err := svc.Template(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Untermietvertrag", got.Title)

	err = svc.SetTemplate(ctx, template.Template{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_HostSettingsRoundTrip(t *testing.T) {
	svc := newTestService(t, &fakeUploader{})
	ctx := context.Background()

	settings, err := svc.HostSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Max", settings.HostFirstName)

	settings.RentalAmount = "90 EUR"
	require.NoError(t, svc.SetHostSettings(ctx, settings))

	got, err := svc.HostSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "90 EUR", got.RentalAmount)
}

func TestService_Stats(t *testing.T) {
	svc := newTestService(t, &fakeUploader{})

	_, err := svc.Generate(context.Background(), validForm())
	require.NoError(t, err)

	stats := svc.Stats(context.Background())
	assert.Equal(t, uint64(1), stats.Contracts.TotalGenerations)
}
