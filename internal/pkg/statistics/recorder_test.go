package statistics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecorder_TrackGeneration(t *testing.T) {
	r := NewRecorder("")

	r.TrackGeneration("req-1", "JaneDoe", 100*time.Millisecond, 2048, true, false)
	r.TrackGeneration("req-2", "JohnDoe", 200*time.Millisecond, 4096, false, true)

	resp := r.GetStatistics()
	assert.Equal(t, uint64(2), resp.Contracts.TotalGenerations)
	assert.Equal(t, uint64(1), resp.Contracts.ErrorGenerations)
	assert.Equal(t, uint64(1), resp.Contracts.UploadedToDrive)
	assert.Equal(t, "150ms", resp.Contracts.AverageDuration)
	assert.Equal(t, "3.0 KB", resp.Contracts.AverageSize)
	assert.False(t, resp.LastUpdated.IsZero())
}

func TestRecorder_TrackUpload(t *testing.T) {
	r := NewRecorder("")

	r.TrackUpload("req-1", "Signierter_Vertrag_JaneDoe_1.docx", "signed_contract")
	r.TrackUpload("req-1", "passport_JaneDoe_2.jpg", "passport")
	r.TrackUpload("req-2", "passport_JohnDoe_3.jpg", "passport")

	resp := r.GetStatistics()
	assert.Equal(t, uint64(3), resp.Uploads.TotalUploads)
	assert.Equal(t, uint64(1), resp.Uploads.SignedContracts)
	assert.Equal(t, uint64(2), resp.Uploads.Passports)
}

func TestRecorder_NilSafe(t *testing.T) {
	var r *Recorder

	// Нулевой указатель не должен приводить к панике
	r.TrackGeneration("req-1", "JaneDoe", time.Second, 1024, false, false)
	r.TrackUpload("req-1", "file", "passport")
	assert.NoError(t, r.Close())

	resp := r.GetStatistics()
	assert.Zero(t, resp.Contracts.TotalGenerations)
}

func TestResponseFromStats(t *testing.T) {
	last := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	stats := &Stats{
		Contracts: ContractStats{
			TotalGenerations:   5,
			ErrorGenerations:   1,
			UploadedToDrive:    3,
			AverageDuration:    150 * time.Millisecond,
			AverageSize:        3072,
			LastGenerationTime: last,
		},
		Uploads: UploadStats{TotalUploads: 4, SignedContracts: 1, Passports: 3},
	}

	resp := responseFromStats(stats)
	assert.Equal(t, uint64(5), resp.Contracts.TotalGenerations)
	assert.Equal(t, uint64(1), resp.Contracts.ErrorGenerations)
	assert.Equal(t, uint64(3), resp.Contracts.UploadedToDrive)
	assert.Equal(t, "150ms", resp.Contracts.AverageDuration)
	assert.Equal(t, "3.0 KB", resp.Contracts.AverageSize)
	assert.Equal(t, stats.Uploads, resp.Uploads)
	assert.Equal(t, last, resp.LastUpdated)

	// Без генераций средние значения остаются пустыми
	empty := responseFromStats(&Stats{})
	assert.Empty(t, empty.Contracts.AverageDuration)
	assert.Empty(t, empty.Contracts.AverageSize)
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.0 KB", formatBytes(1024))
	assert.Equal(t, "1.5 MB", formatBytes(1536*1024))
}
