package statistics

import "time"

// ContractStats статистика генерации договоров
type ContractStats struct {
	TotalGenerations   uint64        `json:"totalGenerations"`
	ErrorGenerations   uint64        `json:"errorGenerations"`
	UploadedToDrive    uint64        `json:"uploadedToDrive"`
	AverageDuration    time.Duration `json:"-"`
	AverageSize        int64         `json:"averageSize"`
	LastGenerationTime time.Time     `json:"lastGenerationTime"`
}

// UploadStats статистика загруженных файлов
type UploadStats struct {
	TotalUploads    uint64 `json:"totalUploads"`
	SignedContracts uint64 `json:"signedContracts"`
	Passports       uint64 `json:"passports"`
}

// Stats агрегированная статистика сервиса
type Stats struct {
	Contracts ContractStats `json:"contracts"`
	Uploads   UploadStats   `json:"uploads"`
}

// StatsResponse статистика в формате для API
type StatsResponse struct {
	Contracts struct {
		TotalGenerations uint64 `json:"totalGenerations"`
		ErrorGenerations uint64 `json:"errorGenerations"`
		UploadedToDrive  uint64 `json:"uploadedToDrive"`
		AverageDuration  string `json:"averageDuration"`
		AverageSize      string `json:"averageSize"`
	} `json:"contracts"`
	Uploads     UploadStats `json:"uploads"`
	LastUpdated time.Time   `json:"lastUpdated"`
}
