package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/freshprince84/airbnbform/internal/api/handlers"
	"github.com/freshprince84/airbnbform/internal/domain/contract"
)

// Handlers содержит все обработчики API
type Handlers struct {
	Contract *handlers.ContractHandler
	Admin    *handlers.AdminHandler

	service contract.Service
}

// NewHandlers создает новые обработчики
func NewHandlers(service contract.Service) *Handlers {
	return &Handlers{
		Contract: handlers.NewContractHandler(service),
		Admin:    handlers.NewAdminHandler(service),
		service:  service,
	}
}

// Health отдает состояние сервиса с учетом доступности облачного хранилища
func (h *Handlers) Health(c *gin.Context) {
	uploadHealthy := h.service.UploadHealthy()

	// Недоступность облака не делает сервис нерабочим, договоры
	// продолжают сохраняться локально
	status := "healthy"
	if !uploadHealthy {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"details": gin.H{
			"drive_upload": gin.H{
				"healthy": uploadHealthy,
			},
		},
	})
}
