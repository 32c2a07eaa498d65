package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/freshprince84/airbnbform/internal/domain/contract"
	"github.com/freshprince84/airbnbform/internal/pkg/logger"
	"github.com/freshprince84/airbnbform/internal/pkg/template"
)

// AdminHandler обрабатывает административные запросы
type AdminHandler struct {
	service contract.Service
}

// NewAdminHandler создает обработчик административных запросов
func NewAdminHandler(service contract.Service) *AdminHandler {
	return &AdminHandler{service: service}
}

// ListFiles возвращает списки договоров и загруженных документов
func (h *AdminHandler) ListFiles(c *gin.Context) {
	listing, err := h.service.ListFiles(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list files", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list files"})
		return
	}
	c.JSON(http.StatusOK, listing)
}

// GetTemplate возвращает текущий шаблон договора
func (h *AdminHandler) GetTemplate(c *gin.Context) {
	tpl, err := h.service.Template(c.Request.Context())
	if err != nil {
		logger.Error("Failed to load template", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load template"})
		return
	}
	c.JSON(http.StatusOK, tpl)
}

// SetTemplate заменяет шаблон договора
func (h *AdminHandler) SetTemplate(c *gin.Context) {
	var tpl template.Template
	if err := c.ShouldBindJSON(&tpl); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid template format"})
		return
	}

	if err := h.service.SetTemplate(c.Request.Context(), tpl); err != nil {
		status := determineErrorStatus(err)
		logger.Error("Failed to update template", zap.Error(err))
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetHostSettings возвращает настройки арендодателя
func (h *AdminHandler) GetHostSettings(c *gin.Context) {
	settings, err := h.service.HostSettings(c.Request.Context())
	if err != nil {
		logger.Error("Failed to load host settings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load host settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// SetHostSettings сохраняет настройки арендодателя
func (h *AdminHandler) SetHostSettings(c *gin.Context) {
	var settings template.HostSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid settings format"})
		return
	}

	if err := h.service.SetHostSettings(c.Request.Context(), settings); err != nil {
		logger.Error("Failed to update host settings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update host settings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Download отдает сохраненный файл по типу и имени
func (h *AdminHandler) Download(c *gin.Context) {
	kind := c.Query("type")
	fileName := c.Query("fileName")
	if fileName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fileName is required"})
		return
	}

	content, err := h.service.DownloadFile(c.Request.Context(), kind, fileName)
	if err != nil {
		status := determineErrorStatus(err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Data(http.StatusOK, "application/octet-stream", content)
}

// Stats возвращает статистику работы сервиса
func (h *AdminHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Stats(c.Request.Context()))
}
