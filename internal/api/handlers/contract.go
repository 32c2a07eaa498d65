package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/freshprince84/airbnbform/internal/domain/contract"
	"github.com/freshprince84/airbnbform/internal/pkg/logger"
)

// maxUploadSize ограничивает размер подписанного договора
const maxUploadSize = 16 << 20 // 16 MiB

// ContractHandler обрабатывает запросы гостей
type ContractHandler struct {
	service contract.Service
}

// NewContractHandler создает обработчик запросов гостей
func NewContractHandler(service contract.Service) *ContractHandler {
	return &ContractHandler{service: service}
}

// Generate принимает данные формы и возвращает информацию о созданном договоре
func (h *ContractHandler) Generate(c *gin.Context) {
	var req contract.GuestFormData
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to parse request",
			zap.Error(err),
			zap.String("content_type", c.GetHeader("Content-Type")),
		)
		if err.Error() == "EOF" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "empty request body"})
			return
		}
		if strings.Contains(err.Error(), "invalid character") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON format"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request format: %v", err)})
		return
	}

	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		status := determineErrorStatus(err)
		logger.Error("Failed to generate contract", zap.Error(err))

		response := gin.H{"error": err.Error()}
		if errors.Is(err, contract.ErrUpload) {
			// Договор сохранен, клиент должен знать, где его искать
			response["requestId"] = result.RequestID
			response["fileName"] = result.FileName
			response["localPath"] = result.LocalPath
		}
		c.JSON(status, response)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UploadSigned принимает подписанный договор (multipart/form-data)
func (h *ContractHandler) UploadSigned(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fileHeader.Size > maxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file is too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}

	guestName := c.PostForm("guestName")

	result, err := h.service.AcceptSigned(c.Request.Context(), guestName, fileHeader.Filename, content)
	if err != nil {
		status := determineErrorStatus(err)
		logger.Error("Failed to accept signed contract", zap.Error(err))

		response := gin.H{"error": err.Error()}
		if errors.Is(err, contract.ErrUpload) {
			response["requestId"] = result.RequestID
			response["fileName"] = result.FileName
			response["localPath"] = result.LocalPath
		}
		c.JSON(status, response)
		return
	}

	c.JSON(http.StatusOK, result)
}

// determineErrorStatus отображает доменные ошибки на HTTP статусы
func determineErrorStatus(err error) int {
	switch {
	case errors.Is(err, contract.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, contract.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, contract.ErrUpload):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
