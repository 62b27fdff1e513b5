package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"document-analyzer/internal/logger"
	"document-analyzer/internal/models"
	"document-analyzer/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const maxUploadSize = 10 << 20 // 10MB

// AnalysisService is the orchestration surface the HTTP layer depends on.
type AnalysisService interface {
	Analyze(ctx context.Context, filename string, data []byte) (*services.AnalysisResult, error)
	Chat(ctx context.Context, documentID, message string) (string, error)
}

type DocumentHandler struct {
	service   AnalysisService
	uploadDir string
}

func NewDocumentHandler(service AnalysisService, uploadDir string) *DocumentHandler {
	return &DocumentHandler{
		service:   service,
		uploadDir: uploadDir,
	}
}

// Analyze handles POST /analyze: multipart field "file", PDF only, 10MB cap.
func (h *DocumentHandler) Analyze(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "No file uploaded",
		})
		return
	}

	if file.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "File too large",
			Details: fmt.Sprintf("maximum upload size is %d bytes", maxUploadSize),
		})
		return
	}

	if contentType := file.Header.Get("Content-Type"); contentType != "application/pdf" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Only PDF files are allowed",
			Details: fmt.Sprintf("got content type %q", contentType),
		})
		return
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		logger.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Error("Failed to create upload directory")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Server error",
		})
		return
	}

	uploadPath := filepath.Join(h.uploadDir, fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filepath.Base(file.Filename)))
	if err := c.SaveUploadedFile(file, uploadPath); err != nil {
		logger.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Error("Failed to save uploaded file")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Server error",
		})
		return
	}
	// The temporary upload is removed once the bytes are read, on every
	// path out of this handler.
	defer os.Remove(uploadPath)

	data, err := os.ReadFile(uploadPath)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"error": err.Error(),
			"path":  uploadPath,
		}).Error("Failed to read uploaded file")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Server error",
		})
		return
	}

	logger.WithFields(logrus.Fields{
		"filename": file.Filename,
		"size":     file.Size,
	}).Info("Received /analyze request")

	result, err := h.service.Analyze(c.Request.Context(), file.Filename, data)
	if err != nil {
		var extractionErr *services.ExtractionError
		if errors.As(err, &extractionErr) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "Error analyzing document",
				Details: extractionErr.Error(),
			})
			return
		}

		logger.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Error("Unexpected error during document analysis")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Error analyzing document",
		})
		return
	}

	c.JSON(http.StatusOK, models.AnalyzeResponse{
		Result:       result.Result,
		DocumentID:   result.DocumentID,
		DocumentName: result.DocumentName,
	})
}

// Chat handles POST /chat for a previously analyzed document.
func (h *DocumentHandler) Chat(c *gin.Context) {
	var request models.ChatRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	logger.WithFields(logrus.Fields{
		"documentId": request.DocumentID,
	}).Info("Received /chat request")

	reply, err := h.service.Chat(c.Request.Context(), request.DocumentID, request.Message)
	if err != nil {
		if errors.Is(err, services.ErrDocumentNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "Document not found",
				Message: "Analyze a document first, then chat using the returned documentId.",
			})
			return
		}

		var attemptsErr *services.AttemptsError
		if errors.As(err, &attemptsErr) {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   "Error communicating with the model runner",
				Details: attemptsErr.Error(),
			})
			return
		}

		logger.WithFields(logrus.Fields{
			"documentId": request.DocumentID,
			"error":      err.Error(),
		}).Error("Unexpected error during chat")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Server error",
		})
		return
	}

	c.JSON(http.StatusOK, models.ChatResponse{Result: reply})
}

// Health handles GET /health.
func (h *DocumentHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{Status: "ok"})
}
