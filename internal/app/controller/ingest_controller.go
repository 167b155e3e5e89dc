package controller

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikitchen/ikitchen-backend/internal/app/service"
	apperrors "github.com/ikitchen/ikitchen-backend/internal/errors"
	"github.com/ikitchen/ikitchen-backend/internal/spreadsheet"
	"github.com/ikitchen/ikitchen-backend/internal/storage"
	"github.com/ikitchen/ikitchen-backend/pkg/logger"
)

type IngestController struct {
	ingestService service.IngestService
	storage       *storage.S3Storage // nil when archiving is not configured
}

func NewIngestController(ingestService service.IngestService, storage *storage.S3Storage) *IngestController {
	return &IngestController{
		ingestService: ingestService,
		storage:       storage,
	}
}

// IngestPOSExport ingests an uploaded POS export spreadsheet.
// POST /api/v1/ingest
func (ctrl *IngestController) IngestPOSExport(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationMissingFile, "multipart field 'file' is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apperrors.InternalError(c, "failed to read uploaded file")
		return
	}
	defer file.Close()

	// Buffer the upload once: the pipeline and the archive both need it.
	content, err := io.ReadAll(file)
	if err != nil {
		apperrors.InternalError(c, "failed to read uploaded file")
		return
	}

	summary, err := ctrl.ingestService.Ingest(bytes.NewReader(content), fileHeader.Filename)
	if err != nil {
		var missingErr *spreadsheet.MissingColumnsError
		switch {
		case errors.As(err, &missingErr):
			apperrors.UnprocessableEntity(c, apperrors.IngestMissingColumns, missingErr.Error())
		case errors.Is(err, spreadsheet.ErrNoHeaderRow):
			apperrors.UnprocessableEntity(c, apperrors.IngestNoHeaderRow, err.Error())
		default:
			logger.Error("Ingestion failed", err, map[string]interface{}{
				"file": fileHeader.Filename,
			})
			if info := apperrors.ParseError(err, "ingestion"); info.Code == apperrors.StoreUnavailable {
				apperrors.RespondWithError(c, http.StatusServiceUnavailable, info.Code, info.Message)
				return
			}
			apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.IngestFailed, "ingestion failed")
		}
		return
	}

	// Archiving is best-effort; the data is already persisted.
	var archiveKey, archiveURL string
	if ctrl.storage != nil {
		if key, err := ctrl.storage.ArchiveExport(c.Request.Context(), "pos-exports", fileHeader.Filename, bytes.NewReader(content)); err == nil {
			archiveKey = key
			if url, err := ctrl.storage.PresignDownload(c.Request.Context(), key, 24*time.Hour); err == nil {
				archiveURL = url
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"summary":     summary,
		"archive_key": archiveKey,
		"archive_url": archiveURL,
	})
}
