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
	"github.com/ikitchen/ikitchen-backend/internal/storage"
	"github.com/ikitchen/ikitchen-backend/pkg/logger"
	"github.com/ikitchen/ikitchen-backend/pkg/mailer"
	"github.com/ikitchen/ikitchen-backend/pkg/redis"
	"github.com/ikitchen/ikitchen-backend/pkg/util"
)

type ReportController struct {
	reportService service.ReportService
	mailer        *mailer.Mailer
	storage       *storage.S3Storage // nil when archiving is not configured
	cacheTTL      time.Duration
}

func NewReportController(reportService service.ReportService, reportMailer *mailer.Mailer, storage *storage.S3Storage, cacheTTL time.Duration) *ReportController {
	return &ReportController{
		reportService: reportService,
		mailer:        reportMailer,
		storage:       storage,
		cacheTTL:      cacheTTL,
	}
}

// GenerateDailyReport turns an uploaded iKitchen daily CSV into the
// fixed-layout sales report, caches it, and emails it to the configured
// recipients.
// POST /api/v1/reports/daily
func (ctrl *ReportController) GenerateDailyReport(c *gin.Context) {
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

	content, err := io.ReadAll(file)
	if err != nil {
		apperrors.InternalError(c, "failed to read uploaded file")
		return
	}

	report, err := ctrl.reportService.Generate(content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoAmountColumn):
			apperrors.UnprocessableEntity(c, apperrors.ReportNoAmountColumn, err.Error())
		case errors.Is(err, service.ErrMissingReceiptColumn):
			apperrors.UnprocessableEntity(c, apperrors.ReportMissingReceipt, err.Error())
		case errors.Is(err, service.ErrReportTooShort):
			apperrors.UnprocessableEntity(c, apperrors.ValidationInvalidFormat, err.Error())
		default:
			logger.Error("Report generation failed", err, map[string]interface{}{
				"file": fileHeader.Filename,
			})
			apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.ReportFailed, "report generation failed")
		}
		return
	}

	if report.SalesDate != "" {
		_ = redis.CacheReport(c.Request.Context(), report.SalesDate, report.Rendered, ctrl.cacheTTL)
	}

	if ctrl.storage != nil {
		_, _ = ctrl.storage.ArchiveExport(c.Request.Context(), "daily-reports", fileHeader.Filename, bytes.NewReader(content))
	}

	emailSent := false
	if ctrl.mailer != nil && ctrl.mailer.Configured() {
		err := ctrl.mailer.SendReport(
			report.Date,
			report.Rendered,
			report.Filename(),
			util.FormatAmount(report.Lahore.TotalSales),
			util.FormatAmount(report.Santorini.TotalSales),
		)
		emailSent = err == nil
	}

	c.JSON(http.StatusOK, gin.H{
		"report":     report,
		"email_sent": emailSent,
	})
}

// DownloadDailyReport returns a previously generated report as plain text.
// GET /api/v1/reports/daily/:date (date in DD-MM-YYYY)
func (ctrl *ReportController) DownloadDailyReport(c *gin.Context) {
	date := c.Param("date")

	rendered, err := redis.GetCachedReport(c.Request.Context(), date)
	if err != nil {
		if errors.Is(err, redis.ErrNotCached) {
			apperrors.NotFound(c, apperrors.ReportNotFound, "no report generated for that date")
			return
		}
		apperrors.InternalError(c, "failed to fetch report")
		return
	}

	c.Header("Content-Disposition", "attachment; filename=sales_report_"+date+".csv")
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(rendered))
}
