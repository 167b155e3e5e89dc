package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ikitchen/ikitchen-backend/internal/app/model"
	"github.com/ikitchen/ikitchen-backend/internal/spreadsheet"
	"github.com/ikitchen/ikitchen-backend/pkg/logger"
	"github.com/ikitchen/ikitchen-backend/pkg/util"
)

var (
	ErrReportTooShort       = errors.New("report file format is incorrect: expected metadata preamble")
	ErrNoAmountColumn       = errors.New("expected amount column not found ('Item amount' or 'Amount')")
	ErrMissingReceiptColumn = errors.New("missing 'Receipt no' column")
)

var metadataDatePattern = regexp.MustCompile(`\d{2}-\d{2}-\d{4}`)

// nightSpillover extends the report day past midnight: a sale rung in before
// 02:00 still belongs to the prior business day.
const nightSpillover = 2 * time.Hour

// LocationMetrics are the per-location aggregates of one daily report.
// Derived values only, recomputed from the source file on every run.
type LocationMetrics struct {
	PeriodTotals    map[string]float64 `json:"period_totals"`
	OrderTypeTotals map[string]float64 `json:"order_type_totals"` // raw labels
	TotalSales      float64            `json:"total_sales"`
}

// DailyReport is the parsed and aggregated daily sales report.
type DailyReport struct {
	Date      string          `json:"date"`       // DD/MM/YYYY, for the header row
	SalesDate string          `json:"sales_date"` // raw DD-MM-YYYY from the metadata line
	Lahore    LocationMetrics `json:"lahore"`
	Santorini LocationMetrics `json:"santorini"`
	Rendered  string          `json:"rendered"` // the byte-exact report text
}

// Filename names the CSV attachment for this report.
func (r *DailyReport) Filename() string {
	return fmt.Sprintf("sales_report_%s.csv", r.SalesDate)
}

type ReportService interface {
	Generate(content []byte) (*DailyReport, error)
}

type reportService struct{}

func NewReportService() ReportService {
	return &reportService{}
}

// reportReceipt is one receipt after grouping: summed amounts plus the
// first-seen scalar fields.
type reportReceipt struct {
	receiptNo    string
	itemsTotal   float64
	taxTotal     float64
	orderType    string
	registerName string
	saleTime     *time.Time
}

func (rr *reportReceipt) total() float64 {
	return rr.itemsTotal + rr.taxTotal
}

// Generate parses the iKitchen daily CSV (two metadata lines, then tabular
// data) and computes the location / meal-period / order-type aggregates.
func (s *reportService) Generate(content []byte) (*DailyReport, error) {
	lines := strings.Split(string(content), "\n")
	if len(lines) < 2 {
		return nil, ErrReportTooShort
	}

	metadataLine := strings.TrimSpace(lines[1])
	salesDate := metadataDatePattern.FindString(metadataLine)

	frame, err := parseReportBody(lines, string(content))
	if err != nil {
		return nil, err
	}

	amountColumn := ""
	switch {
	case frame.HasColumn("Item amount"):
		amountColumn = "Item amount"
	case frame.HasColumn("Amount"):
		amountColumn = "Amount" // legacy export layout
	default:
		return nil, ErrNoAmountColumn
	}

	if !frame.HasColumn("Receipt no") {
		return nil, ErrMissingReceiptColumn
	}

	receipts := groupReportReceipts(frame, amountColumn)
	receipts = filterReportWindow(receipts, salesDate)

	var lahore, santorini []reportReceipt
	for _, receipt := range receipts {
		if model.LocationForRegister(receipt.registerName) == model.LocationSantorini {
			santorini = append(santorini, receipt)
		} else {
			lahore = append(lahore, receipt)
		}
	}

	report := &DailyReport{
		Date:      formatReportDate(salesDate),
		SalesDate: salesDate,
		Lahore:    computeMetrics(lahore),
		Santorini: computeMetrics(santorini),
	}
	report.Rendered = renderReport(report)

	logger.Info("Daily report generated", map[string]interface{}{
		"date":            report.Date,
		"receipts":        len(receipts),
		"lahore_total":    report.Lahore.TotalSales,
		"santorini_total": report.Santorini.TotalSales,
	})
	return report, nil
}

// parseReportBody reads the tabular data starting at line 4, falling back to
// parsing the whole content if that offset parse fails. Export format drift
// has broken the offset before.
func parseReportBody(lines []string, content string) (*spreadsheet.Frame, error) {
	if len(lines) >= 4 {
		if frame, err := csvFrame(strings.Join(lines[3:], "\n")); err == nil {
			return frame, nil
		}
	}
	return csvFrame(content)
}

func csvFrame(content string) (*spreadsheet.Frame, error) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse report CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("report CSV is empty")
	}
	return spreadsheet.NewFrame(rows[0], rows[1:]), nil
}

// groupReportReceipts filters to ordered-status rows and groups them by
// receipt number, summing amounts and tax separately and carrying forward
// the first-seen scalar fields.
func groupReportReceipts(frame *spreadsheet.Frame, amountColumn string) []reportReceipt {
	hasStatus := frame.HasColumn("Status")

	index := make(map[string]int)
	var receipts []reportReceipt

	for i := 0; i < frame.Len(); i++ {
		receiptNo := frame.Value(i, "Receipt no")
		if receiptNo == "" {
			continue
		}

		// Void and cancelled transactions are not sales.
		if hasStatus && !strings.EqualFold(frame.Value(i, "Status"), "ordered") {
			continue
		}

		idx, seen := index[receiptNo]
		if !seen {
			var saleTime *time.Time
			if t, ok := util.ParseDateTime(frame.Value(i, "Sale date")); ok {
				saleTime = &t
			}
			index[receiptNo] = len(receipts)
			receipts = append(receipts, reportReceipt{
				receiptNo:    receiptNo,
				orderType:    frame.Value(i, "Ordertype name"),
				registerName: frame.Value(i, "Register name"),
				saleTime:     saleTime,
			})
			idx = len(receipts) - 1
		}

		receipts[idx].itemsTotal += util.CleanAmount(frame.Value(i, amountColumn))
		receipts[idx].taxTotal += resolveReportTax(frame, i)
	}
	return receipts
}

// resolveReportTax mirrors the ingestion path: consolidated column first,
// component sum second, zero otherwise.
func resolveReportTax(frame *spreadsheet.Frame, row int) float64 {
	if frame.HasColumn(consolidatedTaxColumn) {
		return util.CleanAmount(frame.Value(row, consolidatedTaxColumn))
	}
	tax := 0.0
	for _, column := range taxComponentColumns {
		if frame.HasColumn(column) {
			tax += util.CleanAmount(frame.Value(row, column))
		}
	}
	return tax
}

// filterReportWindow restricts receipts to [date 00:00, date+1 02:00): the
// report day plus the night spillover. The target date comes from the
// metadata line, or failing that the earliest sale date in the data.
// Receipts without a parseable time pass through; they surface as Unknown in
// the meal-period split rather than vanish.
func filterReportWindow(receipts []reportReceipt, salesDate string) []reportReceipt {
	target, ok := resolveTargetDate(receipts, salesDate)
	if !ok {
		return receipts
	}

	windowStart := target
	windowEnd := target.AddDate(0, 0, 1).Add(nightSpillover)

	filtered := receipts[:0]
	dropped := 0
	for _, receipt := range receipts {
		if receipt.saleTime != nil {
			t := *receipt.saleTime
			if t.Before(windowStart) || !t.Before(windowEnd) {
				dropped++
				continue
			}
		}
		filtered = append(filtered, receipt)
	}

	if dropped > 0 {
		logger.Debug("Receipts outside report window dropped", map[string]interface{}{
			"date":    target.Format("02/01/2006"),
			"dropped": dropped,
		})
	}
	return filtered
}

func resolveTargetDate(receipts []reportReceipt, salesDate string) (time.Time, bool) {
	if salesDate != "" {
		if t, err := time.Parse("02-01-2006", salesDate); err == nil {
			return t, true
		}
	}

	var earliest *time.Time
	for _, receipt := range receipts {
		if receipt.saleTime == nil {
			continue
		}
		day := receipt.saleTime.Truncate(24 * time.Hour)
		if earliest == nil || day.Before(*earliest) {
			earliest = &day
		}
	}
	if earliest != nil {
		return *earliest, true
	}
	return time.Time{}, false
}

func computeMetrics(receipts []reportReceipt) LocationMetrics {
	metrics := LocationMetrics{
		PeriodTotals:    make(map[string]float64),
		OrderTypeTotals: make(map[string]float64),
	}
	for _, receipt := range receipts {
		total := receipt.total()
		metrics.PeriodTotals[util.CategorizeMealPeriod(receipt.saleTime)] += total
		metrics.OrderTypeTotals[receipt.orderType] += total
		metrics.TotalSales += total
	}
	return metrics
}

// orderTypeBuckets folds the raw order-type labels into the report's three
// fixed buckets by case-insensitive substring match. Unrecognized labels
// count as Eat-in.
func orderTypeBuckets(totals map[string]float64) (eatIn, delivery, takeAway float64) {
	for label, amount := range totals {
		lower := strings.ToLower(label)
		switch {
		case strings.Contains(lower, "delivery"):
			delivery += amount
		case strings.Contains(lower, "eat in"), strings.Contains(lower, "dine"):
			eatIn += amount
		case strings.Contains(lower, "take away"), strings.Contains(lower, "takeaway"):
			takeAway += amount
		default:
			eatIn += amount
		}
	}
	return eatIn, delivery, takeAway
}

// formatReportDate converts the metadata date DD-MM-YYYY to DD/MM/YYYY,
// falling back to today when the metadata carried no date.
func formatReportDate(salesDate string) string {
	if salesDate != "" {
		return strings.ReplaceAll(salesDate, "-", "/")
	}
	return time.Now().Format("02/01/2006")
}

// renderReport produces the fixed semicolon-delimited layout. Other tooling
// depends on this byte-for-byte.
func renderReport(report *DailyReport) string {
	row := func(label string, lahore, santorini float64) string {
		return fmt.Sprintf("%s;%s;%s", label, util.FormatAmount(lahore), util.FormatAmount(santorini))
	}
	periodValue := func(metrics LocationMetrics, period string) float64 {
		return metrics.PeriodTotals[period]
	}

	lahoreEatIn, lahoreDelivery, lahoreTakeAway := orderTypeBuckets(report.Lahore.OrderTypeTotals)
	santoriniEatIn, santoriniDelivery, santoriniTakeAway := orderTypeBuckets(report.Santorini.OrderTypeTotals)

	reportLines := []string{
		fmt.Sprintf("%s;;", report.Date),
		"Location;Lahore;Santorini",
		row("Lunch sales", periodValue(report.Lahore, util.MealLunch), periodValue(report.Santorini, util.MealLunch)),
		row("Dinner sales", periodValue(report.Lahore, util.MealDinner), periodValue(report.Santorini, util.MealDinner)),
		row("Breakfast (weekend)", periodValue(report.Lahore, util.MealBreakfast), periodValue(report.Santorini, util.MealBreakfast)),
		row("Total Eat in", lahoreEatIn, santoriniEatIn),
		row("Total Delivery", lahoreDelivery, santoriniDelivery),
		row("Total Take away", lahoreTakeAway, santoriniTakeAway),
		row("TOTAL SALES", report.Lahore.TotalSales, report.Santorini.TotalSales),
	}
	return strings.Join(reportLines, "\n")
}
