package service

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/ikitchen/ikitchen-backend/internal/app/model"
	"github.com/ikitchen/ikitchen-backend/internal/app/repository"
	"github.com/ikitchen/ikitchen-backend/internal/spreadsheet"
	"github.com/ikitchen/ikitchen-backend/pkg/logger"
	"github.com/ikitchen/ikitchen-backend/pkg/util"
)

// posColumnsSource keys the required-column list in spreadsheets_config.yaml.
const posColumnsSource = "servquick_columns"

// Tax columns differ between POS export configurations: either one
// consolidated column or a set of components. Prefer the consolidated one,
// fall back to summing whichever components exist, default to zero.
const consolidatedTaxColumn = "Tax amount"

var taxComponentColumns = []string{"VAT amount", "SD amount", "Service charge"}

// IngestSummary is what a run reports back: how many receipts it saw and
// what happened to each of them.
type IngestSummary struct {
	Receipts           int `json:"receipts"`
	Inserted           int `json:"inserted"`
	SkippedDuplicate   int `json:"skipped_duplicate"`
	SkippedInvalidDate int `json:"skipped_invalid_date"`
	CustomersSeen      int `json:"customers_seen"`
	CustomersNew       int `json:"customers_new"`
}

type IngestService interface {
	Ingest(r io.Reader, filename string) (*IngestSummary, error)
	IngestFile(path string) (*IngestSummary, error)
}

type ingestService struct {
	customerRepo    repository.CustomerRepository
	orderRepo       repository.OrderRepository
	columns         *spreadsheet.ColumnsConfig
	insertBatchSize int
	lookupBatchSize int
}

func NewIngestService(
	customerRepo repository.CustomerRepository,
	orderRepo repository.OrderRepository,
	columns *spreadsheet.ColumnsConfig,
	insertBatchSize, lookupBatchSize int,
) IngestService {
	return &ingestService{
		customerRepo:    customerRepo,
		orderRepo:       orderRepo,
		columns:         columns,
		insertBatchSize: insertBatchSize,
		lookupBatchSize: lookupBatchSize,
	}
}

// posLine is one raw line item, decoded from the frame right after header
// resolution so bad cells surface here instead of at point-of-use.
type posLine struct {
	receiptNo       string
	itemName        string
	quantity        float64 // NaN when the cell was not numeric
	amount          float64 // pre-tax
	tax             float64
	customerName    string
	customerMobile  string
	customerEmail   string
	customerAddress string
	registerName    string
	orderTypeName   string
	saleDateRaw     string
}

// receiptGroup is all line items of one receipt, in source row order.
type receiptGroup struct {
	receiptNo string
	lines     []posLine
}

func (s *ingestService) IngestFile(path string) (*IngestSummary, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open POS export: %w", err)
	}
	defer file.Close()

	return s.Ingest(file, filepath.Base(path))
}

// Ingest runs the full pipeline on one POS export: read, validate, decode,
// group by receipt, reconcile customers, filter known receipts, insert, then
// kick the analytics refresh.
func (s *ingestService) Ingest(r io.Reader, filename string) (*IngestSummary, error) {
	frame, err := spreadsheet.Read(r, filename, spreadsheet.POSHeaderMarkers)
	if err != nil {
		return nil, err
	}

	if err := s.columns.Validate(frame, posColumnsSource); err != nil {
		return nil, err
	}

	groups := groupByReceipt(decodeLines(frame))

	logger.Info("Processing POS export", map[string]interface{}{
		"file":     filename,
		"rows":     frame.Len(),
		"receipts": len(groups),
	})

	summary := &IngestSummary{Receipts: len(groups)}

	customers := buildCustomers(groups)
	summary.CustomersSeen = len(customers)

	phoneToID, newCount, err := s.reconcileCustomers(customers)
	if err != nil {
		return nil, err
	}
	summary.CustomersNew = newCount

	orders := s.buildOrders(groups, phoneToID, summary)

	inserted, err := s.orderRepo.BulkCreate(orders, s.insertBatchSize)
	summary.Inserted = inserted
	if err != nil {
		return summary, err
	}

	// Best-effort post-step, never rolls back the insert.
	if err := s.orderRepo.RefreshAnalytics(); err != nil {
		logger.Warn("Analytics refresh failed after ingest", map[string]interface{}{
			"error": err.Error(),
		})
	}

	logger.Info("Ingestion complete", map[string]interface{}{
		"file":              filename,
		"receipts":          summary.Receipts,
		"inserted":          summary.Inserted,
		"skipped_duplicate": summary.SkippedDuplicate,
		"skipped_invalid":   summary.SkippedInvalidDate,
		"customers_seen":    summary.CustomersSeen,
		"customers_new":     summary.CustomersNew,
	})
	return summary, nil
}

// decodeLines turns the frame into typed line items, dropping rows without a
// receipt number and flagging bad numeric cells without aborting.
func decodeLines(frame *spreadsheet.Frame) []posLine {
	lines := make([]posLine, 0, frame.Len())

	for i := 0; i < frame.Len(); i++ {
		receiptNo := frame.Value(i, "Receipt no")
		if receiptNo == "" {
			continue
		}

		quantity, ok := util.ParseNumeric(frame.Value(i, "Item quantity"))
		if !ok {
			logger.Warn("Invalid item quantity, keeping row with NaN quantity", map[string]interface{}{
				"receipt_no": receiptNo,
				"row":        i,
			})
			quantity = math.NaN()
		}

		rawAmount := frame.Value(i, "Item amount")
		if _, ok := util.ParseNumeric(rawAmount); !ok && rawAmount != "" {
			logger.Warn("Invalid item amount detected", map[string]interface{}{
				"receipt_no": receiptNo,
				"row":        i,
				"value":      rawAmount,
			})
		}

		lines = append(lines, posLine{
			receiptNo:       receiptNo,
			itemName:        frame.Value(i, "Item name"),
			quantity:        quantity,
			amount:          util.CleanAmount(rawAmount),
			tax:             resolveLineTax(frame, i),
			customerName:    frame.Value(i, "Customer name"),
			customerMobile:  frame.Value(i, "Customer mobile"),
			customerEmail:   frame.Value(i, "Customer email"),
			customerAddress: frame.Value(i, "Customer address"),
			registerName:    frame.Value(i, "Register name"),
			orderTypeName:   frame.Value(i, "Ordertype name"),
			saleDateRaw:     frame.Value(i, "Sale date"),
		})
	}
	return lines
}

// resolveLineTax prefers the consolidated tax column, then sums whichever
// component columns exist, then defaults to zero.
func resolveLineTax(frame *spreadsheet.Frame, row int) float64 {
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

func groupByReceipt(lines []posLine) []receiptGroup {
	index := make(map[string]int, len(lines))
	groups := make([]receiptGroup, 0, len(lines))

	for _, line := range lines {
		i, seen := index[line.receiptNo]
		if !seen {
			index[line.receiptNo] = len(groups)
			groups = append(groups, receiptGroup{receiptNo: line.receiptNo})
			i = len(groups) - 1
		}
		groups[i].lines = append(groups[i].lines, line)
	}
	return groups
}

// representative returns the first line of the receipt, the source of all
// receipt-level scalar fields. Later lines are expected to agree on them.
func (g *receiptGroup) representative() posLine {
	return g.lines[0]
}

// assertConsistent warns when lines of the same receipt disagree on fields
// the representative row is trusted for. First value wins either way.
func (g *receiptGroup) assertConsistent() {
	first := g.representative()
	for _, line := range g.lines[1:] {
		if line.registerName != first.registerName || line.customerMobile != first.customerMobile {
			logger.Warn("Inconsistent receipt-level fields within receipt, first row wins", map[string]interface{}{
				"receipt_no": g.receiptNo,
			})
			return
		}
	}
}

// Placeholder values the POS emits for absent emails.
var emailPlaceholders = map[string]struct{}{
	"-": {}, "--": {}, "---": {},
}

func buildCustomers(groups []receiptGroup) []model.Customer {
	seen := make(map[string]struct{})
	customers := make([]model.Customer, 0, len(groups))

	for _, group := range groups {
		rep := group.representative()

		phone, ok := util.StandardizePhoneNumber(rep.customerMobile)
		if !ok {
			continue // walk-in or garbage number
		}
		if _, dup := seen[phone]; dup {
			continue // first occurrence wins within the batch
		}
		seen[phone] = struct{}{}

		customers = append(customers, model.Customer{
			Name:        optional(rep.customerName),
			PhoneNumber: phone,
			Email:       optionalEmail(rep.customerEmail),
			Address:     optional(rep.customerAddress),
		})
	}
	return customers
}

// reconcileCustomers partitions the batch into existing and new customers,
// assigns identifiers to new ones, inserts them, and returns the full
// phone-to-identifier map.
func (s *ingestService) reconcileCustomers(customers []model.Customer) (map[string]string, int, error) {
	phoneToID := make(map[string]string, len(customers))
	if len(customers) == 0 {
		return phoneToID, 0, nil
	}

	phones := make([]string, 0, len(customers))
	for _, customer := range customers {
		phones = append(phones, customer.PhoneNumber)
	}

	existing, err := s.customerRepo.FindByPhoneNumbers(phones, s.lookupBatchSize)
	if err != nil {
		return nil, 0, err
	}
	for phone, customer := range existing {
		phoneToID[phone] = customer.CustomerID
	}

	newCustomers := make([]model.Customer, 0, len(customers))
	for _, customer := range customers {
		if _, ok := existing[customer.PhoneNumber]; ok {
			continue
		}
		customer.CustomerID = uuid.NewString()
		phoneToID[customer.PhoneNumber] = customer.CustomerID
		newCustomers = append(newCustomers, customer)
	}

	if err := s.customerRepo.BulkCreate(newCustomers, s.insertBatchSize); err != nil {
		return nil, 0, err
	}

	logger.Info("Customers reconciled", map[string]interface{}{
		"seen":     len(customers),
		"existing": len(existing),
		"new":      len(newCustomers),
	})
	return phoneToID, len(newCustomers), nil
}

// buildOrders assembles the final ordered sequence of orders, skipping
// receipts with unparseable dates and receipts already in the store.
func (s *ingestService) buildOrders(groups []receiptGroup, phoneToID map[string]string, summary *IngestSummary) []model.Order {
	type datedGroup struct {
		group     receiptGroup
		receiptID string
		saleDate  string // ISO-8601
	}

	dated := make([]datedGroup, 0, len(groups))
	receiptIDs := make([]string, 0, len(groups))

	for _, group := range groups {
		rep := group.representative()
		saleDate, ok := util.ParseDateTime(rep.saleDateRaw)
		if !ok {
			// An order with no valid date cannot be deduplicated safely.
			logger.Warn("Skipping order with missing or invalid sale date", map[string]interface{}{
				"receipt_no": group.receiptNo,
				"sale_date":  rep.saleDateRaw,
			})
			summary.SkippedInvalidDate++
			continue
		}

		receiptID := fmt.Sprintf("%s_%s", group.receiptNo, saleDate.Format("02_01_2006"))
		dated = append(dated, datedGroup{
			group:     group,
			receiptID: receiptID,
			saleDate:  saleDate.Format("2006-01-02T15:04:05"),
		})
		receiptIDs = append(receiptIDs, receiptID)
	}

	existing := s.orderRepo.ExistingReceiptIDs(receiptIDs, s.lookupBatchSize)

	orders := make([]model.Order, 0, len(dated))
	for _, d := range dated {
		if _, dup := existing[d.receiptID]; dup {
			logger.Info("Skipping order, receipt already in store", map[string]interface{}{
				"receipt_id": d.receiptID,
			})
			summary.SkippedDuplicate++
			continue
		}

		d.group.assertConsistent()
		rep := d.group.representative()

		items := make([]model.OrderItem, 0, len(d.group.lines))
		texts := make([]string, 0, len(d.group.lines))
		itemsTotal, taxTotal := 0.0, 0.0
		for _, line := range d.group.lines {
			items = append(items, model.OrderItem{
				ItemName: line.itemName,
				Quantity: line.quantity,
				Amount:   line.amount,
			})
			texts = append(texts, fmt.Sprintf("%s (x%s)", line.itemName, formatQuantity(line.quantity)))
			itemsTotal += line.amount
			taxTotal += line.tax
		}

		var customerID *string
		if phone, ok := util.StandardizePhoneNumber(rep.customerMobile); ok {
			if id, found := phoneToID[phone]; found {
				customerID = &id
			}
		}

		orders = append(orders, model.Order{
			OrderID:        uuid.NewString(),
			CustomerID:     customerID,
			OrderDate:      d.saleDate,
			OrderItems:     items,
			OrderItemsText: strings.Join(texts, "; "),
			TotalAmount:    itemsTotal + taxTotal,
			OrderType:      normalizeOrderType(rep.orderTypeName),
			ReceiptID:      d.receiptID,
			Location:       model.LocationForRegister(rep.registerName),
		})
	}
	return orders
}

// normalizeOrderType maps the free-text POS label onto the fixed enumeration.
// Unrecognized labels fold into Dine-In, matching the report path, instead of
// propagating as null.
func normalizeOrderType(label string) model.OrderType {
	lower := strings.ToLower(strings.TrimSpace(label))
	switch {
	case strings.Contains(lower, "delivery"):
		return model.OrderTypeDelivery
	case strings.Contains(lower, "take away"), strings.Contains(lower, "takeaway"):
		return model.OrderTypeTakeAway
	case strings.Contains(lower, "eat in"), strings.Contains(lower, "dine"):
		return model.OrderTypeDineIn
	default:
		if lower != "" {
			logger.Warn("Unrecognized order type label, defaulting to Dine-In", map[string]interface{}{
				"label": label,
			})
		}
		return model.OrderTypeDineIn
	}
}

func formatQuantity(q float64) string {
	if math.IsNaN(q) {
		return "NaN"
	}
	return strconv.FormatFloat(q, 'g', -1, 64)
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "nan") {
		return nil
	}
	return &value
}

func optionalEmail(value string) *string {
	value = strings.TrimSpace(value)
	if _, placeholder := emailPlaceholders[value]; placeholder {
		return nil
	}
	return optional(value)
}
