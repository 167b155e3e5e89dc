package repository

import (
	apperrors "github.com/ikitchen/ikitchen-backend/internal/errors"

	"github.com/ikitchen/ikitchen-backend/internal/app/model"
	"github.com/ikitchen/ikitchen-backend/pkg/logger"
	"gorm.io/gorm"
)

type OrderRepository interface {
	ExistingReceiptIDs(receiptIDs []string, batchSize int) map[string]struct{}
	BulkCreate(orders []model.Order, batchSize int) (int, error)
	FindByReceiptID(receiptID string) (*model.Order, error)
	RefreshAnalytics() error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// ExistingReceiptIDs returns the subset of receipt keys already present in
// the store, queried in batches. A failed batch is logged and treated as
// empty: better to risk a harmless duplicate insert attempt (the unique
// index on receipt_id rejects it) than to silently drop valid new receipts.
func (r *orderRepository) ExistingReceiptIDs(receiptIDs []string, batchSize int) map[string]struct{} {
	existing := make(map[string]struct{}, len(receiptIDs))

	for start := 0; start < len(receiptIDs); start += batchSize {
		end := start + batchSize
		if end > len(receiptIDs) {
			end = len(receiptIDs)
		}

		var found []string
		err := r.db.Model(&model.Order{}).
			Where("receipt_id IN ?", receiptIDs[start:end]).
			Pluck("receipt_id", &found).Error
		if err != nil {
			logger.Error("Failed to fetch receipt batch, treating as empty", err, map[string]interface{}{
				"batch_start": start,
				"batch_end":   end,
			})
			continue
		}

		for _, id := range found {
			existing[id] = struct{}{}
		}
	}

	logger.Debug("Receipt existence check complete", map[string]interface{}{
		"requested": len(receiptIDs),
		"existing":  len(existing),
	})
	return existing
}

// BulkCreate inserts orders (with their items) in batches and returns how
// many were inserted. When a batch fails it falls back to row-at-a-time
// inserts for that batch so a single duplicate receipt key cannot sink its
// neighbours; duplicates are skipped at info level, anything else aborts.
func (r *orderRepository) BulkCreate(orders []model.Order, batchSize int) (int, error) {
	inserted := 0

	for start := 0; start < len(orders); start += batchSize {
		end := start + batchSize
		if end > len(orders) {
			end = len(orders)
		}
		batch := orders[start:end]

		if err := r.db.Create(&batch).Error; err == nil {
			inserted += len(batch)
			continue
		}

		for i := range batch {
			if err := r.db.Create(&batch[i]).Error; err != nil {
				if apperrors.IsUniqueViolation(err) {
					logger.Info("Skipping order, receipt already in store", map[string]interface{}{
						"receipt_id": batch[i].ReceiptID,
					})
					continue
				}
				logger.Error("Failed to insert order", err, map[string]interface{}{
					"receipt_id": batch[i].ReceiptID,
				})
				return inserted, err
			}
			inserted++
		}
	}

	logger.Debug("Order bulk insert complete", map[string]interface{}{
		"requested": len(orders),
		"inserted":  inserted,
	})
	return inserted, nil
}

func (r *orderRepository) FindByReceiptID(receiptID string) (*model.Order, error) {
	var order model.Order
	if err := r.db.Preload("OrderItems").Preload("Customer").
		Where("receipt_id = ?", receiptID).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// RefreshAnalytics triggers the store-side refresh of derived analytics
// views. Best-effort post-step: callers log failures and move on.
func (r *orderRepository) RefreshAnalytics() error {
	if err := r.db.Exec("SELECT refresh_all_views()").Error; err != nil {
		logger.Error("Failed to refresh analytics views", err)
		return err
	}
	logger.Info("Analytics views refreshed")
	return nil
}
