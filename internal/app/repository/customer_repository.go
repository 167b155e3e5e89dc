package repository

import (
	"github.com/ikitchen/ikitchen-backend/internal/app/model"
	"github.com/ikitchen/ikitchen-backend/pkg/logger"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	FindByPhoneNumbers(phoneNumbers []string, batchSize int) (map[string]model.Customer, error)
	BulkCreate(customers []model.Customer, batchSize int) error
	FindByPhoneNumber(phoneNumber string) (*model.Customer, error)
}

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

// FindByPhoneNumbers looks up existing customers keyed by canonical phone
// number. Lookups are chunked to keep IN-clause parameter lists bounded.
func (r *customerRepository) FindByPhoneNumbers(phoneNumbers []string, batchSize int) (map[string]model.Customer, error) {
	logger.Debug("Looking up customers by phone number", map[string]interface{}{
		"count":      len(phoneNumbers),
		"batch_size": batchSize,
	})

	existing := make(map[string]model.Customer, len(phoneNumbers))
	for start := 0; start < len(phoneNumbers); start += batchSize {
		end := start + batchSize
		if end > len(phoneNumbers) {
			end = len(phoneNumbers)
		}

		var customers []model.Customer
		if err := r.db.Where("phone_number IN ?", phoneNumbers[start:end]).
			Find(&customers).Error; err != nil {
			logger.Error("Failed to look up customer batch", err, map[string]interface{}{
				"batch_start": start,
				"batch_end":   end,
			})
			return nil, err
		}

		for _, customer := range customers {
			existing[customer.PhoneNumber] = customer
		}
	}

	logger.Debug("Customer lookup complete", map[string]interface{}{
		"requested": len(phoneNumbers),
		"found":     len(existing),
	})
	return existing, nil
}

// BulkCreate inserts new customers in batches.
func (r *customerRepository) BulkCreate(customers []model.Customer, batchSize int) error {
	if len(customers) == 0 {
		return nil
	}

	logger.Debug("Bulk creating customers", map[string]interface{}{
		"count":      len(customers),
		"batch_size": batchSize,
	})

	if err := r.db.CreateInBatches(customers, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create customers", err, map[string]interface{}{
			"count": len(customers),
		})
		return err
	}
	return nil
}

func (r *customerRepository) FindByPhoneNumber(phoneNumber string) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.Where("phone_number = ?", phoneNumber).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}
