package repository

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/ikitchen/ikitchen-backend/internal/app/model"
	"github.com/ikitchen/ikitchen-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCustomerTest(t *testing.T) (*gorm.DB, CustomerRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewCustomerRepository(testDB)
	return testDB, repo
}

func strPtr(s string) *string {
	return &s
}

func TestCustomerRepository_BulkCreate(t *testing.T) {
	testDB, repo := setupCustomerTest(t)
	defer db.CleanupTestDB(testDB)

	customers := []model.Customer{
		{
			CustomerID:  uuid.NewString(),
			Name:        strPtr("Rahim"),
			PhoneNumber: "+8801712345678",
		},
		{
			CustomerID:  uuid.NewString(),
			Name:        strPtr("Karim"),
			PhoneNumber: "+8801898765432",
			Email:       strPtr("karim@example.com"),
		},
	}

	err := repo.BulkCreate(customers, 100)
	assert.NoError(t, err)

	var count int64
	testDB.Model(&model.Customer{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestCustomerRepository_BulkCreate_Empty(t *testing.T) {
	testDB, repo := setupCustomerTest(t)
	defer db.CleanupTestDB(testDB)

	err := repo.BulkCreate(nil, 100)
	assert.NoError(t, err)
}

func TestCustomerRepository_BulkCreate_DuplicatePhoneFails(t *testing.T) {
	testDB, repo := setupCustomerTest(t)
	defer db.CleanupTestDB(testDB)

	first := []model.Customer{{CustomerID: uuid.NewString(), PhoneNumber: "+8801712345678"}}
	require.NoError(t, repo.BulkCreate(first, 100))

	second := []model.Customer{{CustomerID: uuid.NewString(), PhoneNumber: "+8801712345678"}}
	err := repo.BulkCreate(second, 100)
	assert.Error(t, err)
}

func TestCustomerRepository_FindByPhoneNumbers(t *testing.T) {
	testDB, repo := setupCustomerTest(t)
	defer db.CleanupTestDB(testDB)

	stored := []model.Customer{
		{CustomerID: uuid.NewString(), PhoneNumber: "+8801712345678"},
		{CustomerID: uuid.NewString(), PhoneNumber: "+8801898765432"},
	}
	require.NoError(t, repo.BulkCreate(stored, 100))

	found, err := repo.FindByPhoneNumbers([]string{
		"+8801712345678",
		"+8801898765432",
		"+8801500000000", // not stored
	}, 100)
	assert.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Equal(t, stored[0].CustomerID, found["+8801712345678"].CustomerID)
	assert.Equal(t, stored[1].CustomerID, found["+8801898765432"].CustomerID)
	_, ok := found["+8801500000000"]
	assert.False(t, ok)
}

func TestCustomerRepository_FindByPhoneNumbers_Batched(t *testing.T) {
	testDB, repo := setupCustomerTest(t)
	defer db.CleanupTestDB(testDB)

	stored := make([]model.Customer, 0, 25)
	phones := make([]string, 0, 25)
	for i := 0; i < 25; i++ {
		phone := fmt.Sprintf("+88017000000%02d", i)
		stored = append(stored, model.Customer{CustomerID: uuid.NewString(), PhoneNumber: phone})
		phones = append(phones, phone)
	}
	require.NoError(t, repo.BulkCreate(stored, 10))

	// Batch size smaller than the lookup set forces multiple IN queries.
	found, err := repo.FindByPhoneNumbers(phones, 10)
	assert.NoError(t, err)
	assert.Len(t, found, 25)
}

func TestCustomerRepository_FindByPhoneNumber(t *testing.T) {
	testDB, repo := setupCustomerTest(t)
	defer db.CleanupTestDB(testDB)

	customer := model.Customer{
		CustomerID:  uuid.NewString(),
		Name:        strPtr("Rahim"),
		PhoneNumber: "+8801712345678",
	}
	require.NoError(t, repo.BulkCreate([]model.Customer{customer}, 100))

	found, err := repo.FindByPhoneNumber("+8801712345678")
	assert.NoError(t, err)
	assert.Equal(t, customer.CustomerID, found.CustomerID)
	assert.Equal(t, "Rahim", *found.Name)

	_, err = repo.FindByPhoneNumber("+8801500000000")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
