package model

import "time"

// Customer is created once per unique phone number and never updated by the
// ingestion pipeline afterwards (lookup-or-create only).
type Customer struct {
	CustomerID  string    `gorm:"type:varchar(36);primarykey" json:"customer_id"`
	Name        *string   `json:"name"`
	PhoneNumber string    `gorm:"uniqueIndex;not null" json:"phone_number"` // canonical +880 form
	Email       *string   `json:"email"`
	Address     *string   `json:"address"`
	CompanyName *string   `json:"company_name"`
	IsVIP       bool      `gorm:"default:false" json:"is_vip"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Customer) TableName() string {
	return "customers"
}
