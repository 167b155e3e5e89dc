package model

import "time"

type OrderType string // normalized order channel
type Location string  // physical restaurant location

const (
	OrderTypeTakeAway OrderType = "Take away"
	OrderTypeDineIn   OrderType = "Dine-In"
	OrderTypeDelivery OrderType = "Delivery"

	LocationLahore    Location = "Lahore"
	LocationSantorini Location = "Santorini"
)

// SantoriniRegisterCode discriminates the two locations: this register name
// maps to Santorini, every other register maps to Lahore.
const SantoriniRegisterCode = "CO-50010"

// LocationForRegister classifies a transaction by its register name.
func LocationForRegister(registerName string) Location {
	if registerName == SantoriniRegisterCode {
		return LocationSantorini
	}
	return LocationLahore
}

// Order is one receipt from a POS export. ReceiptID, not OrderID, is the
// natural key: "{receipt_no}_{DD_MM_YYYY}". The unique index on it is the
// cross-run dedup safeguard.
type Order struct {
	OrderID        string    `gorm:"type:varchar(36);primarykey" json:"order_id"`
	CustomerID     *string   `gorm:"type:varchar(36);index" json:"customer_id"` // nullable: walk-ins have no phone
	OrderDate      string    `gorm:"not null" json:"order_date"`                // ISO-8601
	OrderItemsText string    `gorm:"type:text" json:"order_items_text"`
	TotalAmount    float64   `gorm:"not null" json:"total_amount"` // items + line-level tax
	OrderType      OrderType `gorm:"type:varchar(20)" json:"order_type"`
	ReceiptID      string    `gorm:"uniqueIndex;not null" json:"receipt_id"`
	Location       Location  `gorm:"type:varchar(20);index" json:"location"`
	CreatedAt      time.Time `json:"created_at"`

	Customer   *Customer   `gorm:"foreignKey:CustomerID;references:CustomerID" json:"customer,omitempty"`
	OrderItems []OrderItem `gorm:"foreignKey:OrderID;references:OrderID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem is a line of its parent order, in source row order. Amount is
// pre-tax.
type OrderItem struct {
	ID       uint    `gorm:"primarykey" json:"id"`
	OrderID  string  `gorm:"type:varchar(36);not null;index" json:"order_id"`
	ItemName string  `gorm:"not null" json:"item_name"`
	Quantity float64 `json:"quantity"` // NaN when the source cell was not numeric
	Amount   float64 `json:"amount"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
