package models

import (
	"time"

	"github.com/google/uuid"
)

// Quotation is an immutable snapshot of a cart at generation time.
type Quotation struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DisplayID   string    `gorm:"column:display_id;type:text;not null;uniqueIndex"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null"`
	CartID      uuid.UUID `gorm:"column:cart_id;type:uuid;not null"`
	Total       int64     `gorm:"column:total;not null"`
	GeneratedAt time.Time `gorm:"column:generated_at;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`

	LineItems []QuotationLineItem `gorm:"foreignKey:QuotationID"`
}

// QuotationLineItem is one priced service line inside a quotation.
type QuotationLineItem struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	QuotationID uuid.UUID `gorm:"column:quotation_id;type:uuid;not null"`
	ServiceID   string    `gorm:"column:service_id;type:text;not null"`
	ServiceName string    `gorm:"column:service_name;type:text;not null"`
	Size        string    `gorm:"column:size;type:text;not null"`
	WashType    string    `gorm:"column:wash_type;type:text;not null"`
	Quantity    int       `gorm:"column:quantity;not null"`
	UnitPrice   int64     `gorm:"column:unit_price;not null"`
	Subtotal    int64     `gorm:"column:subtotal;not null"`
}
