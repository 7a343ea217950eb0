package models

import (
	"time"

	"github.com/foamwash/foamwash-backend/pkg/enums"
	"github.com/google/uuid"
)

// CartRecord persists the active cart and its place in the booking journey.
// One open record per user at a time; ClosedAt marks confirmed or cancelled carts.
type CartRecord struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID       `gorm:"column:user_id;type:uuid;not null"`
	FlowState enums.FlowState `gorm:"column:flow_state;type:text;not null;default:'idle'"`
	QuoteSeq  int             `gorm:"column:quote_seq;not null;default:0"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
	ClosedAt  *time.Time      `gorm:"column:closed_at"`

	Items []CartItem `gorm:"foreignKey:CartID"`
}

func (CartRecord) TableName() string { return "carts" }

// CartItem persists one service line tied to a CartRecord.
type CartItem struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID      uuid.UUID `gorm:"column:cart_id;type:uuid;not null"`
	ServiceID   string    `gorm:"column:service_id;type:text;not null"`
	ServiceName string    `gorm:"column:service_name;type:text;not null"`
	BasePrice   int64     `gorm:"column:base_price;not null"`
	Quantity    int       `gorm:"column:quantity;not null;default:1"`
	Size        *string   `gorm:"column:size"`
	WashType    *string   `gorm:"column:wash_type"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
