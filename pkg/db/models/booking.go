package models

import (
	"time"

	"github.com/foamwash/foamwash-backend/pkg/enums"
	"github.com/google/uuid"
)

// Booking is a scheduled service visit created from a quotation.
type Booking struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DisplayID     string              `gorm:"column:display_id;type:text;not null;uniqueIndex"`
	UserID        uuid.UUID           `gorm:"column:user_id;type:uuid;not null"`
	QuotationID   *uuid.UUID          `gorm:"column:quotation_id;type:uuid"`
	Status        enums.BookingStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	Address       string              `gorm:"column:address;type:text;not null"`
	City          string              `gorm:"column:city;type:text;not null"`
	Phone         string              `gorm:"column:phone;type:text;not null"`
	Notes         string              `gorm:"column:notes;type:text;not null;default:''"`
	ScheduledDate time.Time           `gorm:"column:scheduled_date;type:date;not null"`
	ScheduledSlot enums.TimeSlot      `gorm:"column:scheduled_slot;type:text;not null"`
	Total         int64               `gorm:"column:total;not null"`
	AssignedTo    *uuid.UUID          `gorm:"column:assigned_to;type:uuid"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`

	LineItems []BookingLineItem `gorm:"foreignKey:BookingID"`
}

// BookingLineItem snapshots one service line on a booking.
type BookingLineItem struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BookingID   uuid.UUID `gorm:"column:booking_id;type:uuid;not null"`
	ServiceID   string    `gorm:"column:service_id;type:text;not null"`
	ServiceName string    `gorm:"column:service_name;type:text;not null"`
	Size        string    `gorm:"column:size;type:text;not null"`
	WashType    string    `gorm:"column:wash_type;type:text;not null"`
	Quantity    int       `gorm:"column:quantity;not null"`
	UnitPrice   int64     `gorm:"column:unit_price;not null"`
	Subtotal    int64     `gorm:"column:subtotal;not null"`
}
