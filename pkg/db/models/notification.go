package models

import (
	"time"

	"github.com/foamwash/foamwash-backend/pkg/enums"
	"github.com/google/uuid"
)

// Notification stores in-app notices scoped to users. Rows past ExpiresAt are
// purged by the cleanup job.
type Notification struct {
	ID        uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID              `gorm:"type:uuid;not null"`
	Kind      enums.NotificationKind `gorm:"column:kind;type:text;not null"`
	Message   string                 `gorm:"type:text;not null"`
	ReadAt    *time.Time             `gorm:"type:timestamptz"`
	ExpiresAt time.Time              `gorm:"column:expires_at;type:timestamptz;not null"`
	CreatedAt time.Time              `gorm:"type:timestamptz;default:now()"`
}
