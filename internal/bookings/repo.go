package bookings

import (
	"context"
	"time"

	"github.com/foamwash/foamwash-backend/pkg/db/models"
	"github.com/foamwash/foamwash-backend/pkg/enums"
	"github.com/foamwash/foamwash-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists bookings and their line items.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a booking repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) BookingRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts the booking with its line items.
func (r *Repository) Create(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

// FindByIDAndUser returns a booking restricted to its owner.
func (r *Repository) FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Preload("LineItems").
		Where("id = ? AND user_id = ?", id, userID).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// FindByID returns a booking regardless of owner, for staff views.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Preload("LineItems").
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

type listBookingsParams struct {
	UserID     *uuid.UUID
	AssignedTo *uuid.UUID
	Status     *enums.BookingStatus
	FromDate   *time.Time
	ToDate     *time.Time
	Limit      int
	Cursor     *pagination.Cursor
}

// List returns bookings newest first with a next-page cursor. All filters are
// optional so the same query backs client, employee, and admin listings.
func (r *Repository) List(ctx context.Context, params listBookingsParams) ([]models.Booking, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Preload("LineItems").Model(&models.Booking{})
	if params.UserID != nil {
		query = query.Where("user_id = ?", *params.UserID)
	}
	if params.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *params.AssignedTo)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.FromDate != nil {
		query = query.Where("scheduled_date >= ?", *params.FromDate)
	}
	if params.ToDate != nil {
		query = query.Where("scheduled_date <= ?", *params.ToDate)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var rows []models.Booking
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	if len(rows) > normalized {
		next := rows[normalized]
		rows = rows[:normalized]
		return rows, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return rows, nil, nil
}

// UpdateStatus moves the booking to the provided status only when it still has
// the expected current status. Returns the number of rows changed.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.BookingStatus) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}

// Assign sets the employee responsible for the booking.
func (r *Repository) Assign(ctx context.Context, id uuid.UUID, employeeID *uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		Update("assigned_to", employeeID).Error
}
