package reports

import (
	"context"
	"time"

	"github.com/foamwash/foamwash-backend/pkg/db/models"
	"github.com/foamwash/foamwash-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository runs the aggregate queries behind the admin dashboards.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a reports repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type statusCount struct {
	Status enums.BookingStatus
	Count  int64
}

// CountByStatus returns booking totals grouped by status.
func (r *Repository) CountByStatus(ctx context.Context) (map[enums.BookingStatus]int64, error) {
	var rows []statusCount
	err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[enums.BookingStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

type revenueRow struct {
	Count int64
	Total int64
}

// CompletedRevenue sums the totals of completed bookings in the window.
func (r *Repository) CompletedRevenue(ctx context.Context, from, to time.Time) (count int64, total int64, err error) {
	var row revenueRow
	err = r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Select("count(*) as count, coalesce(sum(total), 0) as total").
		Where("status = ? AND scheduled_date >= ? AND scheduled_date <= ?", enums.BookingStatusCompleted, from, to).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.Count, row.Total, nil
}

type serviceCount struct {
	ServiceID   string
	ServiceName string
	Quantity    int64
	Revenue     int64
}

// TopServices ranks services by booked quantity in the window.
func (r *Repository) TopServices(ctx context.Context, from, to time.Time, limit int) ([]serviceCount, error) {
	if limit <= 0 {
		limit = 5
	}
	var rows []serviceCount
	err := r.db.WithContext(ctx).
		Model(&models.BookingLineItem{}).
		Select("booking_line_items.service_id, booking_line_items.service_name, sum(booking_line_items.quantity) as quantity, sum(booking_line_items.subtotal) as revenue").
		Joins("JOIN bookings ON bookings.id = booking_line_items.booking_id").
		Where("bookings.scheduled_date >= ? AND bookings.scheduled_date <= ? AND bookings.status <> ?", from, to, enums.BookingStatusCancelled).
		Group("booking_line_items.service_id, booking_line_items.service_name").
		Order("quantity DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// BookingsBetween loads bookings with lines for the export, oldest first.
func (r *Repository) BookingsBetween(ctx context.Context, from, to time.Time) ([]models.Booking, error) {
	var rows []models.Booking
	err := r.db.WithContext(ctx).
		Preload("LineItems").
		Where("scheduled_date >= ? AND scheduled_date <= ?", from, to).
		Order("scheduled_date ASC, created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
