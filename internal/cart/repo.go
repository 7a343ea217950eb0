package cart

import (
	"context"
	"time"

	"github.com/foamwash/foamwash-backend/pkg/db/models"
	"github.com/foamwash/foamwash-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes persistence operations for cart records.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new CartRecord.
func (r *Repository) Create(ctx context.Context, record *models.CartRecord) (*models.CartRecord, error) {
	if record.FlowState == "" {
		record.FlowState = enums.FlowStateIdle
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// FindOpenByUser loads the user's open CartRecord with its items.
func (r *Repository) FindOpenByUser(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error) {
	var record models.CartRecord
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("user_id = ? AND closed_at IS NULL", userID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ReplaceItems atomically replaces cart items for the provided cart.
func (r *Repository) ReplaceItems(ctx context.Context, cartID uuid.UUID, items []models.CartItem) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].CartID = cartID
	}
	return tx.Create(&items).Error
}

// UpdateFlowState moves the cart to the provided state.
func (r *Repository) UpdateFlowState(ctx context.Context, cartID uuid.UUID, state enums.FlowState) error {
	return r.db.WithContext(ctx).
		Model(&models.CartRecord{}).
		Where("id = ?", cartID).
		Update("flow_state", state).Error
}

// Close marks the cart terminal so a fresh one can be opened for the user.
func (r *Repository) Close(ctx context.Context, cartID uuid.UUID, state enums.FlowState, now time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.CartRecord{}).
		Where("id = ?", cartID).
		Updates(map[string]any{
			"flow_state": state,
			"closed_at":  now,
		}).Error
}

// IncrementQuoteSeq bumps the per-cart quotation counter and returns the new value.
func (r *Repository) IncrementQuoteSeq(ctx context.Context, cartID uuid.UUID) (int, error) {
	err := r.db.WithContext(ctx).
		Model(&models.CartRecord{}).
		Where("id = ?", cartID).
		Update("quote_seq", gorm.Expr("quote_seq + 1")).Error
	if err != nil {
		return 0, err
	}

	var record models.CartRecord
	if err := r.db.WithContext(ctx).Select("quote_seq").Where("id = ?", cartID).First(&record).Error; err != nil {
		return 0, err
	}
	return record.QuoteSeq, nil
}
