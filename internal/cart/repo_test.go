package cart

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/foamwash/foamwash-backend/pkg/db/models"
	"github.com/foamwash/foamwash-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	carts := `
CREATE TABLE IF NOT EXISTS carts (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  flow_state TEXT NOT NULL DEFAULT 'idle',
  quote_seq INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME,
  closed_at DATETIME
);`
	cartItems := `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  service_id TEXT NOT NULL,
  service_name TEXT NOT NULL,
  base_price INTEGER NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 1,
  size TEXT,
  wash_type TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(carts).Error)
	require.NoError(t, db.Exec(cartItems).Error)
	return db
}

func TestRepositoryFindOpenByUserSkipsClosedCarts(t *testing.T) {
	t.Parallel()

	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	closedAt := time.Now().Add(-time.Hour)
	closed := &models.CartRecord{
		ID:        uuid.New(),
		UserID:    userID,
		FlowState: enums.FlowStateConfirmed,
		ClosedAt:  &closedAt,
	}
	require.NoError(t, db.Create(closed).Error)

	open := &models.CartRecord{
		ID:        uuid.New(),
		UserID:    userID,
		FlowState: enums.FlowStateReviewing,
	}
	require.NoError(t, db.Create(open).Error)

	found, err := repo.FindOpenByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, open.ID, found.ID)

	_, err = repo.FindOpenByUser(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryReplaceItemsSwapsLines(t *testing.T) {
	t.Parallel()

	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	record := &models.CartRecord{ID: uuid.New(), UserID: userID, FlowState: enums.FlowStateReviewing}
	require.NoError(t, db.Create(record).Error)

	first := []models.CartItem{
		{ID: uuid.New(), ServiceID: "lavado-muebles", ServiceName: "Lavado de muebles", BasePrice: 90000, Quantity: 1},
		{ID: uuid.New(), ServiceID: "lavado-tapetes", ServiceName: "Lavado de tapetes", BasePrice: 60000, Quantity: 2},
	}
	require.NoError(t, repo.ReplaceItems(ctx, record.ID, first))

	size := "Mediano"
	second := []models.CartItem{
		{ID: uuid.New(), ServiceID: "lavado-muebles", ServiceName: "Lavado de muebles", BasePrice: 90000, Quantity: 3, Size: &size},
	}
	require.NoError(t, repo.ReplaceItems(ctx, record.ID, second))

	found, err := repo.FindOpenByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "lavado-muebles", found.Items[0].ServiceID)
	assert.Equal(t, 3, found.Items[0].Quantity)
	require.NotNil(t, found.Items[0].Size)
	assert.Equal(t, "Mediano", *found.Items[0].Size)

	require.NoError(t, repo.ReplaceItems(ctx, record.ID, nil))
	found, err = repo.FindOpenByUser(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, found.Items)
}

func TestRepositoryCloseOpensRoomForNewCart(t *testing.T) {
	t.Parallel()

	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	record := &models.CartRecord{ID: uuid.New(), UserID: userID, FlowState: enums.FlowStateScheduling}
	require.NoError(t, db.Create(record).Error)

	require.NoError(t, repo.Close(ctx, record.ID, enums.FlowStateConfirmed, time.Now()))

	_, err := repo.FindOpenByUser(ctx, userID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var reloaded models.CartRecord
	require.NoError(t, db.Where("id = ?", record.ID).First(&reloaded).Error)
	assert.Equal(t, enums.FlowStateConfirmed, reloaded.FlowState)
	assert.NotNil(t, reloaded.ClosedAt)
}

func TestRepositoryIncrementQuoteSeq(t *testing.T) {
	t.Parallel()

	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	record := &models.CartRecord{ID: uuid.New(), UserID: uuid.New(), FlowState: enums.FlowStateReviewing}
	require.NoError(t, db.Create(record).Error)

	seq, err := repo.IncrementQuoteSeq(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, seq)

	seq, err = repo.IncrementQuoteSeq(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, seq)
}

func TestRepositoryUpdateFlowState(t *testing.T) {
	t.Parallel()

	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	record := &models.CartRecord{ID: uuid.New(), UserID: userID, FlowState: enums.FlowStateIdle}
	require.NoError(t, db.Create(record).Error)

	require.NoError(t, repo.UpdateFlowState(ctx, record.ID, enums.FlowStateReviewing))

	found, err := repo.FindOpenByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, enums.FlowStateReviewing, found.FlowState)
}
