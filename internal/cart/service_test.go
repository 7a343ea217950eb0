package cart

import (
	"context"
	"testing"
	"time"

	"github.com/foamwash/foamwash-backend/internal/catalog"
	"github.com/foamwash/foamwash-backend/pkg/db/models"
	"github.com/foamwash/foamwash-backend/pkg/enums"
	pkgerrors "github.com/foamwash/foamwash-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubCartRepo struct {
	record      *models.CartRecord
	created     *models.CartRecord
	savedItems  []models.CartItem
	savedState  *enums.FlowState
	replaceErr  error
	findErr     error
	closedState *enums.FlowState
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) CartRepository { return s }

func (s *stubCartRepo) Create(ctx context.Context, record *models.CartRecord) (*models.CartRecord, error) {
	record.ID = uuid.New()
	s.created = record
	s.record = record
	return record, nil
}

func (s *stubCartRepo) FindOpenByUser(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.record == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.record, nil
}

func (s *stubCartRepo) ReplaceItems(ctx context.Context, cartID uuid.UUID, items []models.CartItem) error {
	if s.replaceErr != nil {
		return s.replaceErr
	}
	s.savedItems = items
	return nil
}

func (s *stubCartRepo) UpdateFlowState(ctx context.Context, cartID uuid.UUID, state enums.FlowState) error {
	s.savedState = &state
	return nil
}

func (s *stubCartRepo) Close(ctx context.Context, cartID uuid.UUID, state enums.FlowState, now time.Time) error {
	s.closedState = &state
	return nil
}

func (s *stubCartRepo) IncrementQuoteSeq(ctx context.Context, cartID uuid.UUID) (int, error) {
	s.record.QuoteSeq++
	return s.record.QuoteSeq, nil
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load("")
	if err != nil {
		t.Fatalf("loading embedded catalog: %v", err)
	}
	return cat
}

func TestAddServiceUnknownIDReturnsTypedError(t *testing.T) {
	t.Parallel()

	repo := &stubCartRepo{}
	svc, err := NewService(repo, testCatalog(t))
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.AddService(context.Background(), uuid.New(), "no-such-service")
	if err == nil {
		t.Fatal("expected error for unknown service")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnknownService {
		t.Fatalf("expected UNKNOWN_SERVICE, got %v", err)
	}
	if repo.created != nil && len(repo.savedItems) != 0 {
		t.Fatal("cart must not be persisted for unknown service")
	}
}

func TestAddServiceCreatesCartAndMovesToReviewing(t *testing.T) {
	t.Parallel()

	repo := &stubCartRepo{}
	svc, err := NewService(repo, testCatalog(t))
	if err != nil {
		t.Fatal(err)
	}

	view, err := svc.AddService(context.Background(), uuid.New(), "lavado-muebles")
	if err != nil {
		t.Fatal(err)
	}

	if repo.created == nil {
		t.Fatal("expected a fresh cart record")
	}
	if view.FlowState != enums.FlowStateReviewing {
		t.Fatalf("expected reviewing, got %s", view.FlowState)
	}
	if len(view.Items) != 1 || view.Items[0].Quantity != 1 {
		t.Fatalf("unexpected items: %+v", view.Items)
	}
	if view.Total != 90000 {
		t.Fatalf("expected total 90000, got %d", view.Total)
	}
	if view.CanGenerateQuote {
		t.Fatal("undetailed line must not allow quote generation")
	}
}

func TestSetDetailRejectsSizeNotOffered(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	repo := &stubCartRepo{record: &models.CartRecord{
		ID:        uuid.New(),
		UserID:    userID,
		FlowState: enums.FlowStateReviewing,
		Items: []models.CartItem{
			{ServiceID: "lavado-muebles", ServiceName: "Lavado de muebles", BasePrice: 90000, Quantity: 1},
		},
	}}
	svc, err := NewService(repo, testCatalog(t))
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.SetDetail(context.Background(), userID, "lavado-muebles", enums.DetailFieldSize, "King")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR for size not offered, got %v", err)
	}
}

func TestSetDetailForAbsentServiceIsNoOp(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	repo := &stubCartRepo{record: &models.CartRecord{
		ID:        uuid.New(),
		UserID:    userID,
		FlowState: enums.FlowStateReviewing,
		Items: []models.CartItem{
			{ServiceID: "lavado-muebles", ServiceName: "Lavado de muebles", BasePrice: 90000, Quantity: 1},
		},
	}}
	svc, err := NewService(repo, testCatalog(t))
	if err != nil {
		t.Fatal(err)
	}

	view, err := svc.SetDetail(context.Background(), userID, "lavado-tapetes", enums.DetailFieldSize, "Grande")
	if err != nil {
		t.Fatalf("absent service must be a quiet no-op: %v", err)
	}
	if len(view.Items) != 1 || view.Items[0].Size != "" {
		t.Fatalf("cart contents changed: %+v", view.Items)
	}
}

func TestMutatingSchedulingCartDropsBackToReviewing(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	size := "Mediano"
	wash := "Básico"
	repo := &stubCartRepo{record: &models.CartRecord{
		ID:        uuid.New(),
		UserID:    userID,
		FlowState: enums.FlowStateScheduling,
		Items: []models.CartItem{
			{ServiceID: "lavado-muebles", ServiceName: "Lavado de muebles", BasePrice: 90000, Quantity: 1, Size: &size, WashType: &wash},
		},
	}}
	svc, err := NewService(repo, testCatalog(t))
	if err != nil {
		t.Fatal(err)
	}

	view, err := svc.SetQuantity(context.Background(), userID, "lavado-muebles", 3)
	if err != nil {
		t.Fatal(err)
	}
	if view.FlowState != enums.FlowStateReviewing {
		t.Fatalf("expected reviewing after edit, got %s", view.FlowState)
	}
	if repo.savedState == nil || *repo.savedState != enums.FlowStateReviewing {
		t.Fatal("expected flow state persisted as reviewing")
	}
}

func TestClearReturnsCartToIdle(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	repo := &stubCartRepo{record: &models.CartRecord{
		ID:        uuid.New(),
		UserID:    userID,
		FlowState: enums.FlowStateReviewing,
		Items: []models.CartItem{
			{ServiceID: "lavado-muebles", ServiceName: "Lavado de muebles", BasePrice: 90000, Quantity: 2},
		},
	}}
	svc, err := NewService(repo, testCatalog(t))
	if err != nil {
		t.Fatal(err)
	}

	view, err := svc.Clear(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}
	if view.FlowState != enums.FlowStateIdle {
		t.Fatalf("expected idle after clear, got %s", view.FlowState)
	}
	if len(repo.savedItems) != 0 {
		t.Fatalf("expected no items persisted, got %d", len(repo.savedItems))
	}
}
