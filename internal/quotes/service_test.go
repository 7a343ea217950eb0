package quotes

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/foamwash/foamwash-backend/internal/cart"
	"github.com/foamwash/foamwash-backend/internal/catalog"
	"github.com/foamwash/foamwash-backend/pkg/db/models"
	"github.com/foamwash/foamwash-backend/pkg/enums"
	pkgerrors "github.com/foamwash/foamwash-backend/pkg/errors"
	"github.com/foamwash/foamwash-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubQuoteRepo struct {
	created *models.Quotation
	listing []models.Quotation
}

func (s *stubQuoteRepo) WithTx(tx *gorm.DB) QuoteRepository { return s }

func (s *stubQuoteRepo) Create(ctx context.Context, quotation *models.Quotation) error {
	quotation.ID = uuid.New()
	s.created = quotation
	return nil
}

func (s *stubQuoteRepo) FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.Quotation, error) {
	for i := range s.listing {
		if s.listing[i].ID == id && s.listing[i].UserID == userID {
			return &s.listing[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubQuoteRepo) List(ctx context.Context, params listQuotationsParams) ([]models.Quotation, *pagination.Cursor, error) {
	return s.listing, nil, nil
}

type stubCartRepo struct {
	record       *models.CartRecord
	seq          int
	replaced     bool
	updatedState *enums.FlowState
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) cart.CartRepository { return s }

func (s *stubCartRepo) Create(ctx context.Context, record *models.CartRecord) (*models.CartRecord, error) {
	record.ID = uuid.New()
	s.record = record
	return record, nil
}

func (s *stubCartRepo) FindOpenByUser(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error) {
	if s.record == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.record, nil
}

func (s *stubCartRepo) ReplaceItems(ctx context.Context, cartID uuid.UUID, items []models.CartItem) error {
	s.replaced = true
	return nil
}

func (s *stubCartRepo) UpdateFlowState(ctx context.Context, cartID uuid.UUID, state enums.FlowState) error {
	s.updatedState = &state
	s.record.FlowState = state
	return nil
}

func (s *stubCartRepo) Close(ctx context.Context, cartID uuid.UUID, state enums.FlowState, now time.Time) error {
	return nil
}

func (s *stubCartRepo) IncrementQuoteSeq(ctx context.Context, cartID uuid.UUID) (int, error) {
	s.seq++
	return s.seq, nil
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load("")
	if err != nil {
		t.Fatalf("loading embedded catalog: %v", err)
	}
	return cat
}

func completeCartRecord(userID uuid.UUID) *models.CartRecord {
	size := "Mediano"
	wash := "Profundo"
	return &models.CartRecord{
		ID:        uuid.New(),
		UserID:    userID,
		FlowState: enums.FlowStateReviewing,
		Items: []models.CartItem{
			{ServiceID: "lavado-muebles", ServiceName: "Lavado de muebles", BasePrice: 90000, Quantity: 2, Size: &size, WashType: &wash},
		},
	}
}

func TestCanGenerateEmptyCart(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubQuoteRepo{}, &stubCartRepo{}, testCatalog(t))
	if err != nil {
		t.Fatal(err)
	}

	readiness, err := svc.CanGenerate(context.Background(), uuid.New())
	if err != nil {
		t.Fatal(err)
	}
	if readiness.CanGenerate || !readiness.Empty {
		t.Fatalf("expected empty not-ready cart, got %+v", readiness)
	}
}

func TestCanGenerateReportsMissingDetails(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	size := "Mediano"
	cartRepo := &stubCartRepo{record: &models.CartRecord{
		ID:        uuid.New(),
		UserID:    userID,
		FlowState: enums.FlowStateReviewing,
		Items: []models.CartItem{
			{ServiceID: "lavado-muebles", ServiceName: "Lavado de muebles", BasePrice: 90000, Quantity: 1, Size: &size},
			{ServiceID: "lavado-tapetes", ServiceName: "Lavado de tapetes", BasePrice: 60000, Quantity: 1},
		},
	}}
	svc, err := NewService(&stubQuoteRepo{}, cartRepo, testCatalog(t))
	if err != nil {
		t.Fatal(err)
	}

	readiness, err := svc.CanGenerate(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}
	if readiness.CanGenerate {
		t.Fatal("cart with missing details must not be ready")
	}
	if len(readiness.Missing) != 2 {
		t.Fatalf("expected both lines flagged, got %v", readiness.Missing)
	}
}

func TestGenerateRejectsIncompleteCartWithoutTouchingIt(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	repo := &stubQuoteRepo{}
	cartRepo := &stubCartRepo{record: &models.CartRecord{
		ID:        uuid.New(),
		UserID:    userID,
		FlowState: enums.FlowStateReviewing,
		Items: []models.CartItem{
			{ServiceID: "lavado-muebles", ServiceName: "Lavado de muebles", BasePrice: 90000, Quantity: 1},
		},
	}}
	svc, err := NewService(repo, cartRepo, testCatalog(t))
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.Generate(context.Background(), userID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeIncomplete {
		t.Fatalf("expected INCOMPLETE_DETAILS, got %v", err)
	}
	if repo.created != nil {
		t.Fatal("no quotation may be stored for an incomplete cart")
	}
	if cartRepo.replaced || cartRepo.updatedState != nil || cartRepo.seq != 0 {
		t.Fatal("cart must stay untouched when generation fails")
	}
}

func TestGenerateSnapshotsCartAndAdvancesFlow(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	repo := &stubQuoteRepo{}
	cartRepo := &stubCartRepo{record: completeCartRecord(userID)}
	svc, err := NewService(repo, cartRepo, testCatalog(t))
	if err != nil {
		t.Fatal(err)
	}

	view, err := svc.Generate(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(view.DisplayID, "COT-") {
		t.Fatalf("expected COT- display id, got %q", view.DisplayID)
	}
	// (90000 + 30000) * 2
	if view.Total != 240000 {
		t.Fatalf("expected total 240000, got %d", view.Total)
	}
	if len(view.Lines) != 1 || view.Lines[0].UnitPrice != 120000 {
		t.Fatalf("unexpected lines: %+v", view.Lines)
	}
	if cartRepo.replaced {
		t.Fatal("generation must not modify cart items")
	}
	if cartRepo.updatedState == nil || *cartRepo.updatedState != enums.FlowStateScheduling {
		t.Fatal("expected cart advanced to scheduling")
	}
	if repo.created == nil || repo.created.GeneratedAt.IsZero() {
		t.Fatal("expected stored quotation with timestamp")
	}
}

func TestGenerateDisplayIDsAreUniquePerSequence(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	repo := &stubQuoteRepo{}
	cartRepo := &stubCartRepo{record: completeCartRecord(userID)}
	svc, err := NewService(repo, cartRepo, testCatalog(t))
	if err != nil {
		t.Fatal(err)
	}

	first, err := svc.Generate(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Generate(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}
	if first.DisplayID == second.DisplayID {
		t.Fatalf("display ids must differ, both %q", first.DisplayID)
	}
}

func TestGetUnknownQuotationReturnsNotFound(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubQuoteRepo{}, &stubCartRepo{}, testCatalog(t))
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.Get(context.Background(), uuid.New(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
