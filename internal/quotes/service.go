package quotes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/foamwash/foamwash-backend/internal/cart"
	"github.com/foamwash/foamwash-backend/internal/catalog"
	"github.com/foamwash/foamwash-backend/internal/refid"
	"github.com/foamwash/foamwash-backend/pkg/db/models"
	"github.com/foamwash/foamwash-backend/pkg/enums"
	pkgerrors "github.com/foamwash/foamwash-backend/pkg/errors"
	"github.com/foamwash/foamwash-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuoteRepository is the persistence surface the service depends on.
type QuoteRepository interface {
	WithTx(tx *gorm.DB) QuoteRepository
	Create(ctx context.Context, quotation *models.Quotation) error
	FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.Quotation, error)
	List(ctx context.Context, params listQuotationsParams) ([]models.Quotation, *pagination.Cursor, error)
}

// Service builds immutable quotations from the user's cart.
type Service interface {
	CanGenerate(ctx context.Context, userID uuid.UUID) (*Readiness, error)
	Generate(ctx context.Context, userID uuid.UUID) (*View, error)
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error)
	Get(ctx context.Context, userID, quotationID uuid.UUID) (*View, error)
}

type service struct {
	repo     QuoteRepository
	cartRepo cart.CartRepository
	catalog  *catalog.Catalog
	now      func() time.Time
}

// NewService wires quotation dependencies.
func NewService(repo QuoteRepository, cartRepo cart.CartRepository, cat *catalog.Catalog) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("quote repository is required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if cat == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	return &service{
		repo:     repo,
		cartRepo: cartRepo,
		catalog:  cat,
		now:      time.Now,
	}, nil
}

// Readiness reports whether the cart can produce a quotation.
type Readiness struct {
	CanGenerate bool     `json:"can_generate"`
	Missing     []string `json:"missing,omitempty"`
	Empty       bool     `json:"empty"`
}

// LineView is one priced line inside a quotation.
type LineView struct {
	ServiceID   string `json:"service_id"`
	ServiceName string `json:"service_name"`
	Size        string `json:"size"`
	WashType    string `json:"wash_type"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	Subtotal    int64  `json:"subtotal"`
}

// View is the customer-facing quotation.
type View struct {
	ID          uuid.UUID  `json:"id"`
	DisplayID   string     `json:"display_id"`
	Total       int64      `json:"total"`
	GeneratedAt time.Time  `json:"generated_at"`
	Lines       []LineView `json:"lines"`
}

// ListResult wraps a page of quotations and the cursor for the next page.
type ListResult struct {
	Items  []View `json:"items"`
	Cursor string `json:"cursor"`
}

func (s *service) CanGenerate(ctx context.Context, userID uuid.UUID) (*Readiness, error) {
	domain, _, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return readiness(domain), nil
}

func (s *service) Generate(ctx context.Context, userID uuid.UUID) (*View, error) {
	domain, record, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if ready := readiness(domain); !ready.CanGenerate {
		if ready.Empty {
			return nil, pkgerrors.New(pkgerrors.CodeIncomplete, "cart is empty").
				WithDetails(map[string]any{"empty": true})
		}
		return nil, pkgerrors.New(pkgerrors.CodeIncomplete, "cart items are missing size or wash type").
			WithDetails(map[string]any{"missing": ready.Missing})
	}

	seq, err := s.cartRepo.IncrementQuoteSeq(ctx, record.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocate quote sequence")
	}

	now := s.now().UTC()
	quotation := &models.Quotation{
		DisplayID:   refid.New(refid.QuotePrefix, now, seq),
		UserID:      userID,
		CartID:      record.ID,
		Total:       domain.Total(s.catalog.SurchargeFor),
		GeneratedAt: now,
	}
	for _, item := range domain.Items() {
		quotation.LineItems = append(quotation.LineItems, models.QuotationLineItem{
			ServiceID:   item.ServiceID,
			ServiceName: item.ServiceName,
			Size:        item.Size,
			WashType:    item.WashType,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice(s.catalog.SurchargeFor),
			Subtotal:    item.Subtotal(s.catalog.SurchargeFor),
		})
	}

	if err := s.repo.Create(ctx, quotation); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store quotation")
	}

	// The cart advances to scheduling once a quotation exists; its contents
	// stay untouched so the user can still go back and edit.
	if record.FlowState.CanTransitionTo(enums.FlowStateScheduling) {
		if err := s.cartRepo.UpdateFlowState(ctx, record.ID, enums.FlowStateScheduling); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "advance cart state")
		}
	}

	return viewFromModel(quotation), nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	query := listQuotationsParams{UserID: userID, Limit: params.Limit}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list quotations")
	}

	result := &ListResult{Items: make([]View, 0, len(rows))}
	for i := range rows {
		result.Items = append(result.Items, *viewFromModel(&rows[i]))
	}
	if next != nil {
		result.Cursor = pagination.EncodeCursor(*next)
	}
	return result, nil
}

func (s *service) Get(ctx context.Context, userID, quotationID uuid.UUID) (*View, error) {
	if userID == uuid.Nil || quotationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user and quotation ids required")
	}

	quotation, err := s.repo.FindByIDAndUser(ctx, quotationID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quotation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load quotation")
	}
	return viewFromModel(quotation), nil
}

func (s *service) loadCart(ctx context.Context, userID uuid.UUID) (*cart.Cart, *models.CartRecord, error) {
	if userID == uuid.Nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	record, err := s.cartRepo.FindOpenByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return cart.New(), &models.CartRecord{UserID: userID, FlowState: enums.FlowStateIdle}, nil
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	return cart.FromRecord(record), record, nil
}

func readiness(domain *cart.Cart) *Readiness {
	if domain.IsEmpty() {
		return &Readiness{Empty: true}
	}
	missing := domain.IncompleteServiceIDs()
	return &Readiness{
		CanGenerate: len(missing) == 0,
		Missing:     missing,
	}
}

func viewFromModel(quotation *models.Quotation) *View {
	view := &View{
		ID:          quotation.ID,
		DisplayID:   quotation.DisplayID,
		Total:       quotation.Total,
		GeneratedAt: quotation.GeneratedAt,
		Lines:       make([]LineView, 0, len(quotation.LineItems)),
	}
	for _, line := range quotation.LineItems {
		view.Lines = append(view.Lines, LineView{
			ServiceID:   line.ServiceID,
			ServiceName: line.ServiceName,
			Size:        line.Size,
			WashType:    line.WashType,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Subtotal:    line.Subtotal,
		})
	}
	return view
}
