package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/foamwash/foamwash-backend/internal/catalog"
	"github.com/foamwash/foamwash-backend/pkg/db/models"
	"github.com/foamwash/foamwash-backend/pkg/enums"
	pkgerrors "github.com/foamwash/foamwash-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartRepository is the persistence surface the service depends on.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	Create(ctx context.Context, record *models.CartRecord) (*models.CartRecord, error)
	FindOpenByUser(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error)
	ReplaceItems(ctx context.Context, cartID uuid.UUID, items []models.CartItem) error
	UpdateFlowState(ctx context.Context, cartID uuid.UUID, state enums.FlowState) error
	Close(ctx context.Context, cartID uuid.UUID, state enums.FlowState, now time.Time) error
	IncrementQuoteSeq(ctx context.Context, cartID uuid.UUID) (int, error)
}

// Service exposes cart operations scoped to the authenticated user.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*View, error)
	AddService(ctx context.Context, userID uuid.UUID, serviceID string) (*View, error)
	SetQuantity(ctx context.Context, userID uuid.UUID, serviceID string, quantity int) (*View, error)
	SetDetail(ctx context.Context, userID uuid.UUID, serviceID string, field enums.DetailField, value string) (*View, error)
	RemoveService(ctx context.Context, userID uuid.UUID, serviceID string) (*View, error)
	Clear(ctx context.Context, userID uuid.UUID) (*View, error)
}

type service struct {
	repo    CartRepository
	catalog *catalog.Catalog
}

// NewService wires cart dependencies.
func NewService(repo CartRepository, cat *catalog.Catalog) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if cat == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	return &service{repo: repo, catalog: cat}, nil
}

// ItemView is one cart line with derived pricing.
type ItemView struct {
	ServiceID   string `json:"service_id"`
	ServiceName string `json:"service_name"`
	BasePrice   int64  `json:"base_price"`
	Quantity    int    `json:"quantity"`
	Size        string `json:"size,omitempty"`
	WashType    string `json:"wash_type,omitempty"`
	UnitPrice   int64  `json:"unit_price"`
	Subtotal    int64  `json:"subtotal"`
}

// View is the cart as presented to clients.
type View struct {
	CartID           uuid.UUID       `json:"cart_id"`
	FlowState        enums.FlowState `json:"flow_state"`
	Items            []ItemView      `json:"items"`
	ItemCount        int             `json:"item_count"`
	Total            int64           `json:"total"`
	CanGenerateQuote bool            `json:"can_generate_quote"`
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*View, error) {
	record, domain, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.view(record, domain), nil
}

func (s *service) AddService(ctx context.Context, userID uuid.UUID, serviceID string) (*View, error) {
	svc, err := s.catalog.Get(serviceID)
	if err != nil {
		return nil, err
	}

	record, domain, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	domain.Add(svc)
	return s.persist(ctx, record, domain)
}

func (s *service) SetQuantity(ctx context.Context, userID uuid.UUID, serviceID string, quantity int) (*View, error) {
	record, domain, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	domain.SetQuantity(serviceID, quantity)
	return s.persist(ctx, record, domain)
}

func (s *service) SetDetail(ctx context.Context, userID uuid.UUID, serviceID string, field enums.DetailField, value string) (*View, error) {
	if !field.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown detail field %q", field))
	}

	record, domain, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, inCart := domain.Item(serviceID); inCart {
		svc, err := s.catalog.Get(serviceID)
		if err != nil {
			return nil, err
		}
		switch field {
		case enums.DetailFieldSize:
			if !svc.AllowsSize(value) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("size %q not offered for %s", value, serviceID))
			}
		case enums.DetailFieldWashType:
			if !svc.AllowsWashType(value) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("wash type %q not offered for %s", value, serviceID))
			}
		}
	}

	domain.SetDetail(serviceID, field, value)
	return s.persist(ctx, record, domain)
}

func (s *service) RemoveService(ctx context.Context, userID uuid.UUID, serviceID string) (*View, error) {
	record, domain, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	domain.Remove(serviceID)
	return s.persist(ctx, record, domain)
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) (*View, error) {
	record, domain, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	domain.Clear()
	return s.persist(ctx, record, domain)
}

func (s *service) loadOrCreate(ctx context.Context, userID uuid.UUID) (*models.CartRecord, *Cart, error) {
	if userID == uuid.Nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	record, err := s.repo.FindOpenByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		record, err = s.repo.Create(ctx, &models.CartRecord{UserID: userID, FlowState: enums.FlowStateIdle})
		if err != nil {
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
		}
	}

	return record, FromItems(itemsFromModels(record.Items)), nil
}

func (s *service) persist(ctx context.Context, record *models.CartRecord, domain *Cart) (*View, error) {
	if err := s.repo.ReplaceItems(ctx, record.ID, itemsToModels(domain.Items())); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart items")
	}

	next := nextFlowState(record.FlowState, domain)
	if next != record.FlowState {
		if err := s.repo.UpdateFlowState(ctx, record.ID, next); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart state")
		}
		record.FlowState = next
	}

	return s.view(record, domain), nil
}

// nextFlowState keeps the journey state consistent with the cart contents.
// Mutating the cart while scheduling drops the user back to reviewing.
func nextFlowState(current enums.FlowState, domain *Cart) enums.FlowState {
	if domain.IsEmpty() {
		return enums.FlowStateIdle
	}
	switch current {
	case enums.FlowStateIdle, enums.FlowStateScheduling:
		return enums.FlowStateReviewing
	default:
		return current
	}
}

func (s *service) view(record *models.CartRecord, domain *Cart) *View {
	surcharge := s.catalog.SurchargeFor
	items := domain.Items()
	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		views = append(views, ItemView{
			ServiceID:   item.ServiceID,
			ServiceName: item.ServiceName,
			BasePrice:   item.BasePrice,
			Quantity:    item.Quantity,
			Size:        item.Size,
			WashType:    item.WashType,
			UnitPrice:   item.UnitPrice(surcharge),
			Subtotal:    item.Subtotal(surcharge),
		})
	}

	return &View{
		CartID:           record.ID,
		FlowState:        record.FlowState,
		Items:            views,
		ItemCount:        domain.ItemCount(),
		Total:            domain.Total(surcharge),
		CanGenerateQuote: domain.IsComplete(),
	}
}

// FromRecord rebuilds the domain cart from a persisted record.
func FromRecord(record *models.CartRecord) *Cart {
	if record == nil {
		return New()
	}
	return FromItems(itemsFromModels(record.Items))
}

func itemsFromModels(rows []models.CartItem) []Item {
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		item := Item{
			ServiceID:   row.ServiceID,
			ServiceName: row.ServiceName,
			BasePrice:   row.BasePrice,
			Quantity:    row.Quantity,
		}
		if row.Size != nil {
			item.Size = *row.Size
		}
		if row.WashType != nil {
			item.WashType = *row.WashType
		}
		items = append(items, item)
	}
	return items
}

func itemsToModels(items []Item) []models.CartItem {
	rows := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		row := models.CartItem{
			ServiceID:   item.ServiceID,
			ServiceName: item.ServiceName,
			BasePrice:   item.BasePrice,
			Quantity:    item.Quantity,
		}
		if item.Size != "" {
			size := item.Size
			row.Size = &size
		}
		if item.WashType != "" {
			washType := item.WashType
			row.WashType = &washType
		}
		rows = append(rows, row)
	}
	return rows
}
