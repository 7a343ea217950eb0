package bookings

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

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// BookingRepository is the persistence surface the service depends on.
type BookingRepository interface {
	WithTx(tx *gorm.DB) BookingRepository
	Create(ctx context.Context, booking *models.Booking) error
	FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.Booking, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	List(ctx context.Context, params listBookingsParams) ([]models.Booking, *pagination.Cursor, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.BookingStatus) (int64, error)
	Assign(ctx context.Context, id uuid.UUID, employeeID *uuid.UUID) error
}

type quotationLoader interface {
	FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.Quotation, error)
}

type notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind enums.NotificationKind, message string)
}

// Service runs the scheduling flow and staff booking operations.
type Service interface {
	Schedule(ctx context.Context, userID uuid.UUID, form Form) (*View, error)
	CancelFlow(ctx context.Context, userID uuid.UUID) error
	ListMine(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error)
	Get(ctx context.Context, userID, bookingID uuid.UUID) (*View, error)
	CancelBooking(ctx context.Context, userID, bookingID uuid.UUID) (*View, error)

	ListAll(ctx context.Context, params StaffListParams) (*ListResult, error)
	ListAssigned(ctx context.Context, employeeID uuid.UUID, params pagination.Params) (*ListResult, error)
	UpdateStatus(ctx context.Context, bookingID uuid.UUID, to enums.BookingStatus) (*View, error)
	UpdateStatusAssigned(ctx context.Context, employeeID, bookingID uuid.UUID, to enums.BookingStatus) (*View, error)
	Assign(ctx context.Context, bookingID uuid.UUID, employeeID *uuid.UUID) (*View, error)
}

type service struct {
	tx          txRunner
	repo        BookingRepository
	cartRepo    cart.CartRepository
	quotations  quotationLoader
	catalog     *catalog.Catalog
	notify      notifier
	minLeadDays int
	now         func() time.Time
}

// NewService builds the booking service.
func NewService(
	tx txRunner,
	repo BookingRepository,
	cartRepo cart.CartRepository,
	quotations quotationLoader,
	cat *catalog.Catalog,
	notify notifier,
	minLeadDays int,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("booking repository required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if quotations == nil {
		return nil, fmt.Errorf("quotation loader required")
	}
	if cat == nil {
		return nil, fmt.Errorf("catalog required")
	}
	return &service{
		tx:          tx,
		repo:        repo,
		cartRepo:    cartRepo,
		quotations:  quotations,
		catalog:     cat,
		notify:      notify,
		minLeadDays: minLeadDays,
		now:         time.Now,
	}, nil
}

// LineView is one snapshotted service line on a booking.
type LineView struct {
	ServiceID   string `json:"service_id"`
	ServiceName string `json:"service_name"`
	Size        string `json:"size"`
	WashType    string `json:"wash_type"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	Subtotal    int64  `json:"subtotal"`
}

// View is the booking as presented to clients and staff.
type View struct {
	ID            uuid.UUID           `json:"id"`
	DisplayID     string              `json:"display_id"`
	Status        enums.BookingStatus `json:"status"`
	Address       string              `json:"address"`
	City          string              `json:"city"`
	Phone         string              `json:"phone"`
	Notes         string              `json:"notes,omitempty"`
	ScheduledDate string              `json:"scheduled_date"`
	ScheduledSlot enums.TimeSlot      `json:"scheduled_slot"`
	Total         int64               `json:"total"`
	AssignedTo    *uuid.UUID          `json:"assigned_to,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	Lines         []LineView          `json:"lines"`
}

// ListResult wraps a page of bookings and the cursor for the next page.
type ListResult struct {
	Items  []View `json:"items"`
	Cursor string `json:"cursor"`
}

// StaffListParams filters the admin booking listing.
type StaffListParams struct {
	Status   *enums.BookingStatus
	FromDate *time.Time
	ToDate   *time.Time
	Limit    int
	Cursor   string
}

func (s *service) Schedule(ctx context.Context, userID uuid.UUID, form Form) (*View, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	validated, fields, err := form.Validate(s.now(), s.minLeadDays)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeBookingForm, err, "booking form rejected").
			WithDetails(map[string]any{"fields": fields})
	}

	record, err := s.cartRepo.FindOpenByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no active cart to schedule")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if record.FlowState != enums.FlowStateScheduling {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cart is %s, generate a quotation before scheduling", record.FlowState))
	}

	domain := cart.FromRecord(record)
	if !domain.IsComplete() {
		return nil, pkgerrors.New(pkgerrors.CodeIncomplete, "cart items are missing size or wash type").
			WithDetails(map[string]any{"missing": domain.IncompleteServiceIDs()})
	}

	var quotationID *uuid.UUID
	if form.QuotationID != "" {
		parsed, parseErr := uuid.Parse(form.QuotationID)
		if parseErr != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quotation id is not a valid uuid")
		}
		quotation, loadErr := s.quotations.FindByIDAndUser(ctx, parsed, userID)
		if loadErr != nil {
			if errors.Is(loadErr, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quotation not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, loadErr, "load quotation")
		}
		quotationID = &quotation.ID
	}

	seq, err := s.cartRepo.IncrementQuoteSeq(ctx, record.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocate booking sequence")
	}

	now := s.now().UTC()
	booking := &models.Booking{
		DisplayID:     refid.New(refid.BookingPrefix, now, seq),
		UserID:        userID,
		QuotationID:   quotationID,
		Status:        enums.BookingStatusPending,
		Address:       validated.Address,
		City:          validated.City,
		Phone:         validated.Phone,
		Notes:         validated.Notes,
		ScheduledDate: validated.Date,
		ScheduledSlot: validated.Slot,
		Total:         domain.Total(s.catalog.SurchargeFor),
	}
	for _, item := range domain.Items() {
		booking.LineItems = append(booking.LineItems, models.BookingLineItem{
			ServiceID:   item.ServiceID,
			ServiceName: item.ServiceName,
			Size:        item.Size,
			WashType:    item.WashType,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice(s.catalog.SurchargeFor),
			Subtotal:    item.Subtotal(s.catalog.SurchargeFor),
		})
	}

	// Booking insert, cart wipe, and cart close commit together. On failure
	// the cart stays in scheduling so the customer can retry the submit.
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)

		if err := repo.Create(ctx, booking); err != nil {
			return err
		}
		if err := cartRepo.ReplaceItems(ctx, record.ID, nil); err != nil {
			return err
		}
		return cartRepo.Close(ctx, record.ID, enums.FlowStateConfirmed, now)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm booking")
	}

	if s.notify != nil {
		s.notify.Notify(ctx, userID, enums.NotificationKindSuccess,
			fmt.Sprintf("Tu pedido %s quedó agendado para el %s a las %s.",
				booking.DisplayID, validated.Date.Format(dateLayout), validated.Slot))
	}

	return viewFromModel(booking), nil
}

func (s *service) CancelFlow(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	record, err := s.cartRepo.FindOpenByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "no active cart to cancel")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if !record.FlowState.CanTransitionTo(enums.FlowStateCancelled) {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot cancel a cart that is %s", record.FlowState))
	}

	if err := s.cartRepo.Close(ctx, record.ID, enums.FlowStateCancelled, s.now().UTC()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel cart")
	}

	if s.notify != nil {
		s.notify.Notify(ctx, userID, enums.NotificationKindInfo, "Tu proceso de agendamiento fue cancelado.")
	}
	return nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	return s.list(ctx, listBookingsParams{UserID: &userID, Limit: params.Limit}, params.Cursor)
}

func (s *service) Get(ctx context.Context, userID, bookingID uuid.UUID) (*View, error) {
	if userID == uuid.Nil || bookingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user and booking ids required")
	}

	booking, err := s.repo.FindByIDAndUser(ctx, bookingID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
	}
	return viewFromModel(booking), nil
}

func (s *service) CancelBooking(ctx context.Context, userID, bookingID uuid.UUID) (*View, error) {
	if userID == uuid.Nil || bookingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user and booking ids required")
	}

	booking, err := s.repo.FindByIDAndUser(ctx, bookingID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
	}

	return s.transition(ctx, booking, enums.BookingStatusCancelled)
}

func (s *service) ListAll(ctx context.Context, params StaffListParams) (*ListResult, error) {
	return s.list(ctx, listBookingsParams{
		Status:   params.Status,
		FromDate: params.FromDate,
		ToDate:   params.ToDate,
		Limit:    params.Limit,
	}, params.Cursor)
}

func (s *service) ListAssigned(ctx context.Context, employeeID uuid.UUID, params pagination.Params) (*ListResult, error) {
	if employeeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "employee id required")
	}
	return s.list(ctx, listBookingsParams{AssignedTo: &employeeID, Limit: params.Limit}, params.Cursor)
}

func (s *service) UpdateStatus(ctx context.Context, bookingID uuid.UUID, to enums.BookingStatus) (*View, error) {
	if bookingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id required")
	}
	if !to.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown booking status %q", to))
	}

	booking, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
	}

	return s.transition(ctx, booking, to)
}

// UpdateStatusAssigned progresses a booking on behalf of the employee it is
// assigned to. Bookings assigned to someone else read as not found.
func (s *service) UpdateStatusAssigned(ctx context.Context, employeeID, bookingID uuid.UUID, to enums.BookingStatus) (*View, error) {
	if employeeID == uuid.Nil || bookingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "employee and booking ids required")
	}
	if !to.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown booking status %q", to))
	}

	booking, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
	}
	if booking.AssignedTo == nil || *booking.AssignedTo != employeeID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
	}

	return s.transition(ctx, booking, to)
}

func (s *service) Assign(ctx context.Context, bookingID uuid.UUID, employeeID *uuid.UUID) (*View, error) {
	if bookingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id required")
	}

	booking, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
	}

	if err := s.repo.Assign(ctx, bookingID, employeeID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign booking")
	}
	booking.AssignedTo = employeeID
	return viewFromModel(booking), nil
}

func (s *service) transition(ctx context.Context, booking *models.Booking, to enums.BookingStatus) (*View, error) {
	if !booking.Status.CanTransitionTo(to) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("booking cannot move from %s to %s", booking.Status, to))
	}

	changed, err := s.repo.UpdateStatus(ctx, booking.ID, booking.Status, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update booking status")
	}
	if changed == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "booking status changed concurrently")
	}

	booking.Status = to
	if s.notify != nil {
		s.notify.Notify(ctx, booking.UserID, kindForStatus(to),
			fmt.Sprintf("Tu pedido %s ahora está %s.", booking.DisplayID, to))
	}
	return viewFromModel(booking), nil
}

func (s *service) list(ctx context.Context, query listBookingsParams, cursor string) (*ListResult, error) {
	if cursor != "" {
		parsed, err := pagination.ParseCursor(cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = parsed
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list bookings")
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

func kindForStatus(status enums.BookingStatus) enums.NotificationKind {
	switch status {
	case enums.BookingStatusCancelled:
		return enums.NotificationKindWarning
	case enums.BookingStatusCompleted:
		return enums.NotificationKindSuccess
	default:
		return enums.NotificationKindInfo
	}
}

func viewFromModel(booking *models.Booking) *View {
	view := &View{
		ID:            booking.ID,
		DisplayID:     booking.DisplayID,
		Status:        booking.Status,
		Address:       booking.Address,
		City:          booking.City,
		Phone:         booking.Phone,
		Notes:         booking.Notes,
		ScheduledDate: booking.ScheduledDate.Format(dateLayout),
		ScheduledSlot: booking.ScheduledSlot,
		Total:         booking.Total,
		AssignedTo:    booking.AssignedTo,
		CreatedAt:     booking.CreatedAt,
		Lines:         make([]LineView, 0, len(booking.LineItems)),
	}
	for _, line := range booking.LineItems {
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
