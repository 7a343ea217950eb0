package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/foamwash/foamwash-backend/pkg/db/models"
	"github.com/foamwash/foamwash-backend/pkg/enums"
	pkgerrors "github.com/foamwash/foamwash-backend/pkg/errors"
	"github.com/foamwash/foamwash-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubNotificationRepo struct {
	created   []*models.Notification
	createErr error
	listing   []models.Notification
	marked    notificationMarkResult
	markedAll int64
}

func (s *stubNotificationRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubNotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, notification)
	return nil
}

func (s *stubNotificationRepo) List(ctx context.Context, params listNotificationsParams) ([]models.Notification, *pagination.Cursor, error) {
	return s.listing, nil, nil
}

func (s *stubNotificationRepo) MarkRead(ctx context.Context, userID, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error) {
	return s.marked, nil
}

func (s *stubNotificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	return s.markedAll, nil
}

func (s *stubNotificationRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

func TestNotifyStampsExpiry(t *testing.T) {
	t.Parallel()

	repo := &stubNotificationRepo{}
	svc, err := NewService(repo, nil, 48*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	frozen := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	svc.(*service).now = func() time.Time { return frozen }

	svc.Notify(context.Background(), uuid.New(), enums.NotificationKindSuccess, "  Tu pedido quedó agendado.  ")

	if len(repo.created) != 1 {
		t.Fatalf("expected one stored notification, got %d", len(repo.created))
	}
	stored := repo.created[0]
	if stored.Message != "Tu pedido quedó agendado." {
		t.Fatalf("expected trimmed message, got %q", stored.Message)
	}
	if !stored.ExpiresAt.Equal(frozen.Add(48 * time.Hour)) {
		t.Fatalf("expected expiry 48h out, got %s", stored.ExpiresAt)
	}
}

func TestNotifyDropsInvalidInput(t *testing.T) {
	t.Parallel()

	repo := &stubNotificationRepo{}
	svc, err := NewService(repo, nil, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	svc.Notify(context.Background(), uuid.Nil, enums.NotificationKindInfo, "mensaje")
	svc.Notify(context.Background(), uuid.New(), enums.NotificationKindInfo, "   ")

	if len(repo.created) != 0 {
		t.Fatalf("expected nothing stored, got %d", len(repo.created))
	}
}

func TestNotifySwallowsStorageErrors(t *testing.T) {
	t.Parallel()

	repo := &stubNotificationRepo{createErr: errors.New("insert failed")}
	svc, err := NewService(repo, nil, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	// Must not panic or surface anything to the caller.
	svc.Notify(context.Background(), uuid.New(), enums.NotificationKindWarning, "mensaje")
}

func TestNotifyNormalizesUnknownKind(t *testing.T) {
	t.Parallel()

	repo := &stubNotificationRepo{}
	svc, err := NewService(repo, nil, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	svc.Notify(context.Background(), uuid.New(), enums.NotificationKind("loud"), "mensaje")

	if len(repo.created) != 1 || repo.created[0].Kind != enums.NotificationKindInfo {
		t.Fatalf("expected kind coerced to info, got %+v", repo.created)
	}
}

func TestMarkReadUnknownNotification(t *testing.T) {
	t.Parallel()

	repo := &stubNotificationRepo{marked: notificationMarkResult{Found: false}}
	svc, err := NewService(repo, nil, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	err = svc.MarkRead(context.Background(), uuid.New(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestMarkReadAlreadyReadIsIdempotent(t *testing.T) {
	t.Parallel()

	repo := &stubNotificationRepo{marked: notificationMarkResult{Found: true, Updated: false}}
	svc, err := NewService(repo, nil, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.MarkRead(context.Background(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("marking an already read notification must succeed, got %v", err)
	}
}

func TestMarkAllReadReportsCount(t *testing.T) {
	t.Parallel()

	repo := &stubNotificationRepo{markedAll: 3}
	svc, err := NewService(repo, nil, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	count, err := svc.MarkAllRead(context.Background(), uuid.New())
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Fatalf("expected 3 updated, got %d", count)
	}
}

func TestListRejectsMissingUser(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubNotificationRepo{}, nil, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.List(context.Background(), ListParams{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}
