package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/foamwash/foamwash-backend/api/middleware"
	cartsvc "github.com/foamwash/foamwash-backend/internal/cart"
	"github.com/foamwash/foamwash-backend/pkg/enums"
	pkgerrors "github.com/foamwash/foamwash-backend/pkg/errors"
	"github.com/google/uuid"
)

type stubCartService struct {
	view   *cartsvc.View
	err    error
	addErr error
}

func (s stubCartService) Get(ctx context.Context, userID uuid.UUID) (*cartsvc.View, error) {
	return s.view, s.err
}

func (s stubCartService) AddService(ctx context.Context, userID uuid.UUID, serviceID string) (*cartsvc.View, error) {
	if s.addErr != nil {
		return nil, s.addErr
	}
	return s.view, s.err
}

func (s stubCartService) SetQuantity(ctx context.Context, userID uuid.UUID, serviceID string, quantity int) (*cartsvc.View, error) {
	return s.view, s.err
}

func (s stubCartService) SetDetail(ctx context.Context, userID uuid.UUID, serviceID string, field enums.DetailField, value string) (*cartsvc.View, error) {
	return s.view, s.err
}

func (s stubCartService) RemoveService(ctx context.Context, userID uuid.UUID, serviceID string) (*cartsvc.View, error) {
	return s.view, s.err
}

func (s stubCartService) Clear(ctx context.Context, userID uuid.UUID) (*cartsvc.View, error) {
	return s.view, s.err
}

func TestCartGetSuccess(t *testing.T) {
	userID := uuid.New()
	view := &cartsvc.View{
		CartID:    uuid.New(),
		FlowState: enums.FlowStateReviewing,
		Total:     240000,
		ItemCount: 2,
	}
	handler := CartGet(stubCartService{view: view}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data cartsvc.View `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.CartID != view.CartID || envelope.Data.Total != 240000 {
		t.Fatalf("unexpected payload: %+v", envelope.Data)
	}
}

func TestCartAddItemUnknownService(t *testing.T) {
	handler := CartAddItem(stubCartService{
		addErr: pkgerrors.New(pkgerrors.CodeUnknownService, "unknown service id"),
	}, nil)

	body := strings.NewReader(`{"service_id":"no-such-service"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", body)
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeUnknownService) {
		t.Fatalf("expected UNKNOWN_SERVICE code, got %q", envelope.Error.Code)
	}
}

func TestCartAddItemRejectsMissingServiceID(t *testing.T) {
	handler := CartAddItem(stubCartService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartGetMissingUserContext(t *testing.T) {
	handler := CartGet(stubCartService{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
