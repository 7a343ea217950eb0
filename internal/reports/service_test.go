package reports

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/foamwash/foamwash-backend/pkg/db/models"
	"github.com/foamwash/foamwash-backend/pkg/enums"
	pkgerrors "github.com/foamwash/foamwash-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupReportsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	bookings := `
CREATE TABLE IF NOT EXISTS bookings (
  id TEXT PRIMARY KEY,
  display_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  quotation_id TEXT,
  status TEXT NOT NULL DEFAULT 'pending',
  address TEXT NOT NULL DEFAULT '',
  city TEXT NOT NULL DEFAULT '',
  phone TEXT NOT NULL DEFAULT '',
  notes TEXT NOT NULL DEFAULT '',
  scheduled_date DATETIME NOT NULL,
  scheduled_slot TEXT NOT NULL DEFAULT '08:00',
  total INTEGER NOT NULL DEFAULT 0,
  assigned_to TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	lineItems := `
CREATE TABLE IF NOT EXISTS booking_line_items (
  id TEXT PRIMARY KEY,
  booking_id TEXT NOT NULL,
  service_id TEXT NOT NULL,
  service_name TEXT NOT NULL,
  size TEXT NOT NULL DEFAULT '',
  wash_type TEXT NOT NULL DEFAULT '',
  quantity INTEGER NOT NULL,
  unit_price INTEGER NOT NULL,
  subtotal INTEGER NOT NULL
);`
	require.NoError(t, db.Exec(bookings).Error)
	require.NoError(t, db.Exec(lineItems).Error)
	return db
}

func seedBooking(t *testing.T, db *gorm.DB, status enums.BookingStatus, date time.Time, total int64, lines ...models.BookingLineItem) *models.Booking {
	t.Helper()

	booking := &models.Booking{
		ID:            uuid.New(),
		DisplayID:     "PED-TEST-" + uuid.NewString()[:4],
		UserID:        uuid.New(),
		Status:        status,
		Address:       "Carrera 7 # 45-10",
		City:          "Bogotá",
		Phone:         "3001234567",
		ScheduledDate: date,
		ScheduledSlot: enums.TimeSlot0900,
		Total:         total,
	}
	for i := range lines {
		lines[i].ID = uuid.New()
	}
	booking.LineItems = lines
	require.NoError(t, db.Create(booking).Error)
	return booking
}

func reportsWindow() (time.Time, time.Time) {
	from := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC)
	return from, to
}

func TestStatsAggregatesWindow(t *testing.T) {
	t.Parallel()

	db := setupReportsTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	from, to := reportsWindow()
	inWindow := time.Date(2026, time.March, 12, 0, 0, 0, 0, time.UTC)

	seedBooking(t, db, enums.BookingStatusCompleted, inWindow, 240000,
		models.BookingLineItem{ServiceID: "lavado-muebles", ServiceName: "Lavado de muebles", Quantity: 2, UnitPrice: 120000, Subtotal: 240000})
	seedBooking(t, db, enums.BookingStatusCompleted, inWindow, 60000,
		models.BookingLineItem{ServiceID: "lavado-tapetes", ServiceName: "Lavado de tapetes", Quantity: 1, UnitPrice: 60000, Subtotal: 60000})
	seedBooking(t, db, enums.BookingStatusPending, inWindow, 90000,
		models.BookingLineItem{ServiceID: "lavado-muebles", ServiceName: "Lavado de muebles", Quantity: 1, UnitPrice: 90000, Subtotal: 90000})
	// Completed but outside the window: counted by status, not by revenue.
	seedBooking(t, db, enums.BookingStatusCompleted, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), 500000)

	stats, err := svc.Stats(context.Background(), from, to)
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.ByStatus[enums.BookingStatusCompleted])
	assert.Equal(t, int64(1), stats.ByStatus[enums.BookingStatusPending])
	assert.Equal(t, int64(2), stats.CompletedCount)
	assert.Equal(t, int64(300000), stats.CompletedTotal)
	assert.Equal(t, "150000", stats.AverageTicket)

	require.NotEmpty(t, stats.TopServices)
	assert.Equal(t, "lavado-muebles", stats.TopServices[0].ServiceID)
	assert.Equal(t, int64(3), stats.TopServices[0].Quantity)
}

func TestStatsRejectsInvertedWindow(t *testing.T) {
	t.Parallel()

	db := setupReportsTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	from, to := reportsWindow()
	_, err = svc.Stats(context.Background(), to, from)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestAverageTicketRounding(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0", averageTicket(0, 0))
	assert.Equal(t, "120000", averageTicket(240000, 2))
	assert.Equal(t, "34285.71", averageTicket(240000, 7))
}

func TestExportBookingsXLSX(t *testing.T) {
	t.Parallel()

	db := setupReportsTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	from, to := reportsWindow()
	booking := seedBooking(t, db, enums.BookingStatusPending, time.Date(2026, time.March, 12, 0, 0, 0, 0, time.UTC), 240000,
		models.BookingLineItem{ServiceID: "lavado-muebles", ServiceName: "Lavado de muebles", Size: "Mediano", WashType: "Profundo", Quantity: 2, UnitPrice: 120000, Subtotal: 240000})

	data, filename, err := svc.ExportBookingsXLSX(context.Background(), from, to)
	require.NoError(t, err)
	assert.Equal(t, "bookings_2026-03-01_2026-03-31.xlsx", filename)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue("Pedidos", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Pedidos del 2026-03-01 al 2026-03-31", title)

	header, err := f.GetCellValue("Pedidos", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Pedido", header)

	displayID, err := f.GetCellValue("Pedidos", "A3")
	require.NoError(t, err)
	assert.Equal(t, booking.DisplayID, displayID)

	services, err := f.GetCellValue("Pedidos", "H3")
	require.NoError(t, err)
	assert.Contains(t, services, "Lavado de muebles (Mediano, Profundo) x2")
}
