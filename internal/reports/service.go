package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/foamwash/foamwash-backend/pkg/enums"
	pkgerrors "github.com/foamwash/foamwash-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// Service produces the admin stats and the bookings spreadsheet export.
type Service interface {
	Stats(ctx context.Context, from, to time.Time) (*Stats, error)
	ExportBookingsXLSX(ctx context.Context, from, to time.Time) ([]byte, string, error)
}

type service struct {
	repo *Repository
}

// NewService wires the reports service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reports repository is required")
	}
	return &service{repo: repo}, nil
}

// ServiceStat is one row of the service ranking.
type ServiceStat struct {
	ServiceID   string `json:"service_id"`
	ServiceName string `json:"service_name"`
	Quantity    int64  `json:"quantity"`
	Revenue     int64  `json:"revenue"`
}

// Stats is the admin dashboard snapshot for a date window.
type Stats struct {
	From           string                        `json:"from"`
	To             string                        `json:"to"`
	ByStatus       map[enums.BookingStatus]int64 `json:"by_status"`
	CompletedCount int64                         `json:"completed_count"`
	CompletedTotal int64                         `json:"completed_total"`
	AverageTicket  string                        `json:"average_ticket"`
	TopServices    []ServiceStat                 `json:"top_services"`
}

func (s *service) Stats(ctx context.Context, from, to time.Time) (*Stats, error) {
	if to.Before(from) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date window is inverted")
	}

	byStatus, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count bookings")
	}

	count, total, err := s.repo.CompletedRevenue(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum revenue")
	}

	top, err := s.repo.TopServices(ctx, from, to, 5)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rank services")
	}

	stats := &Stats{
		From:           from.Format("2006-01-02"),
		To:             to.Format("2006-01-02"),
		ByStatus:       byStatus,
		CompletedCount: count,
		CompletedTotal: total,
		AverageTicket:  averageTicket(total, count),
		TopServices:    make([]ServiceStat, 0, len(top)),
	}
	for _, row := range top {
		stats.TopServices = append(stats.TopServices, ServiceStat{
			ServiceID:   row.ServiceID,
			ServiceName: row.ServiceName,
			Quantity:    row.Quantity,
			Revenue:     row.Revenue,
		})
	}
	return stats, nil
}

// averageTicket divides with decimal so COP amounts keep two stable places
// instead of drifting through float64.
func averageTicket(total, count int64) string {
	if count == 0 {
		return "0"
	}
	return decimal.NewFromInt(total).
		Div(decimal.NewFromInt(count)).
		Round(2).
		String()
}
