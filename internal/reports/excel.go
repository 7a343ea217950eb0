package reports

import (
	"bytes"
	"context"
	"fmt"
	"time"

	pkgerrors "github.com/foamwash/foamwash-backend/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Pedidos"

var exportHeaders = []string{
	"Pedido", "Estado", "Fecha", "Franja", "Cliente (tel)", "Ciudad",
	"Dirección", "Servicios", "Total (COP)",
}

// ExportBookingsXLSX renders the bookings in the window as a spreadsheet and
// returns the file bytes plus a suggested filename.
func (s *service) ExportBookingsXLSX(ctx context.Context, from, to time.Time) ([]byte, string, error) {
	if to.Before(from) {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "date window is inverted")
	}

	bookings, err := s.repo.BookingsBetween(ctx, from, to)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load bookings")
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create sheet")
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(exportSheet, "A1", fmt.Sprintf("Pedidos del %s al %s",
		from.Format("2006-01-02"), to.Format("2006-01-02")))
	lastCol, _ := excelize.ColumnNumberToName(len(exportHeaders))
	_ = f.MergeCell(exportSheet, "A1", lastCol+"1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(exportSheet, "A1", "A1", titleStyle)

	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	for i, header := range exportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "2"
		_ = f.SetCellValue(exportSheet, cell, header)
		_ = f.SetCellStyle(exportSheet, cell, cell, headerStyle)
	}

	for i, booking := range bookings {
		row := i + 3
		services := ""
		for j, line := range booking.LineItems {
			if j > 0 {
				services += "; "
			}
			services += fmt.Sprintf("%s (%s, %s) x%d", line.ServiceName, line.Size, line.WashType, line.Quantity)
		}

		values := []any{
			booking.DisplayID,
			booking.Status.String(),
			booking.ScheduledDate.Format("2006-01-02"),
			booking.ScheduledSlot.String(),
			booking.Phone,
			booking.City,
			booking.Address,
			services,
			booking.Total,
		}
		for j, value := range values {
			col, _ := excelize.ColumnNumberToName(j + 1)
			_ = f.SetCellValue(exportSheet, fmt.Sprintf("%s%d", col, row), value)
		}
	}

	_ = f.SetColWidth(exportSheet, "A", "B", 16)
	_ = f.SetColWidth(exportSheet, "C", "F", 18)
	_ = f.SetColWidth(exportSheet, "G", "H", 40)
	_ = f.SetColWidth(exportSheet, "I", "I", 14)
	_ = f.DeleteSheet("Sheet1")

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write workbook")
	}

	filename := fmt.Sprintf("bookings_%s_%s.xlsx", from.Format("2006-01-02"), to.Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}
