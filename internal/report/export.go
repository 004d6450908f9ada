package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

var exportHeader = []string{
	"Barbero",
	"Total Turnos",
	"Confirmados",
	"Pendientes",
	"Cancelados",
	"Finalizados",
	"Ingresos Totales",
}

func exportRow(b BarberStats) []any {
	return []any{
		b.BarberName,
		b.TotalAppointments,
		b.ConfirmedAppointments,
		b.PendingAppointments,
		b.CancelledAppointments,
		b.DoneAppointments,
		b.TotalRevenue,
	}
}

func Filename(r *Report, format string) string {
	return fmt.Sprintf("reporte_barberia_%s_%s.%s", r.StartDate, r.EndDate, format)
}

func ContentType(format string) string {
	if format == FormatCSV {
		return "text/csv; charset=UTF-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Write renders the per-barber table in the given format.
func Write(w io.Writer, r *Report, format string) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, r)
	case FormatXLSX, "":
		return writeXLSX(w, r)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// writeCSV uses ';' and a UTF-8 BOM so spreadsheet apps in es-AR open it as-is.
func writeCSV(w io.Writer, r *Report) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, b := range r.BarberStats {
		row := exportRow(b)
		rec := make([]string, len(row))
		for i, v := range row {
			switch x := v.(type) {
			case float64:
				rec[i] = fmt.Sprintf("%.2f", x)
			default:
				rec[i] = fmt.Sprint(x)
			}
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func writeXLSX(w io.Writer, r *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Barberos"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	for i, col := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		end, _ := excelize.CoordinatesToCellName(len(exportHeader), 1)
		_ = f.SetCellStyle(sheet, "A1", end, bold)
	}

	for rowIdx, b := range r.BarberStats {
		for colIdx, v := range exportRow(b) {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	summary := len(r.BarberStats) + 3
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", summary), "Total Turnos")
	_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", summary), r.Summary.TotalAppointments)
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", summary+1), "Ingresos")
	_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", summary+1), r.Summary.TotalRevenue)
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", summary+2), "Ticket Promedio")
	_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", summary+2), r.Summary.AverageTicket)

	return f.Write(w)
}
