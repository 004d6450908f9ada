package report

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-booking/internal/db/dbtest"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

func day(d, h int) time.Time {
	return time.Date(2026, 3, d, h, 0, 0, 0, time.UTC)
}

type seeded struct {
	db    *gorm.DB
	cut   *models.Service
	beard *models.Service
	juan  *models.Barber
	pedro *models.Barber
	svc   *Service
}

func seed(t *testing.T) *seeded {
	gdb := dbtest.Open(t)
	s := &seeded{
		db:    gdb,
		cut:   dbtest.SeedService(t, gdb, 30),
		juan:  dbtest.SeedBarber(t, gdb, "Juan"),
		pedro: dbtest.SeedBarber(t, gdb, "Pedro"),
		svc:   NewService(gdb),
	}

	s.beard = &models.Service{Title: "Barba", DurationMinutes: 30, Price: 3000, Active: true}
	require.NoError(t, gdb.Create(s.beard).Error)

	// cut = 5000
	dbtest.SeedAppointment(t, gdb, s.juan.ID, s.cut.ID, day(10, 10), 30, "CONFIRMED")
	dbtest.SeedAppointment(t, gdb, s.juan.ID, s.cut.ID, day(10, 11), 30, "DONE")
	dbtest.SeedAppointment(t, gdb, s.juan.ID, s.beard.ID, day(10, 12), 30, "CANCELLED")
	dbtest.SeedAppointment(t, gdb, s.pedro.ID, s.beard.ID, day(11, 10), 30, "PENDING")
	dbtest.SeedAppointment(t, gdb, s.pedro.ID, s.beard.ID, day(12, 10), 30, "CONFIRMED")
	// outside the period
	dbtest.SeedAppointment(t, gdb, s.pedro.ID, s.cut.ID, time.Date(2026, 2, 20, 10, 0, 0, 0, time.UTC), 30, "DONE")

	return s
}

func TestPeriodReport(t *testing.T) {
	s := seed(t)

	r, err := s.svc.Period(context.Background(), day(1, 0), time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "2026-03-01", r.StartDate)
	assert.Equal(t, "2026-03-31", r.EndDate)

	require.Len(t, r.BarberStats, 2)
	juan := r.BarberStats[0]
	assert.Equal(t, "Juan", juan.BarberName)
	assert.EqualValues(t, 3, juan.TotalAppointments)
	assert.EqualValues(t, 1, juan.ConfirmedAppointments)
	assert.EqualValues(t, 1, juan.DoneAppointments)
	assert.EqualValues(t, 1, juan.CancelledAppointments)
	assert.InDelta(t, 10000, juan.TotalRevenue, 0.001)

	pedro := r.BarberStats[1]
	assert.EqualValues(t, 2, pedro.TotalAppointments)
	assert.EqualValues(t, 1, pedro.PendingAppointments)
	assert.InDelta(t, 3000, pedro.TotalRevenue, 0.001)

	require.Len(t, r.ServiceStats, 2)
	assert.Equal(t, "Barba", r.ServiceStats[0].ServiceName)
	assert.EqualValues(t, 3, r.ServiceStats[0].TotalAppointments)

	assert.EqualValues(t, 5, r.Summary.TotalAppointments)
	assert.InDelta(t, 13000, r.Summary.TotalRevenue, 0.001)
	assert.InDelta(t, 13000.0/3, r.Summary.AverageTicket, 0.001)
}

func TestDashboardAndMonthly(t *testing.T) {
	s := seed(t)
	now := day(10, 9)

	d, err := s.svc.Dashboard(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, &DashboardStats{
		TodayAppointments: 3,
		Pending:           1,
		Confirmed:         2,
		CancelledToday:    1,
	}, d)

	months, err := s.svc.Monthly(context.Background(), now, 2)
	require.NoError(t, err)
	require.Len(t, months, 2)

	assert.Equal(t, "2026-02", months[0].Month)
	assert.Equal(t, "febrero 2026", months[0].Label)
	assert.EqualValues(t, 1, months[0].Total)
	assert.InDelta(t, 5000, months[0].Revenue, 0.001)

	assert.Equal(t, "2026-03", months[1].Month)
	assert.EqualValues(t, 5, months[1].Total)
	assert.EqualValues(t, 1, months[1].Cancelled)
}

func TestEarnings(t *testing.T) {
	s := seed(t)
	from, to := day(1, 0), time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	// PERCENTAGE 50 from the seed
	e, err := s.svc.Earnings(context.Background(), s.juan, from, to)
	require.NoError(t, err)
	assert.EqualValues(t, 2, e.Appointments)
	assert.InDelta(t, 5000, e.Total, 0.001)

	s.pedro.EarningsType = models.EarningsFixed
	s.pedro.EarningsValue = 1500
	e, err = s.svc.Earnings(context.Background(), s.pedro, from, to)
	require.NoError(t, err)
	assert.EqualValues(t, 1, e.Appointments)
	assert.InDelta(t, 1500, e.Total, 0.001)
}

func TestPanelStats(t *testing.T) {
	s := seed(t)

	p, err := s.svc.PanelStats(context.Background(), s.pedro.ID, day(10, 9))
	require.NoError(t, err)
	assert.Equal(t, &PanelStats{
		TodayAppointments:   0,
		MonthAppointments:   2,
		PendingAppointments: 1,
		ConfirmedToday:      0,
	}, p)
}

func TestClients(t *testing.T) {
	s := seed(t)

	other := &models.Appointment{
		PublicCode:  "APT-20260313-ZZZZ",
		ClientName:  "Marta Gomez",
		ClientPhone: "1144440000",
		ClientEmail: "marta@example.com",
		BarberID:    s.juan.ID,
		ServiceID:   s.cut.ID,
		StartsAt:    day(13, 10),
		EndsAt:      day(13, 10).Add(30 * time.Minute),
		Status:      "NO_SHOW",
	}
	require.NoError(t, s.db.Omit("Barber", "Service").Create(other).Error)

	all, err := s.svc.SearchClients(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "1144440000", all[0].ClientPhone)

	found, err := s.svc.SearchClients(context.Background(), "MARTA")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, 1, found[0].AppointmentsCount)
	assert.Equal(t, "Juan", found[0].Appointments[0].Barber)

	h, err := s.svc.ClientHistory(context.Background(), "1155550000")
	require.NoError(t, err)
	assert.Equal(t, 6, h.Stats.TotalAppointments)
	assert.Equal(t, 2, h.Stats.Completed)
	assert.Equal(t, 1, h.Stats.Cancelled)

	_, err = s.svc.ClientHistory(context.Background(), "000")
	require.Error(t, err)
}

func TestExport(t *testing.T) {
	s := seed(t)

	r, err := s.svc.Period(context.Background(), day(1, 0), time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	var csvBuf bytes.Buffer
	require.NoError(t, Write(&csvBuf, r, FormatCSV))

	lines := strings.Split(strings.TrimPrefix(csvBuf.String(), "\ufeff"), "\n")
	assert.Equal(t, "Barbero;Total Turnos;Confirmados;Pendientes;Cancelados;Finalizados;Ingresos Totales", lines[0])
	assert.Equal(t, "Juan;3;1;0;1;1;10000.00", lines[1])

	var xlsxBuf bytes.Buffer
	require.NoError(t, Write(&xlsxBuf, r, FormatXLSX))

	f, err := excelize.OpenReader(&xlsxBuf)
	require.NoError(t, err)
	defer f.Close()

	name, err := f.GetCellValue("Barberos", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Juan", name)

	assert.Error(t, Write(&bytes.Buffer{}, r, "pdf"))
	assert.Equal(t, "reporte_barberia_2026-03-01_2026-03-31.csv", Filename(r, FormatCSV))
}
