// Package dbtest opens throwaway SQLite databases with the production schema.
package dbtest

import (
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/barbershop-booking/internal/db"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

func Open(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	gdb, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	// a single connection keeps transactions serialised
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func SeedService(t *testing.T, gdb *gorm.DB, minutes int) *models.Service {
	t.Helper()

	svc := &models.Service{
		Title:           "Corte",
		DurationMinutes: minutes,
		Price:           5000,
		Active:          true,
	}
	if err := gdb.Create(svc).Error; err != nil {
		t.Fatalf("seed service: %v", err)
	}
	return svc
}

func SeedBarber(t *testing.T, gdb *gorm.DB, name string) *models.Barber {
	t.Helper()

	b := &models.Barber{
		Name:          name,
		Active:        true,
		EarningsType:  models.EarningsPercentage,
		EarningsValue: 50,
	}
	if err := gdb.Create(b).Error; err != nil {
		t.Fatalf("seed barber: %v", err)
	}
	return b
}

var seq atomic.Int64

func SeedAppointment(
	t *testing.T,
	gdb *gorm.DB,
	barberID, serviceID uint,
	start time.Time,
	minutes int,
	status string,
) *models.Appointment {
	t.Helper()

	ap := &models.Appointment{
		PublicCode:  fmt.Sprintf("APT-%s-T%03d", start.Format("20060102"), seq.Add(1)),
		ClientName:  "Cliente",
		ClientPhone: "1155550000",
		BarberID:    barberID,
		ServiceID:   serviceID,
		StartsAt:    start,
		EndsAt:      start.Add(time.Duration(minutes) * time.Minute),
		Status:      status,
	}
	if err := gdb.Omit("Barber", "Service").Create(ap).Error; err != nil {
		t.Fatalf("seed appointment: %v", err)
	}
	return ap
}
