package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/go-energy/internal/models"
)

// Connect opens the database selected by the DSN: PostgreSQL for URL or
// key=value DSNs, sqlite for plain file paths. Postgres connections are
// retried briefly to let the database come up first.
func Connect(dsn string) (*gorm.DB, error) {
	if !IsPostgres(dsn) {
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	}

	normalized := NormalizeDSN(dsn)
	var conn *gorm.DB
	var err error
	for i := 0; i < 5; i++ {
		conn, err = gorm.Open(postgres.Open(normalized), &gorm.Config{})
		if err == nil {
			return conn, nil
		}
		time.Sleep(2 * time.Second)
	}
	return nil, fmt.Errorf("database connection failed: %w", err)
}

// Migrate applies the GORM schema migrations.
func Migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Consommation{},
		&models.Alert{},
		&models.Notification{},
		&models.Session{},
	); err != nil {
		return fmt.Errorf("migrations failed: %w", err)
	}
	return nil
}

// Seed ensures the default consumption categories exist. Idempotent.
func Seed(conn *gorm.DB) error {
	defaults := []models.Category{
		{Name: "Electricité", Unit: "kWh"},
		{Name: "Eau", Unit: "m³"},
		{Name: "Gaz", Unit: "m³"},
	}
	for _, c := range defaults {
		if err := conn.Where(models.Category{Name: c.Name}).
			Attrs(models.Category{Unit: c.Unit}).
			FirstOrCreate(&c).Error; err != nil {
			return fmt.Errorf("seed category %q: %w", c.Name, err)
		}
	}
	return nil
}
