// Package data persists validation runs so drift at a station can be tracked
// across batches.
package data

import (
	"fmt"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Run records one completed validation: which station, what window, and the
// headline residual numbers. Statistics are pointers so a run that produced
// no matched records stores NULL, not a fake zero.
type Run struct {
	gorm.Model
	Station      int
	Start, End   time.Time
	RecordCount  int
	MeanResidual *float64
	MaxResidual  *float64
}

// PostgresFromEnv connects with the conventional PG* environment variables
// and migrates the schema. The server treats a missing database as optional;
// CLI batches don't use one at all.
func PostgresFromEnv() (*gorm.DB, error) {
	host := os.Getenv("PGHOST")
	if host == "" {
		return nil, fmt.Errorf("PGHOST not set")
	}
	dsn := fmt.Sprintf("host=%s user=postgres password=%s dbname=marigram port=%s sslmode=disable TimeZone=UTC",
		host,
		os.Getenv("PGPASSWORD"),
		os.Getenv("PGPORT"))
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := db.AutoMigrate(&Run{}); err != nil {
		return nil, err
	}
	return db, nil
}

// SaveRun stores a completed validation run.
func SaveRun(db *gorm.DB, run *Run) error {
	return db.Create(run).Error
}
