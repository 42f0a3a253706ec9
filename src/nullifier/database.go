package nullifier

import (
	"fmt"

	"attestation-service/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ConnectToDatabase opens the registry database and runs migrations.
// Connection strings starting with "host=" select postgres, anything else is
// treated as a sqlite path (dev and tests use "file::memory:?cache=shared").
func ConnectToDatabase(connectionString string) (*gorm.DB, error) {
	dbLogger := logger.Default()
	dbLogger.Infof("Establishing connection to nullifier registry database")

	var dialector gorm.Dialector
	if len(connectionString) >= 5 && connectionString[:5] == "host=" {
		dialector = postgres.Open(connectionString)
	} else {
		dialector = sqlite.Open(connectionString)
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("cannot establish database connection: %w", err)
	}

	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("migrating nullifier registry failed: %w", err)
	}

	dbLogger.Info("Nullifier registry table created (or already exists).")
	return db, nil
}
