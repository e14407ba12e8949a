package database

import (
	"fmt"
	"log"
)

// RunMigrations creates the necessary database tables
func RunMigrations() error {
	if DB == nil {
		return fmt.Errorf("database connection not initialized")
	}

	// Create reconciliations table
	createReconciliationsTable := `
	CREATE TABLE IF NOT EXISTS reconciliations (
		id UUID PRIMARY KEY,
		profile VARCHAR(100) NOT NULL,
		railcard VARCHAR(50) NOT NULL,
		duration_years INTEGER NOT NULL,
		sku VARCHAR(255) NOT NULL,
		promo_code VARCHAR(255),
		delivery VARCHAR(20) NOT NULL,
		expected_price NUMERIC(10,2) NOT NULL,
		observed_price NUMERIC(10,2) NOT NULL,
		status VARCHAR(20) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_reconciliations_profile ON reconciliations(profile);
	CREATE INDEX IF NOT EXISTS idx_reconciliations_status ON reconciliations(status);
	`

	_, err := DB.Exec(createReconciliationsTable)
	if err != nil {
		return fmt.Errorf("failed to create reconciliations table: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}
