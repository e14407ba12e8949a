package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/railqa/railcheck/internal/database"
	"github.com/railqa/railcheck/internal/models"
)

// ReconciliationRepository handles database operations for reconciliation
// records
type ReconciliationRepository struct {
	db *sql.DB
}

// NewReconciliationRepository creates a new reconciliation repository
func NewReconciliationRepository() *ReconciliationRepository {
	return &ReconciliationRepository{
		db: database.DB,
	}
}

// NewReconciliationRepositoryWithDB creates a new reconciliation repository
// with a specific database connection
func NewReconciliationRepositoryWithDB(db *sql.DB) *ReconciliationRepository {
	return &ReconciliationRepository{
		db: db,
	}
}

// CreateRecord persists a reconciliation outcome
func (r *ReconciliationRepository) CreateRecord(record *models.ReconciliationRecord) error {
	query := `
		INSERT INTO reconciliations (id, profile, railcard, duration_years, sku, promo_code, delivery, expected_price, observed_price, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(query,
		record.ID,
		record.Profile,
		record.Kind,
		record.DurationYears,
		record.SKU,
		record.PromoCode,
		record.Delivery,
		record.ExpectedPrice,
		record.ObservedPrice,
		record.Status,
		record.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create reconciliation record: %w", err)
	}

	return nil
}

// GetRecordByID retrieves a reconciliation record by its ID
func (r *ReconciliationRepository) GetRecordByID(id string) (*models.ReconciliationRecord, error) {
	query := `
		SELECT id, profile, railcard, duration_years, sku, COALESCE(promo_code, ''), delivery,
		       expected_price, observed_price, status, created_at
		FROM reconciliations
		WHERE id = $1
	`

	record := &models.ReconciliationRecord{}
	err := r.db.QueryRow(query, id).Scan(
		&record.ID,
		&record.Profile,
		&record.Kind,
		&record.DurationYears,
		&record.SKU,
		&record.PromoCode,
		&record.Delivery,
		&record.ExpectedPrice,
		&record.ObservedPrice,
		&record.Status,
		&record.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("reconciliation record not found")
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get reconciliation record: %w", err)
	}

	return record, nil
}

// ListMismatches returns the most recent mismatched records for a profile
func (r *ReconciliationRepository) ListMismatches(profile string, limit int) ([]*models.ReconciliationRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, profile, railcard, duration_years, sku, COALESCE(promo_code, ''), delivery,
		       expected_price, observed_price, status, created_at
		FROM reconciliations
		WHERE profile = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := r.db.Query(query, profile, models.ReconciliationMismatched, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list mismatches: %w", err)
	}
	defer rows.Close()

	var records []*models.ReconciliationRecord
	for rows.Next() {
		record := &models.ReconciliationRecord{}
		if err := rows.Scan(
			&record.ID,
			&record.Profile,
			&record.Kind,
			&record.DurationYears,
			&record.SKU,
			&record.PromoCode,
			&record.Delivery,
			&record.ExpectedPrice,
			&record.ObservedPrice,
			&record.Status,
			&record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reconciliation record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate mismatches: %w", err)
	}

	return records, nil
}
