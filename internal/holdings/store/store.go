package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/gcouto/patrimonio/internal/holdings"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// GetMapping returns the saved role mapping for (workbook, tab), or
// nil when none was saved.
func (s *Store) GetMapping(ctx context.Context, workbook, tab string) (holdings.Mapping, error) {
	query := `
		SELECT date_column, amount_column, institution_column, asset_class_column, asset_name_column
		FROM column_mappings
		WHERE workbook = $1 AND tab = $2
	`

	var dateCol, amountCol, institutionCol, classCol, nameCol string

	err := s.db.QueryRowContext(ctx, query, workbook, tab).
		Scan(&dateCol, &amountCol, &institutionCol, &classCol, &nameCol)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, fmt.Errorf("loading mapping: %w", err)
	}

	return holdings.Mapping{
		holdings.RoleDate:        dateCol,
		holdings.RoleAmount:      amountCol,
		holdings.RoleInstitution: institutionCol,
		holdings.RoleAssetClass:  classCol,
		holdings.RoleAssetName:   nameCol,
	}, nil
}

// SaveMapping upserts the role mapping for (workbook, tab).
func (s *Store) SaveMapping(ctx context.Context, workbook, tab string, m holdings.Mapping) error {
	query := `
		INSERT INTO column_mappings
			(id, workbook, tab, date_column, amount_column, institution_column, asset_class_column, asset_name_column, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (workbook, tab) DO UPDATE SET
			date_column = EXCLUDED.date_column,
			amount_column = EXCLUDED.amount_column,
			institution_column = EXCLUDED.institution_column,
			asset_class_column = EXCLUDED.asset_class_column,
			asset_name_column = EXCLUDED.asset_name_column,
			updated_at = NOW()
	`

	_, err := s.db.ExecContext(ctx, query,
		uuid.New(), workbook, tab,
		m[holdings.RoleDate], m[holdings.RoleAmount],
		m[holdings.RoleInstitution], m[holdings.RoleAssetClass], m[holdings.RoleAssetName],
	)
	if err != nil {
		return fmt.Errorf("saving mapping: %w", err)
	}

	return nil
}
