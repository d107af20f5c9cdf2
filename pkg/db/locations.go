package db

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/yumyai/ggsynteny/pkg/model"
)

func (s *SyntenyDB) SaveGeneLocations(ctx context.Context, source string, locations model.GeneLocationMap) (string, error) {
	return s.withRun(ctx, KindGeneLocation, source, len(locations), func(tx *sql.Tx, runID string) error {
		stm, err := tx.PrepareContext(ctx,
			`INSERT INTO gene_locations (run_id, gene_id, location) VALUES (?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stm.Close()

		// Sorted ids keep inserts deterministic.
		ids := make([]string, 0, len(locations))
		for id := range locations {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			if _, err := stm.ExecContext(ctx, runID, id, locations[id]); err != nil {
				return fmt.Errorf("insert location of %s: %w", id, err)
			}
		}
		return nil
	})
}

func (s *SyntenyDB) GetGeneLocations(ctx context.Context, runID string) (model.GeneLocationMap, error) {
	if err := s.requireRun(ctx, runID, KindGeneLocation); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT gene_id, location FROM gene_locations WHERE run_id = ?`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	locations := make(model.GeneLocationMap)
	for rows.Next() {
		var id string
		var loc float64
		if err := rows.Scan(&id, &loc); err != nil {
			return nil, fmt.Errorf("failed to scan location row: %w", err)
		}
		locations[id] = loc
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return locations, nil
}
