package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/yumyai/ggsynteny/pkg/block"
)

// Rows of both dialects are stored as JSON string arrays: the raw tokens of a
// ColinearScan row, or [gene1, gene2] for MCScanX.

func insertBlock(ctx context.Context, tx *sql.Tx, runID string, idx int, header, locale string, rows [][]string) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO blocks (run_id, block_index, header, locale) VALUES (?, ?, ?, ?)`,
		runID, idx, header, locale); err != nil {
		return fmt.Errorf("insert block %d: %w", idx, err)
	}

	stm, err := tx.PrepareContext(ctx,
		`INSERT INTO block_rows (run_id, block_index, row_index, fields) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stm.Close()

	for i, fields := range rows {
		encoded, err := json.Marshal(fields)
		if err != nil {
			return err
		}
		if _, err := stm.ExecContext(ctx, runID, idx, i, string(encoded)); err != nil {
			return fmt.Errorf("insert row %d of block %d: %w", i, idx, err)
		}
	}
	return nil
}

type storedBlock struct {
	header string
	locale string
	rows   [][]string
}

func (s *SyntenyDB) loadBlocks(ctx context.Context, runID string) ([]*storedBlock, error) {
	blockRows, err := s.db.QueryContext(ctx,
		`SELECT header, locale FROM blocks WHERE run_id = ? ORDER BY block_index`, runID)
	if err != nil {
		return nil, err
	}
	defer blockRows.Close()

	blocks := make([]*storedBlock, 0)
	for blockRows.Next() {
		var b storedBlock
		if err := blockRows.Scan(&b.header, &b.locale); err != nil {
			return nil, fmt.Errorf("failed to scan block row: %w", err)
		}
		blocks = append(blocks, &b)
	}
	if err := blockRows.Err(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT block_index, fields FROM block_rows WHERE run_id = ? ORDER BY block_index, row_index`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var idx int
		var encoded string
		if err := rows.Scan(&idx, &encoded); err != nil {
			return nil, fmt.Errorf("failed to scan block_rows row: %w", err)
		}
		if idx < 0 || idx >= len(blocks) {
			return nil, fmt.Errorf("run %s: row refers to missing block %d", runID, idx)
		}
		var fields []string
		if err := json.Unmarshal([]byte(encoded), &fields); err != nil {
			return nil, fmt.Errorf("failed to unmarshal fields: %w", err)
		}
		blocks[idx].rows = append(blocks[idx].rows, fields)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return blocks, nil
}

func (s *SyntenyDB) SaveColinearScan(ctx context.Context, source string, blocks []*block.ColinearBlock) (string, error) {
	return s.withRun(ctx, string(block.DialectColinearScan), source, len(blocks), func(tx *sql.Tx, runID string) error {
		for i, b := range blocks {
			if err := insertBlock(ctx, tx, runID, i, "", b.Locale, b.Rows); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SyntenyDB) SaveMCScanX(ctx context.Context, source string, blocks []*block.MCScanXBlock) (string, error) {
	return s.withRun(ctx, string(block.DialectMCScanX), source, len(blocks), func(tx *sql.Tx, runID string) error {
		for i, b := range blocks {
			rows := make([][]string, len(b.Pairs))
			for j, p := range b.Pairs {
				rows[j] = []string{p.Gene1, p.Gene2}
			}
			if err := insertBlock(ctx, tx, runID, i, b.Header, "", rows); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SyntenyDB) GetColinearScan(ctx context.Context, runID string) ([]*block.ColinearBlock, error) {
	if err := s.requireRun(ctx, runID, string(block.DialectColinearScan)); err != nil {
		return nil, err
	}
	stored, err := s.loadBlocks(ctx, runID)
	if err != nil {
		return nil, err
	}

	blocks := make([]*block.ColinearBlock, len(stored))
	for i, sb := range stored {
		blocks[i] = &block.ColinearBlock{Rows: sb.rows, Locale: sb.locale}
	}
	return blocks, nil
}

func (s *SyntenyDB) GetMCScanX(ctx context.Context, runID string) ([]*block.MCScanXBlock, error) {
	if err := s.requireRun(ctx, runID, string(block.DialectMCScanX)); err != nil {
		return nil, err
	}
	stored, err := s.loadBlocks(ctx, runID)
	if err != nil {
		return nil, err
	}

	blocks := make([]*block.MCScanXBlock, len(stored))
	for i, sb := range stored {
		b := &block.MCScanXBlock{Header: sb.header, Alignment: block.ParseAlignmentHeader(sb.header)}
		for _, fields := range sb.rows {
			if len(fields) != 2 {
				return nil, fmt.Errorf("run %s block %d: expected 2 genes, got %d", runID, i, len(fields))
			}
			b.Pairs = append(b.Pairs, block.GenePair{Gene1: fields[0], Gene2: fields[1]})
		}
		blocks[i] = b
	}
	return blocks, nil
}
