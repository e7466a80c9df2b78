package warehouse

import (
	"context"
	"fmt"

	"github.com/mfgstack/mfgetl/internal/datagen"
	"github.com/mfgstack/mfgetl/internal/db"
)

// DateKeys returns the newest `days` rows of the date spine in
// chronological order.
func DateKeys(ctx context.Context, q db.Querier, days int) ([]datagen.DateKey, error) {
	rows, err := q.Query(ctx, `
        SELECT date_id, full_date
        FROM dim_date
        ORDER BY full_date DESC
        LIMIT $1
    `, days)
	if err != nil {
		return nil, fmt.Errorf("failed to read date dimension: %w", err)
	}
	defer rows.Close()

	var keys []datagen.DateKey
	for rows.Next() {
		var k datagen.DateKey
		if err := rows.Scan(&k.ID, &k.Date); err != nil {
			return nil, fmt.Errorf("failed to scan date dimension: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read date dimension: %w", err)
	}

	// Query is newest-first; flip to oldest-first.
	for i, j := 0, len(keys)-1; i < j; i, j = i+1, j-1 {
		keys[i], keys[j] = keys[j], keys[i]
	}
	return keys, nil
}

// MachineIDs returns the ids of machines available for production.
func MachineIDs(ctx context.Context, q db.Querier) ([]string, error) {
	return stringColumn(ctx, q, `
        SELECT machine_id FROM dim_machine
        WHERE status = 'ACTIVE'
        ORDER BY machine_id
    `, "machine")
}

// ProductIDs returns all product ids.
func ProductIDs(ctx context.Context, q db.Querier) ([]string, error) {
	return stringColumn(ctx, q, `
        SELECT product_id FROM dim_product
        ORDER BY product_id
    `, "product")
}

func stringColumn(ctx context.Context, q db.Querier, sql, dim string) ([]string, error) {
	rows, err := q.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s dimension: %w", dim, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan %s dimension: %w", dim, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
