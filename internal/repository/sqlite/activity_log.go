package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/creamcroissant/podwatch/internal/activity"
	"github.com/creamcroissant/podwatch/internal/repository"
)

type activityLogRepo struct {
	db *sql.DB
}

func (r *activityLogRepo) Insert(ctx context.Context, row *repository.ActivityRow) error {
	const stmt = `INSERT INTO activity_log(type, pubkey, address, location, payload, timestamp)
                  VALUES(?, ?, ?, ?, ?, ?)`
	payload, err := encodePayload(row.Payload)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, stmt, string(row.Type), row.Pubkey, row.Address, row.Location, payload, row.Timestamp)
	return err
}

func (r *activityLogRepo) InsertBatch(ctx context.Context, rows []*repository.ActivityRow) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin activity batch: %w", err)
	}
	defer tx.Rollback()

	const stmt = `INSERT INTO activity_log(type, pubkey, address, location, payload, timestamp)
                  VALUES(?, ?, ?, ?, ?, ?)`
	prepared, err := tx.PrepareContext(ctx, stmt)
	if err != nil {
		return fmt.Errorf("prepare activity batch: %w", err)
	}
	defer prepared.Close()

	for _, row := range rows {
		payload, err := encodePayload(row.Payload)
		if err != nil {
			return err
		}
		if _, err := prepared.ExecContext(ctx, string(row.Type), row.Pubkey, row.Address, row.Location, payload, row.Timestamp); err != nil {
			return fmt.Errorf("insert activity for %s: %w", row.Pubkey, err)
		}
	}
	return tx.Commit()
}

func (r *activityLogRepo) ListRecent(ctx context.Context, limit int) ([]*repository.ActivityRow, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	const query = `SELECT id, type, pubkey, address, location, payload, timestamp
                   FROM activity_log ORDER BY timestamp DESC, id DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*repository.ActivityRow
	for rows.Next() {
		var row repository.ActivityRow
		var eventType string
		var payload sql.NullString
		if err := rows.Scan(&row.ID, &eventType, &row.Pubkey, &row.Address, &row.Location, &payload, &row.Timestamp); err != nil {
			return nil, err
		}
		row.Type = activity.EventType(eventType)
		decoded, err := decodePayload(payload)
		if err != nil {
			return nil, err
		}
		row.Payload = decoded
		list = append(list, &row)
	}
	return list, rows.Err()
}

func (r *activityLogRepo) DeleteOlderThan(ctx context.Context, cutoffUnixMilli int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM activity_log WHERE timestamp < ?`, cutoffUnixMilli)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
