package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/creamcroissant/podwatch/internal/repository"
)

type nodeStatusRepo struct {
	db *sql.DB
}

const nodeStatusColumns = `pubkey, address, city, country, packets_received, packets_sent, active_streams, credits, updated_at`

func (r *nodeStatusRepo) Upsert(ctx context.Context, status *repository.NodeStatus) error {
	const stmt = `INSERT INTO node_status(pubkey, address, city, country, packets_received, packets_sent, active_streams, credits, updated_at)
                  VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
                  ON CONFLICT(pubkey) DO UPDATE SET
                    address = excluded.address,
                    city = excluded.city,
                    country = excluded.country,
                    packets_received = excluded.packets_received,
                    packets_sent = excluded.packets_sent,
                    active_streams = excluded.active_streams,
                    credits = excluded.credits,
                    updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, stmt,
		status.Pubkey, status.Address, status.City, status.Country,
		int64(status.PacketsReceived), int64(status.PacketsSent), int64(status.ActiveStreams),
		status.Credits, status.UpdatedAt)
	return err
}

func (r *nodeStatusRepo) UpsertBatch(ctx context.Context, statuses []*repository.NodeStatus) error {
	if len(statuses) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert batch: %w", err)
	}
	defer tx.Rollback()

	const stmt = `INSERT INTO node_status(pubkey, address, city, country, packets_received, packets_sent, active_streams, credits, updated_at)
                  VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
                  ON CONFLICT(pubkey) DO UPDATE SET
                    address = excluded.address,
                    city = excluded.city,
                    country = excluded.country,
                    packets_received = excluded.packets_received,
                    packets_sent = excluded.packets_sent,
                    active_streams = excluded.active_streams,
                    credits = excluded.credits,
                    updated_at = excluded.updated_at`
	prepared, err := tx.PrepareContext(ctx, stmt)
	if err != nil {
		return fmt.Errorf("prepare upsert batch: %w", err)
	}
	defer prepared.Close()

	for _, status := range statuses {
		if _, err := prepared.ExecContext(ctx,
			status.Pubkey, status.Address, status.City, status.Country,
			int64(status.PacketsReceived), int64(status.PacketsSent), int64(status.ActiveStreams),
			status.Credits, status.UpdatedAt); err != nil {
			return fmt.Errorf("upsert %s: %w", status.Pubkey, err)
		}
	}
	return tx.Commit()
}

func (r *nodeStatusRepo) FindByPubkey(ctx context.Context, pubkey string) (*repository.NodeStatus, error) {
	query := `SELECT ` + nodeStatusColumns + ` FROM node_status WHERE pubkey = ?`
	row := r.db.QueryRowContext(ctx, query, pubkey)
	status, err := scanNodeStatus(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return status, nil
}

func (r *nodeStatusRepo) List(ctx context.Context, limit, offset int) ([]*repository.NodeStatus, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT ` + nodeStatusColumns + ` FROM node_status ORDER BY credits DESC, pubkey LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*repository.NodeStatus
	for rows.Next() {
		status, err := scanNodeStatus(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, status)
	}
	return list, rows.Err()
}

func (r *nodeStatusRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM node_status`).Scan(&count)
	return count, err
}

func scanNodeStatus(row scanner) (*repository.NodeStatus, error) {
	var s repository.NodeStatus
	var rx, tx, streams int64
	if err := row.Scan(&s.Pubkey, &s.Address, &s.City, &s.Country, &rx, &tx, &streams, &s.Credits, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.PacketsReceived = uint64(rx)
	s.PacketsSent = uint64(tx)
	s.ActiveStreams = uint32(streams)
	return &s, nil
}
