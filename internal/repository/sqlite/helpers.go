package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/creamcroissant/podwatch/internal/activity"
)

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func encodePayload(p *activity.Payload) (sql.NullString, error) {
	if p == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode payload: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func decodePayload(v sql.NullString) (*activity.Payload, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	var p activity.Payload
	if err := json.Unmarshal([]byte(v.String), &p); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return &p, nil
}
