package sqlutil

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sqlc-dev/pqtype"
)

// Helper functions for converting between Go types and sql/pq null types

// ToSqlTime converts a Go time pointer to sql.NullTime
func ToSqlTime(val *time.Time) sql.NullTime {
	if val == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *val, Valid: true}
}

// FromSqlTime converts sql.NullTime to Go time pointer
func FromSqlTime(val sql.NullTime) *time.Time {
	if !val.Valid {
		return nil
	}
	return &val.Time
}

// ToSqlString converts a Go string to sql.NullString, treating "" as NULL
func ToSqlString(val string) sql.NullString {
	if val == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: val, Valid: true}
}

// FromSqlString converts sql.NullString to Go string, NULL as ""
func FromSqlString(val sql.NullString) string {
	if !val.Valid {
		return ""
	}
	return val.String
}

// ToNullRaw marshals v into a nullable JSONB column value. A nil v becomes
// SQL NULL.
func ToNullRaw(v any) (pqtype.NullRawMessage, error) {
	if v == nil {
		return pqtype.NullRawMessage{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return pqtype.NullRawMessage{}, fmt.Errorf("marshal jsonb value: %w", err)
	}
	return pqtype.NullRawMessage{RawMessage: data, Valid: true}, nil
}

// FromNullRaw unmarshals a nullable JSONB column into dst, leaving dst
// untouched on NULL.
func FromNullRaw(raw pqtype.NullRawMessage, dst any) error {
	if !raw.Valid {
		return nil
	}
	if err := json.Unmarshal(raw.RawMessage, dst); err != nil {
		return fmt.Errorf("unmarshal jsonb value: %w", err)
	}
	return nil
}
