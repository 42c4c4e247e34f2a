package mysql

import (
	"database/sql"
	"encoding/json"
	"strings"
)

// nullString maps an optional field onto a nullable column.
func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// jsonOrEmptyArray keeps the JSON column valid when the payload is blank.
func jsonOrEmptyArray(raw json.RawMessage) []byte {
	if strings.TrimSpace(string(raw)) == "" {
		return []byte("[]")
	}
	return raw
}
