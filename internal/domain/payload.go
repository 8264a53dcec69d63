package domain

import (
	"database/sql/driver"
	"fmt"
)

var emptyPayload = []byte("{}")

// JSONPayload is a raw JSONB column value. An empty payload is written as {}
// and a NULL column reads back as empty, so rows written before parsed_data
// became NOT NULL still scan.
type JSONPayload []byte

// Scan implements sql.Scanner.
func (p *JSONPayload) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*p = nil
	case []byte:
		*p = append(JSONPayload(nil), v...)
	case string:
		*p = JSONPayload(v)
	default:
		return fmt.Errorf("JSONPayload.Scan: unsupported type %T", src)
	}
	return nil
}

// Value implements driver.Valuer.
func (p JSONPayload) Value() (driver.Value, error) {
	if len(p) == 0 {
		return emptyPayload, nil
	}
	return []byte(p), nil
}

// IsEmpty reports whether the payload carries no decoded content.
func (p JSONPayload) IsEmpty() bool {
	return len(p) == 0 || string(p) == "{}"
}
