package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList is a []string persisted as a JSON array column.
type StringList []string

// Value implements driver.Valuer. A nil list is stored as an empty JSON array
// so the column is never NULL.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]string(l))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal string list: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner for JSON array columns.
func (l *StringList) Scan(src interface{}) error {
	if src == nil {
		*l = StringList{}
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}

	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("failed to unmarshal string list: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*l = out
	return nil
}

// IntList is a []int persisted as a JSON array column.
type IntList []int

// Value implements driver.Valuer. A nil list is stored as an empty JSON array
// so the column is never NULL.
func (l IntList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]int(l))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal int list: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner for JSON array columns.
func (l *IntList) Scan(src interface{}) error {
	if src == nil {
		*l = IntList{}
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into IntList", src)
	}

	var out []int
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("failed to unmarshal int list: %w", err)
	}
	if out == nil {
		out = []int{}
	}
	*l = out
	return nil
}
