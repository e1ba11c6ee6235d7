package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Schedule is one weekly meeting slot of a class.
type Schedule struct {
	Day       string `json:"day" validate:"required,notblank"`
	StartTime string `json:"startTime" validate:"required,notblank"`
	EndTime   string `json:"endTime" validate:"required,notblank"`
}

// Schedules is stored as a JSONB array on the classes table.
type Schedules []Schedule

// Value implements driver.Valuer.
func (s Schedules) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	raw, err := json.Marshal([]Schedule(s))
	if err != nil {
		return nil, fmt.Errorf("marshal schedules: %w", err)
	}
	return raw, nil
}

// Scan implements sql.Scanner.
func (s *Schedules) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = Schedules{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan schedules: unsupported type %T", src)
	}
	out := Schedules{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return fmt.Errorf("scan schedules: %w", err)
		}
	}
	*s = out
	return nil
}
