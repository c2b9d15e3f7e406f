package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// Date is a calendar day. It is stored as a SQL date and written to JSON as
// YYYY-MM-DD; decoding also accepts RFC 3339 timestamps.
type Date time.Time

// NewDate truncates t to its calendar day at UTC midnight.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func (d Date) Time() time.Time {
	return time.Time(d)
}

func (d Date) String() string {
	return time.Time(d).Format(time.DateOnly)
}

func (d *Date) Scan(value interface{}) error {
	var day datatypes.Date
	if err := day.Scan(value); err != nil {
		return err
	}
	*d = NewDate(time.Time(day))
	return nil
}

func (d Date) Value() (driver.Value, error) {
	return datatypes.Date(d).Value()
}

func (Date) GormDataType() string {
	return "date"
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, s); err != nil {
			return fmt.Errorf("date %q: want YYYY-MM-DD or an RFC 3339 timestamp", s)
		}
	}
	*d = NewDate(t.UTC())
	return nil
}
