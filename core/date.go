package core

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
)

// Date is a calendar day. It is stored like datatypes.Date and travels as YYYY-MM-DD in JSON.
type Date datatypes.Date

func (d *Date) Scan(value interface{}) error {
	return (*datatypes.Date)(d).Scan(value)
}

func (d Date) Value() (driver.Value, error) {
	return datatypes.Date(d).Value()
}

func (d Date) String() string {
	return time.Time(d).Format(time.DateOnly)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts YYYY-MM-DD as well as RFC3339 timestamps; null leaves d untouched.
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(err, "decoding date")
	}
	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = Date(t)
	return nil
}

// ParseDate parses YYYY-MM-DD, falling back on RFC3339.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, errors.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}
