package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// DateLayout is the calendar date format used on the wire.
const DateLayout = "2006-01-02"

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	DateLayout,
}

var nullLiteral = []byte("null")

func isNull(raw []byte) bool {
	return bytes.Equal(bytes.TrimSpace(raw), nullLiteral)
}

// Date is a calendar day without a time component, e.g. "2024-01-01".
type Date time.Time

// NewDate builds a Date in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// Time returns the underlying time value.
func (d Date) Time() time.Time { return time.Time(d) }

func (d Date) String() string { return time.Time(d).Format(DateLayout) }

// MarshalJSON renders the date as YYYY-MM-DD.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts YYYY-MM-DD strings. null leaves the value untouched.
func (d *Date) UnmarshalJSON(raw []byte) error {
	if isNull(raw) {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.New("must be a date string (YYYY-MM-DD)")
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	*d = Date(t)
	return nil
}

// MarshalBSONValue stores the date as a BSON datetime.
func (d Date) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(time.Time(d))
}

// DateTime is an instant. Values without a zone are read as UTC.
type DateTime time.Time

// Time returns the underlying time value.
func (t DateTime) Time() time.Time { return time.Time(t) }

func (t DateTime) String() string { return time.Time(t).Format(time.RFC3339Nano) }

// MarshalJSON renders the instant in RFC 3339.
func (t DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts RFC 3339, ISO 8601 without a zone and bare dates.
func (t *DateTime) UnmarshalJSON(raw []byte) error {
	if isNull(raw) {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.New("must be a datetime string")
	}
	for _, layout := range dateTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = DateTime(parsed)
			return nil
		}
	}
	return fmt.Errorf("invalid datetime %q", s)
}

// MarshalBSONValue stores the instant as a BSON datetime.
func (t DateTime) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(time.Time(t))
}

// TemperatureGrid is a 2D grid of temperature readings in Celsius. Rows may have
// different lengths.
type TemperatureGrid [][]float64

// UnmarshalJSON rejects anything that is not a list of lists of numbers.
func (g *TemperatureGrid) UnmarshalJSON(raw []byte) error {
	if isNull(raw) {
		return nil
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return errors.New("temperaturas must be a 2D list")
	}

	grid := make(TemperatureGrid, 0, len(rows))
	for i, rawRow := range rows {
		var cells []json.RawMessage
		if isNull(rawRow) || json.Unmarshal(rawRow, &cells) != nil {
			return fmt.Errorf("row %d must be a list", i)
		}

		row := make([]float64, 0, len(cells))
		for j, cell := range cells {
			var v float64
			if isNull(cell) || json.Unmarshal(cell, &v) != nil {
				return fmt.Errorf("all temperature values must be numbers (row %d, column %d)", i, j)
			}
			row = append(row, v)
		}
		grid = append(grid, row)
	}

	*g = grid
	return nil
}

// Bounds returns the coldest and hottest cell. ok is false for a grid without cells.
func (g TemperatureGrid) Bounds() (lowest, highest float64, ok bool) {
	for _, row := range g {
		for _, v := range row {
			if !ok {
				lowest, highest, ok = v, v, true
				continue
			}
			if v < lowest {
				lowest = v
			}
			if v > highest {
				highest = v
			}
		}
	}
	return lowest, highest, ok
}
