package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Number is a JSON field that accepts a number or a string holding one.
// HTML form front ends post numeric inputs as strings. The zero value,
// null and "" all mean the field was omitted.
type Number struct {
	raw string
	set bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = Number{}
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		*n = Number{raw: s, set: s != ""}
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return fmt.Errorf("expected a number: %w", err)
	}
	*n = Number{raw: num.String(), set: true}
	return nil
}

// IsSet reports whether a value was supplied.
func (n Number) IsSet() bool {
	return n.set
}

// Int returns the value as an int, or nil when omitted.
func (n Number) Int() (*int, error) {
	if !n.set {
		return nil, nil
	}
	v, err := strconv.ParseInt(n.raw, 10, strconv.IntSize)
	if err != nil {
		return nil, fmt.Errorf("%q is not an integer", n.raw)
	}
	i := int(v)
	return &i, nil
}

// Int64 returns the value as an int64, or nil when omitted.
func (n Number) Int64() (*int64, error) {
	if !n.set {
		return nil, nil
	}
	v, err := strconv.ParseInt(n.raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not an integer", n.raw)
	}
	return &v, nil
}

// Float64 returns the value as a finite float64, or nil when omitted.
func (n Number) Float64() (*float64, error) {
	if !n.set {
		return nil, nil
	}
	v, err := strconv.ParseFloat(n.raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%q is not a number", n.raw)
	}
	return &v, nil
}
