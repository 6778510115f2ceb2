package service

import (
	"encoding/json"
	"fmt"
)

// flexNumber accepts a JSON number or string and keeps the raw text.
// The billing store does the actual parsing so a bad value ("abc") is
// rejected with the proper validation error rather than a decode error.
type flexNumber string

func (f *flexNumber) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexNumber(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexNumber(n.String())
		return nil
	}
	return fmt.Errorf("expected number or string, got %s", data)
}
