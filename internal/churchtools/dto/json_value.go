package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexInt is an integer that ChurchTools sometimes sends as a string,
// e.g. "bpm": "72". Empty strings and null decode as zero.
type FlexInt int

// UnmarshalJSON accepts a number, a numeric string, an empty string or null.
func (fi *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*fi = 0
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*fi = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("unable to parse number: %s", s)
		}
		*fi = FlexInt(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*fi = FlexInt(f)
	return nil
}

// FlexString is a string that ChurchTools sometimes sends as a number,
// e.g. "ccli": 22025. Null decodes as the empty string.
type FlexString string

// UnmarshalJSON accepts a string, a number or null.
func (fs *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*fs = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*fs = FlexString(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*fs = FlexString(n.String())
	}
	return nil
}
