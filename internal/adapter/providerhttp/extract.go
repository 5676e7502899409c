package providerhttp

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Number decodes a JSON number that some providers send as a string
// ("37.7793"). Null, empty, and unparsable values decode as absent.
type Number struct {
	Value float64
	Valid bool
}

func (n *Number) UnmarshalJSON(b []byte) error {
	*n = Number{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		b = []byte(strings.TrimSpace(s))
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return nil
	}
	*n = Number{Value: v, Valid: true}
	return nil
}

// Float returns the value, or nil when absent.
func (n Number) Float() *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

// PositiveFloat returns the value when it is > 0.
func (n Number) PositiveFloat() *float64 {
	if !n.Valid || n.Value <= 0 {
		return nil
	}
	v := n.Value
	return &v
}

// PositiveInt returns the value rounded to the nearest integer when it is > 0.
func (n Number) PositiveInt() *int {
	if !n.Valid || n.Value <= 0 {
		return nil
	}
	v := int(n.Value + 0.5)
	return &v
}

// Text returns a trimmed copy of s, or nil when blank.
func Text(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
