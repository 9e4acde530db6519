package editor

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
)

// ParseCount reads a leading integer the way form inputs are coerced:
// optional surrounding space and sign, then digits up to the first non-digit.
// Anything without a leading digit is 0.
func ParseCount(s string) int {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n := 0
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		d := int(s[i] - '0')
		if n > (math.MaxInt-d)/10 {
			n = math.MaxInt
			break
		}
		n = n*10 + d
	}
	if neg {
		return -n
	}
	return n
}

// Input is a numeric form value that may arrive as a JSON number or string.
type Input string

func (in *Input) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*in = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*in = Input(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*in = Input(n.String())
	return nil
}

// Int is the sanitized value of in.
func (in Input) Int() int {
	return ParseCount(string(in))
}
