package model

import (
	"github.com/goccy/go-json"

	"github.com/okulov/timeledger/internal/timeutil"
)

// Number is a tolerant numeric field. Imported and legacy documents carry
// amounts both as JSON numbers and as numeric strings ("8.00"); anything
// unparseable, NaN or infinite decodes as zero instead of failing the
// containing record.
type Number float64

// UnmarshalJSON implements tolerant decoding.
func (n *Number) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		*n = 0
		return nil
	}
	*n = Number(timeutil.CoerceFloat(raw))
	return nil
}

// Float returns the value as a plain float64.
func (n Number) Float() float64 {
	return float64(n)
}

// NumberPtr returns a pointer to a Number with the given value.
func NumberPtr(v float64) *Number {
	n := Number(v)
	return &n
}
