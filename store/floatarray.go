package store

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/teranos/xraydb/errors"
)

// FloatArray is an ordered float sequence stored as JSON text, e.g. "[1.5,2,3.25]".
// The encoding round-trips every finite float64 exactly.
type FloatArray []float64

// Value implements driver.Valuer.
func (a FloatArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]float64(a))
	if err != nil {
		return nil, errors.Wrap(err, "encode float array")
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (a *FloatArray) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*a = nil
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return errors.Newf("cannot scan %T into FloatArray", src)
	}

	var out []float64
	if err := json.Unmarshal(data, &out); err != nil {
		return errors.Wrap(err, "decode float array")
	}
	*a = out
	return nil
}
