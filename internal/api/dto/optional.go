package dto

import "encoding/json"

// OptionalInt64 distinguishes an absent field from an explicit null in PATCH
// bodies. Present is true whenever the key appeared in the payload; Value is
// nil for an explicit null.
type OptionalInt64 struct {
	Present bool
	Value   *int64
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OptionalInt64) UnmarshalJSON(data []byte) error {
	o.Present = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}
