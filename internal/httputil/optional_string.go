package httputil

import (
	"bytes"
	"encoding/json"
)

// OptionalString tracks presence and value of a nullable JSON field:
//   - Present=false: field absent from JSON
//   - Present=true, Value=nil: field is JSON null
//   - Present=true, Value=&"x": field has a value
//
// Move requests use it so that "folderId": null (move to root) can be told
// apart from a body that forgot the field.
type OptionalString struct {
	Present bool
	Value   *string
}

// UnmarshalJSON implements json.Unmarshaler.
// When this method is called, the field was present in the JSON.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Present = true

	if string(bytes.TrimSpace(data)) == "null" {
		o.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// Normalized returns the value with "" treated as null
func (o OptionalString) Normalized() *string {
	if o.Value == nil || *o.Value == "" {
		return nil
	}
	return o.Value
}
