package store

import (
	"database/sql"
	"encoding/json"
)

// NullString is a wrapper around sql.NullString for Swagger compatibility
type NullString struct {
	Value string `json:"value"` // The actual string value
	Valid bool   `json:"valid"` // Indicates if the value is non-null
}

// MarshalJSON implements the json.Marshaler interface
func (ns NullString) MarshalJSON() ([]byte, error) {
	if !ns.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(ns.Value)
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (ns *NullString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		ns.Valid = false
		ns.Value = ""
		return nil
	}
	ns.Valid = true
	return json.Unmarshal(data, &ns.Value)
}

// Convert from sql.NullString
func NewNullString(ns sql.NullString) NullString {
	return NullString{
		Value: ns.String,
		Valid: ns.Valid,
	}
}

// NullFloat64 is a wrapper around sql.NullFloat64 for Swagger compatibility
type NullFloat64 struct {
	Value float64 `json:"value"` // The actual float value
	Valid bool    `json:"valid"` // Indicates if the value is non-null
}

// MarshalJSON implements the json.Marshaler interface
func (nf NullFloat64) MarshalJSON() ([]byte, error) {
	if !nf.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(nf.Value)
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (nf *NullFloat64) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		nf.Valid = false
		nf.Value = 0
		return nil
	}
	nf.Valid = true
	return json.Unmarshal(data, &nf.Value)
}

// Convert from sql.NullFloat64
func NewNullFloat64(nf sql.NullFloat64) NullFloat64 {
	return NullFloat64{
		Value: nf.Float64,
		Valid: nf.Valid,
	}
}
