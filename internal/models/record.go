package models

import (
	"encoding/json"
	"fmt"
)

// Record is a schemaless snapshot of an entity as it is stored locally,
// queued for replay or exchanged with the remote system of record.
// Keys are column names (snake_case), values are JSON-compatible.
type Record map[string]any

// ID returns the record identifier or "" when it has not been assigned yet.
func (r Record) ID() string {
	if r == nil {
		return ""
	}
	id, _ := r[FieldID].(string)
	return id
}

// SetID sets the record identifier.
func (r Record) SetID(id string) {
	r[FieldID] = id
}

// String returns a string field, "" when absent or not a string.
func (r Record) String(field string) string {
	v, _ := r[field].(string)
	return v
}

// Clone returns a shallow copy of the record.
// Values are JSON scalars, so a shallow copy is enough to detach the snapshot.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Project returns a copy containing only the given fields.
func (r Record) Project(fields FieldSet) Record {
	out := make(Record, len(fields))
	for k, v := range r {
		if fields.Has(k) {
			out[k] = v
		}
	}
	return out
}

// Without returns a copy with the given fields removed.
func (r Record) Without(fields FieldSet) Record {
	out := make(Record, len(r))
	for k, v := range r {
		if !fields.Has(k) {
			out[k] = v
		}
	}
	return out
}

// UnknownFields returns the keys that are not part of the field set.
func (r Record) UnknownFields(fields FieldSet) []string {
	var unknown []string
	for k := range r {
		if !fields.Has(k) {
			unknown = append(unknown, k)
		}
	}
	return unknown
}

// RecordFromJSON decodes a JSON object into a Record.
func RecordFromJSON(data []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("record must be a JSON object")
	}
	return rec, nil
}

// FieldSet is an immutable set of column names.
type FieldSet map[string]struct{}

// NewFieldSet builds a FieldSet from column names.
func NewFieldSet(fields ...string) FieldSet {
	set := make(FieldSet, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// Has reports whether the field is part of the set.
func (s FieldSet) Has(field string) bool {
	_, ok := s[field]
	return ok
}
