// SPDX-License-Identifier: AGPL-3.0-or-later

// Package spec turns loosely formatted prose describing named procedures into
// structured records.
package spec

import "slices"

// Record is one extracted function specification.
// Optional fields are never absent, only empty.
type Record struct {
	Name       string   `json:"name" yaml:"name"`
	Purpose    string   `json:"purpose" yaml:"purpose"`
	Inputs     []string `json:"inputs" yaml:"inputs"`
	Output     string   `json:"output" yaml:"output"`
	Logic      []string `json:"logic" yaml:"logic"`
	Validation string   `json:"validation" yaml:"validation"`
}

// NewRecord returns a record named name with every optional field set to its
// empty value.
func NewRecord(name string) Record {
	return Record{
		Name:   name,
		Inputs: []string{},
		Logic:  []string{},
	}
}

// Normalized returns a copy of r whose sequences are non-nil.
// The copy shares no backing arrays with r.
func (r Record) Normalized() Record {
	out := r
	out.Inputs = cloneOrEmpty(r.Inputs)
	out.Logic = cloneOrEmpty(r.Logic)
	return out
}

// Equal reports whether r and other hold the same values.
// Sequences are compared element-wise; nil and empty compare equal.
func (r Record) Equal(other Record) bool {
	return r.Name == other.Name &&
		r.Purpose == other.Purpose &&
		r.Output == other.Output &&
		r.Validation == other.Validation &&
		slices.Equal(r.Inputs, other.Inputs) &&
		slices.Equal(r.Logic, other.Logic)
}

// IsEmpty reports whether only the name is set.
func (r Record) IsEmpty() bool {
	return r.Purpose == "" && r.Output == "" && r.Validation == "" &&
		len(r.Inputs) == 0 && len(r.Logic) == 0
}

func cloneOrEmpty(in []string) []string {
	if len(in) == 0 {
		return []string{}
	}
	return slices.Clone(in)
}
