// Package project implements the Row Projector: it maps one raw database
// row (already coerced into internal/coerce.Value) to an ordered sequence
// of (target, value) pairs per the job's column mapping, per spec.md §4.2.
package project

import "github.com/23A91A0565/polystreamx/internal/coerce"

// Column is one projected (target name, value) pair.
type Column struct {
	Target string
	Value  coerce.Value
}

// Row is one projected database row, columns in mapping order.
type Row []Column

// Project builds a Row from coerced values keyed by source attribute, in
// the order mapping lists. Request validation (model.ExportRequest.Validate)
// guarantees every source in mapping was checked against the allow-list before
// the query ran, so this function never rejects — it is total, per
// spec.md §4.2.
func Project(values map[string]coerce.Value, mapping []Mapping) Row {
	row := make(Row, 0, len(mapping))
	for _, m := range mapping {
		row = append(row, Column{Target: m.Target, Value: values[m.Source]})
	}
	return row
}

// Mapping is the minimal (source, target) pair the projector needs; it
// mirrors model.ColumnMapping without importing the model package, keeping
// this package a pure, dependency-light transform.
type Mapping struct {
	Source string
	Target string
}
