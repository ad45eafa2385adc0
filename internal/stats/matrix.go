package stats

import "sort"

// Row is an ordered word -> weight (or category -> weight) mapping.
type Row struct {
	order   []string
	weights map[string]float64
}

func newRow() *Row {
	return &Row{weights: make(map[string]float64)}
}

func (r *Row) add(key string, v float64) {
	if _, ok := r.weights[key]; !ok {
		r.order = append(r.order, key)
	}
	r.weights[key] += v
}

// Keys returns the keys in first-seen order.
func (r *Row) Keys() []string {
	if r == nil {
		return nil
	}
	return r.order
}

// Get returns the accumulated weight of key.
func (r *Row) Get(key string) float64 {
	if r == nil {
		return 0
	}
	return r.weights[key]
}

// Len returns the number of keys.
func (r *Row) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}

// Matrix is an ordered two-level mapping outer -> inner -> weight.
type Matrix struct {
	order []string
	rows  map[string]*Row
}

// NewMatrix creates an empty matrix.
func NewMatrix() *Matrix {
	return &Matrix{rows: make(map[string]*Row)}
}

// Add accumulates v at (outer, inner).
func (m *Matrix) Add(outer, inner string, v float64) {
	row, ok := m.rows[outer]
	if !ok {
		row = newRow()
		m.rows[outer] = row
		m.order = append(m.order, outer)
	}
	row.add(inner, v)
}

// Row returns the row of outer, nil when absent.
func (m *Matrix) Row(outer string) *Row {
	return m.rows[outer]
}

// Get returns the weight at (outer, inner).
func (m *Matrix) Get(outer, inner string) float64 {
	return m.rows[outer].Get(inner)
}

// Keys returns the outer keys in first-seen order.
func (m *Matrix) Keys() []string {
	return m.order
}

// SortedKeys returns the outer keys sorted.
func (m *Matrix) SortedKeys() []string {
	keys := append([]string(nil), m.order...)
	sort.Strings(keys)
	return keys
}

// Len returns the number of outer keys.
func (m *Matrix) Len() int {
	return len(m.order)
}

// merge adds every cell of other into m, appending unseen keys in other's order.
func (m *Matrix) merge(other *Matrix) {
	for _, outer := range other.order {
		row := other.rows[outer]
		for _, inner := range row.order {
			m.Add(outer, inner, row.weights[inner])
		}
	}
}
