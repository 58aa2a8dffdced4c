package dataset

// Dataset is the immutable penguin table. It has accessors only; the rows
// slice is never handed out.
type Dataset struct {
	rows   []Record
	source string
}

// New builds a Dataset from rows. The slice is copied.
func New(rows []Record) *Dataset {
	return &Dataset{rows: append([]Record(nil), rows...)}
}

// Len returns the number of rows
func (d *Dataset) Len() int {
	return len(d.rows)
}

// At returns row i
func (d *Dataset) At(i int) Record {
	return d.rows[i]
}

// Source is the path the dataset was loaded from, if any
func (d *Dataset) Source() string {
	return d.source
}

// Records returns a copy of all rows in file order
func (d *Dataset) Records() []Record {
	return append([]Record(nil), d.rows...)
}

// View returns a view over every row
func (d *Dataset) View() View {
	idx := make([]int, len(d.rows))
	for i := range idx {
		idx[i] = i
	}
	return View{src: d, idx: idx}
}

// View is an ordered subsequence of a Dataset's rows, identified by index.
// The zero View is empty.
type View struct {
	src *Dataset
	idx []int
}

// Len returns the number of rows in the view
func (v View) Len() int {
	return len(v.idx)
}

// At returns the i-th row of the view
func (v View) At(i int) Record {
	return v.src.rows[v.idx[i]]
}

// Indices returns the dataset row indices in view order
func (v View) Indices() []int {
	return append([]int(nil), v.idx...)
}

// Records copies the rows of the view
func (v View) Records() []Record {
	out := make([]Record, len(v.idx))
	for i, j := range v.idx {
		out[i] = v.src.rows[j]
	}
	return out
}

// Select keeps the rows for which keep returns true, preserving order
func (v View) Select(keep func(Record) bool) View {
	idx := make([]int, 0, len(v.idx))
	for _, j := range v.idx {
		if keep(v.src.rows[j]) {
			idx = append(idx, j)
		}
	}
	return View{src: v.src, idx: idx}
}

// Values returns the present values of a numeric column, in view order
func (v View) Values(column string) []float64 {
	out := make([]float64, 0, len(v.idx))
	for _, j := range v.idx {
		if m, ok := v.src.rows[j].Numeric(column); ok && m.Valid {
			out = append(out, m.Value)
		}
	}
	return out
}

// Equal reports whether both views select the same rows in the same order
func (v View) Equal(o View) bool {
	if len(v.idx) != len(o.idx) {
		return false
	}
	for i := range v.idx {
		if v.idx[i] != o.idx[i] {
			return false
		}
	}
	return true
}
