package filter

import "penguindash/internal/dataset"

// View is a filtered, order-preserving subset of the dataset
type View = dataset.View

// Apply derives the rows of ds selected by st. With filtering disabled the
// whole dataset is returned. Apply has no side effects.
func Apply(ds *dataset.Dataset, st State) View {
	return Refine(ds.View(), st)
}

// Refine applies st to an existing view
func Refine(v View, st State) View {
	preds := st.Predicates()
	if len(preds) == 0 {
		return v
	}
	return v.Select(func(r dataset.Record) bool {
		for _, p := range preds {
			if !p.Test(r) {
				return false
			}
		}
		return true
	})
}
