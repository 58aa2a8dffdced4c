package filter

import "penguindash/internal/dataset"

// Predicate is one active row condition
type Predicate struct {
	Name string
	Test func(dataset.Record) bool
}

// Predicates lists the conditions a row must satisfy. It is empty when
// filtering is disabled.
func (s State) Predicates() []Predicate {
	if !s.Filter {
		return nil
	}

	species := setOf(s.Species)
	sex := setOf(s.Sex)
	island := setOf(s.Island)

	return []Predicate{
		{Name: "species", Test: func(r dataset.Record) bool { return member(species, r.Species) }},
		{Name: "sex", Test: func(r dataset.Record) bool { return member(sex, r.Sex) }},
		{Name: "island", Test: func(r dataset.Record) bool { return member(island, r.Island) }},
		{Name: "mass", Test: func(r dataset.Record) bool { return s.Mass.Contains(r.BodyMass) }},
		{Name: "bill_depth", Test: func(r dataset.Record) bool { return s.BillDepth.Contains(r.BillDepth) }},
		{Name: "bill_length", Test: func(r dataset.Record) bool { return s.BillLength.Contains(r.BillLength) }},
	}
}

// Matches reports whether r satisfies every active predicate
func (s State) Matches(r dataset.Record) bool {
	for _, p := range s.Predicates() {
		if !p.Test(r) {
			return false
		}
	}
	return true
}

func setOf(values []string) map[string]struct{} {
	m := make(map[string]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return m
}

// member treats a missing value as never included
func member(set map[string]struct{}, v string) bool {
	if v == "" {
		return false
	}
	_, ok := set[v]
	return ok
}
