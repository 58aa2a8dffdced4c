package filter

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"penguindash/internal/dataset"
	"penguindash/internal/shared/testutil"
)

func threeRows() *dataset.Dataset {
	return dataset.New([]dataset.Record{
		{Species: "Adelie", Island: "Biscoe", BillLength: dataset.Some(40), BillDepth: dataset.Some(18), BodyMass: dataset.Some(3000), Sex: "Male"},
		{Species: "Gentoo", Island: "Dream", BillLength: dataset.Some(50), BillDepth: dataset.Some(15), BodyMass: dataset.Some(5000), Sex: "Female"},
		{Species: "Chinstrap", Island: "Torgersen", BillLength: dataset.Some(45), BillDepth: dataset.Some(17), BodyMass: dataset.Some(3700), Sex: "Male"},
	})
}

func fixture(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.Read(strings.NewReader(testutil.PenguinCSV()))
	require.NoError(t, err)
	return ds
}

// randomState draws states from the full control space, including
// filtering disabled and empty included sets.
func randomState(rng *rand.Rand) State {
	st := DefaultState()
	st.Filter = rng.Intn(4) != 0
	st.Plot = []string{PlotScatter, PlotHistogram}[rng.Intn(2)]
	st.Bins = MinBins + rng.Intn(MaxBins-MinBins+1)
	st.Species = subset(rng, dataset.Species)
	st.Island = subset(rng, dataset.Islands)
	st.Sex = subset(rng, dataset.Sexes)
	st.Mass = randomRange(rng, MassBounds)
	st.BillDepth = randomRange(rng, BillDepthBounds)
	st.BillLength = randomRange(rng, BillLengthBounds)
	return st
}

func subset(rng *rand.Rand, levels []string) []string {
	var out []string
	for _, l := range levels {
		if rng.Intn(3) != 0 {
			out = append(out, l)
		}
	}
	return out
}

func randomRange(rng *rand.Rand, bounds Range) Range {
	a := bounds.Low + rng.Float64()*(bounds.High-bounds.Low)
	b := bounds.Low + rng.Float64()*(bounds.High-bounds.Low)
	if a > b {
		a, b = b, a
	}
	return Range{Low: a, High: b}
}

func TestApplyScenarioSpeciesSubset(t *testing.T) {
	ds := threeRows()
	st := DefaultState()
	st.Species = []string{"Adelie", "Gentoo"}

	v := Apply(ds, st)
	assert.Equal(t, []int{0, 1}, v.Indices())
	assert.Equal(t, "Adelie", v.At(0).Species)
	assert.Equal(t, "Gentoo", v.At(1).Species)
}

func TestApplyScenarioEmptyMassRange(t *testing.T) {
	st := DefaultState()
	st.Mass = Range{Low: 3500, High: 4500}

	v := Apply(threeRows(), st)
	// the Chinstrap row at 3700 g lies inside the range
	assert.Equal(t, []int{2}, v.Indices())

	// narrowed to the two rows of the species scenario nothing remains
	st.Species = []string{"Adelie", "Gentoo"}
	v = Apply(threeRows(), st)
	assert.Equal(t, 0, v.Len())
	assert.Empty(t, v.Records())
}

func TestApplyDisabledIsIdentity(t *testing.T) {
	ds := fixture(t)
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		st := randomState(rng)
		st.Filter = false
		assert.True(t, Apply(ds, st).Equal(ds.View()), "state %+v", st)
	}
}

func TestApplyKeptRowsSatisfyEveryPredicate(t *testing.T) {
	ds := fixture(t)
	rng := rand.New(rand.NewSource(11))

	for i := 0; i < 300; i++ {
		st := randomState(rng)
		st.Filter = true
		v := Apply(ds, st)

		kept := make(map[int]bool, v.Len())
		for _, idx := range v.Indices() {
			kept[idx] = true
			for _, p := range st.Predicates() {
				assert.True(t, p.Test(ds.At(idx)), "row %d fails %s", idx, p.Name)
			}
		}

		for idx := 0; idx < ds.Len(); idx++ {
			if kept[idx] {
				continue
			}
			violated := false
			for _, p := range st.Predicates() {
				if !p.Test(ds.At(idx)) {
					violated = true
					break
				}
			}
			assert.True(t, violated, "dropped row %d satisfies every predicate", idx)
		}
	}
}

func TestApplyPreservesOrder(t *testing.T) {
	ds := fixture(t)
	rng := rand.New(rand.NewSource(3))

	for i := 0; i < 100; i++ {
		idx := Apply(ds, randomState(rng)).Indices()
		for j := 1; j < len(idx); j++ {
			assert.Less(t, idx[j-1], idx[j])
		}
	}
}

func TestApplyIdempotent(t *testing.T) {
	ds := fixture(t)
	rng := rand.New(rand.NewSource(19))

	for i := 0; i < 200; i++ {
		st := randomState(rng)
		once := Apply(ds, st)
		assert.True(t, Refine(once, st).Equal(once))
	}
}

func TestApplyMonotonic(t *testing.T) {
	ds := fixture(t)
	rng := rand.New(rand.NewSource(23))

	for i := 0; i < 200; i++ {
		st := randomState(rng)
		st.Filter = true
		base := Apply(ds, st).Len()

		narrowed := st.Clone()
		narrowed.Mass = randomRange(rng, st.Mass)
		narrowed.BillDepth = randomRange(rng, st.BillDepth)
		narrowed.BillLength = randomRange(rng, st.BillLength)
		assert.LessOrEqual(t, Apply(ds, narrowed).Len(), base)

		if len(st.Species) > 0 {
			fewer := st.Clone()
			fewer.Species = fewer.Species[1:]
			assert.LessOrEqual(t, Apply(ds, fewer).Len(), base)
		}
	}
}

func TestApplyMissingValuesNeverMatch(t *testing.T) {
	ds := fixture(t)

	v := Apply(ds, DefaultState())
	for _, r := range v.Records() {
		assert.NotEmpty(t, r.Sex)
		assert.True(t, r.BodyMass.Valid)
		assert.True(t, r.BillLength.Valid)
		assert.True(t, r.BillDepth.Valid)
	}
	// three fixture rows have a missing sex or measurement
	assert.Equal(t, ds.Len()-3, v.Len())
}

func TestApplyInclusiveBounds(t *testing.T) {
	st := DefaultState()
	st.Mass = Range{Low: 3000, High: 3000}

	v := Apply(threeRows(), st)
	assert.Equal(t, []int{0}, v.Indices())
}
