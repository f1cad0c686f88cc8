package stationmag

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	magnitude "github.com/sixy6e/go-magnitude"
	"github.com/sixy6e/go-magnitude/mdf"
	"github.com/sixy6e/go-magnitude/tltable"
)

type constInterp struct{ v float64 }

func (c constInterp) Interpolate(distAxis, depthAxis []float64, grid [][]float64, distance, depth float64) float64 {
	return c.v
}

func newFixture(t *testing.T) (*mdf.Descriptor, *mdf.Store, *tltable.Store) {
	t.Helper()

	tbl := &tltable.Table{
		DistSamples:  []float64{10, 20},
		DepthSamples: []float64{0, 10},
		Values:       [][]float64{{0.5, 0.5}, {0.5, 0.5}},
	}
	tlStore := tltable.NewSingleTypeStore("TL1", []string{"P"}, tbl)

	dir := t.TempDir()
	path := filepath.Join(dir, "test.mdf")
	contents := `mb TL1 amp_det amp_ev 0 0 100 0.2 0.6 0.3 1

STA1 TL1 0.2 0.05
DFAULT TL1 0.0 0.1
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("os.WriteFile: %v", err)
	}
	mdfStore, err := mdf.LoadMDF(path, nil)
	if err != nil {
		t.Fatalf("LoadMDF: %v", err)
	}

	desc, ok := mdfStore.Get("mb")
	if !ok {
		t.Fatalf("expected a descriptor for mb")
	}

	return desc, mdfStore, tlStore
}

func TestComputeAppliesStationCorrectionAndFallbackModelError(t *testing.T) {
	desc, mdfStore, tlStore := newFixture(t)

	mag, info := Compute(desc, mdfStore, tlStore, constInterp{v: 0.5}, Input{
		Station:  "STA1",
		Phase:    "P",
		Distance: 15,
		EvDepth:  5,
		Amp:      100.0,
		Period:   1.0,
	})

	approxEqual(t, "mag", mag, 2.7, 1e-9)
	approxEqual(t, "ModelError (fallback to SgBase)", info.ModelError, 0.3, 1e-9)
	approxEqual(t, "BulkStaticCorr", info.BulkStaticCorr, 0.2, 1e-9)
	approxEqual(t, "ModelPlusMeasErr", info.ModelPlusMeasErr, math.Sqrt(0.3*0.3+0.05*0.05), 1e-9)
	if info.SrcDpntCorrType != magnitude.NoMagSrcDpntCorr {
		t.Fatalf("SrcDpntCorrType = %v, want NoMagSrcDpntCorr (no TSRegion requested)", info.SrcDpntCorrType)
	}
}

func TestComputeInvalidPhaseReturnsNA(t *testing.T) {
	desc, mdfStore, tlStore := newFixture(t)

	mag, info := Compute(desc, mdfStore, tlStore, constInterp{v: 0.5}, Input{
		Station:  "STA1",
		Phase:    "S",
		Distance: 15,
		EvDepth:  5,
		Amp:      100.0,
		Period:   1.0,
	})

	if !magnitude.IsNaMagnitude(mag) {
		t.Fatalf("mag = %v, want NA_MAGNITUDE for an unregistered phase", mag)
	}
	if info.StationMagnitude != magnitude.NA_MAGNITUDE {
		t.Fatalf("info.StationMagnitude = %v, want NA_MAGNITUDE", info.StationMagnitude)
	}
}

func TestComputeOutOfRangeWithoutExtrapolateReturnsNA(t *testing.T) {
	desc, mdfStore, tlStore := newFixture(t)

	mag, _ := Compute(desc, mdfStore, tlStore, constInterp{v: 0.5}, Input{
		Station:  "STA1",
		Phase:    "P",
		Distance: 1000,
		EvDepth:  5,
		Amp:      100.0,
		Period:   1.0,
	})

	if !magnitude.IsNaMagnitude(mag) {
		t.Fatalf("mag = %v, want NA_MAGNITUDE for an out-of-range query with Extrapolate=false", mag)
	}
}

func TestComputeDurationOnlyMagnitude(t *testing.T) {
	desc, mdfStore, tlStore := newFixture(t)

	mag, _ := Compute(desc, mdfStore, tlStore, constInterp{v: 0.5}, Input{
		Station:  "STA1",
		Phase:    "P",
		Distance: 15,
		EvDepth:  5,
		Amp:      -1.0,
		Period:   -1.0,
		Duration: 10.0,
	})

	approxEqual(t, "mag", mag, math.Log10(10.0)+0.7, 1e-9)
}

func approxEqual(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %v, want %v (tol %v)", name, got, want, tol)
	}
}
