package tltable

import (
	"math"
	"testing"
)

type constInterp struct{ v float64 }

func (c constInterp) Interpolate(distAxis, depthAxis []float64, grid [][]float64, distance, depth float64) float64 {
	return c.v
}

func TestValueOutOfRangeReturnsSentinel(t *testing.T) {
	tbl := &Table{
		DistSamples:  []float64{10, 20},
		DepthSamples: []float64{0, 10},
		Values:       [][]float64{{1, 2}, {3, 4}},
	}

	if v := tbl.Value(1000, 0, constInterp{v: 5}); v != -999.0 {
		t.Fatalf("Value() = %v, want -999.0 for an out-of-range query", v)
	}
}

func TestValueInHoleReturnsSentinel(t *testing.T) {
	tbl := &Table{
		DistSamples:  []float64{10, 20, 30},
		DepthSamples: []float64{0, 10},
		Values:       [][]float64{{1, 2, 3}, {4, 5, 6}},
		InHoleDist:   [2]float64{15, 25},
	}

	if v := tbl.Value(20, 0, constInterp{v: 5}); v != -999.0 {
		t.Fatalf("Value() = %v, want -999.0 inside a detected hole", v)
	}
}

func TestValueInRangeDelegatesToInterpolator(t *testing.T) {
	tbl := &Table{
		DistSamples:  []float64{10, 20},
		DepthSamples: []float64{0, 10},
		Values:       [][]float64{{1, 2}, {3, 4}},
	}

	if v := tbl.Value(15, 5, constInterp{v: 2.5}); v != 2.5 {
		t.Fatalf("Value() = %v, want 2.5 from the injected interpolator", v)
	}
}

func TestModelErrorAtNoBlockReturnsZero(t *testing.T) {
	tbl := &Table{}
	if v := tbl.ModelErrorAt(10, 5); v != 0.0 {
		t.Fatalf("ModelErrorAt() = %v, want 0.0 with no modelling-error block", v)
	}
}

func TestModelErrorAtBulk(t *testing.T) {
	tbl := &Table{ModelErr: &ModelError{Kind: BulkModelError, Bulk: 0.42}}
	if v := tbl.ModelErrorAt(10, 5); v != 0.42 {
		t.Fatalf("ModelErrorAt() = %v, want 0.42", v)
	}
}

func TestModelErrorAtDistanceOnlyInterpolates(t *testing.T) {
	tbl := &Table{
		DistSamples: []float64{0, 10, 20},
		ModelErr: &ModelError{
			Kind:    DistanceOnlyModelError,
			DistVar: []float64{0.1, 0.2, 0.3},
		},
	}

	if v := tbl.ModelErrorAt(5, 0); math.Abs(v-0.15) > 1e-9 {
		t.Fatalf("ModelErrorAt(5) = %v, want 0.15 (midway between 0.1 and 0.2)", v)
	}
	if v := tbl.ModelErrorAt(0, 0); v != 0.1 {
		t.Fatalf("ModelErrorAt(0) = %v, want 0.1 exactly on a sample", v)
	}
	if v := tbl.ModelErrorAt(-100, 0); v != 0.1 {
		t.Fatalf("ModelErrorAt(-100) = %v, want 0.1 (clamped below range)", v)
	}
	if v := tbl.ModelErrorAt(1000, 0); v != 0.3 {
		t.Fatalf("ModelErrorAt(1000) = %v, want 0.3 (clamped above range)", v)
	}
}

func TestModelErrorAtTwoDBilinear(t *testing.T) {
	tbl := &Table{
		DistSamples:  []float64{0, 10},
		DepthSamples: []float64{0, 10},
		ModelErr: &ModelError{
			Kind:         TwoDModelError,
			DistDepthVar: [][]float64{{0.0, 1.0}, {1.0, 2.0}},
		},
	}

	if v := tbl.ModelErrorAt(5, 5); math.Abs(v-1.0) > 1e-9 {
		t.Fatalf("ModelErrorAt(5,5) = %v, want 1.0 (center of the four corners)", v)
	}
	if v := tbl.ModelErrorAt(0, 0); v != 0.0 {
		t.Fatalf("ModelErrorAt(0,0) = %v, want 0.0 at the corner", v)
	}
}
