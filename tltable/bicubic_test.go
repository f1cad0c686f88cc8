package tltable

import (
	"math"
	"testing"
)

func TestDefaultInterpolatorSingleCellReturnsOnlyValue(t *testing.T) {
	interp := DefaultInterpolator{}
	got := interp.Interpolate([]float64{10}, []float64{0}, [][]float64{{42.0}}, 999, -999)
	if got != 42.0 {
		t.Fatalf("Interpolate() = %v, want 42.0 for a degenerate 1x1 grid", got)
	}
}

func TestDefaultInterpolatorConstantGridReturnsConstant(t *testing.T) {
	dist := []float64{0, 10, 20, 30}
	depth := []float64{0, 5, 10}
	grid := make([][]float64, len(depth))
	for i := range grid {
		grid[i] = []float64{7, 7, 7, 7}
	}

	interp := DefaultInterpolator{}
	got := interp.Interpolate(dist, depth, grid, 13.5, 4.2)
	if math.Abs(got-7.0) > 1e-9 {
		t.Fatalf("Interpolate() = %v, want 7.0 over a constant grid", got)
	}
}

func TestDefaultInterpolatorExactSampleRecoversValue(t *testing.T) {
	dist := []float64{0, 10, 20, 30}
	depth := []float64{0, 5, 10}
	grid := [][]float64{
		{1, 2, 3, 4},
		{5, 6, 7, 8},
		{9, 10, 11, 12},
	}

	interp := DefaultInterpolator{}
	got := interp.Interpolate(dist, depth, grid, 10, 5)
	if math.Abs(got-6.0) > 1e-6 {
		t.Fatalf("Interpolate() at an exact grid node = %v, want 6.0", got)
	}
}
