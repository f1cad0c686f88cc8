package tltable

import "sort"

// DefaultInterpolator is a concrete, self-contained bicubic interpolation
// service satisfying Interpolator, for callers that don't have their own
// bicubic_interpolate collaborator wired in. Generic 2-D interpolation is
// treated as an external, opaque concern here — this is a minimal
// grounded stand-in, not a claim to canonical numerical fidelity with the
// original's routine. It builds a separable
// tensor-product Catmull-Rom spline: cubic along the distance axis for
// the four depth rows bracketing the query depth, then cubic across
// those four interpolated values along the depth axis.
type DefaultInterpolator struct{}

// Interpolate implements Interpolator.
func (DefaultInterpolator) Interpolate(distAxis, depthAxis []float64, grid [][]float64, distance, depth float64) float64 {
	if len(distAxis) == 1 && len(depthAxis) == 1 {
		return grid[0][0]
	}

	di := clampSearch(depthAxis, depth)
	rows := make([]float64, 4)
	for k := -1; k <= 2; k++ {
		idx := clampIndex(len(depthAxis), di+k)
		rows[k+1] = catmullRomRow(distAxis, grid[idx], distance)
	}

	if len(depthAxis) == 1 {
		return rows[1]
	}

	zi := clampIndex(len(depthAxis), di)
	z0 := depthAxis[zi]
	z1 := depthAxis[clampIndex(len(depthAxis), di+1)]
	t := 0.0
	if z1 != z0 {
		t = (depth - z0) / (z1 - z0)
	}
	return catmullRom(rows[0], rows[1], rows[2], rows[3], t)
}

// catmullRomRow interpolates a single row along axis at x using a
// Catmull-Rom cubic through the four samples bracketing x (edge-clamped).
func catmullRomRow(axis []float64, row []float64, x float64) float64 {
	if len(axis) == 1 {
		return row[0]
	}

	i := clampSearch(axis, x)
	x0 := axis[i]
	x1 := axis[clampIndex(len(axis), i+1)]
	t := 0.0
	if x1 != x0 {
		t = (x - x0) / (x1 - x0)
	}

	p0 := row[clampIndex(len(row), i-1)]
	p1 := row[clampIndex(len(row), i)]
	p2 := row[clampIndex(len(row), i+1)]
	p3 := row[clampIndex(len(row), i+2)]
	return catmullRom(p0, p1, p2, p3, t)
}

// catmullRom evaluates the uniform Catmull-Rom cubic through p0..p3 at
// parameter t in [0,1] between p1 and p2.
func catmullRom(p0, p1, p2, p3, t float64) float64 {
	t2 := t * t
	t3 := t2 * t
	return 0.5 * ((2 * p1) +
		(-p0+p2)*t +
		(2*p0-5*p1+4*p2-p3)*t2 +
		(-p0+3*p1-3*p2+p3)*t3)
}

// clampSearch returns the index i such that axis[i] < x <= axis[i+1],
// clamped to [0, len(axis)-2]: x at or below axis[0] gives 0 (as does a
// single-sample axis), x above the last sample gives len(axis)-2.
func clampSearch(axis []float64, x float64) int {
	if len(axis) < 2 {
		return 0
	}
	i := sort.SearchFloat64s(axis, x)
	switch {
	case i <= 0:
		return 0
	case i >= len(axis):
		return len(axis) - 2
	default:
		return i - 1
	}
}

func clampIndex(n, i int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
