package tltable

import "sort"

// Interpolator is the opaque, injectable bicubic-interpolation service
// consumed by Table.Value. Generic 2-D interpolation is treated as an
// external concern — callers supply their own implementation (or
// DefaultInterpolator, a minimal grounded default).
type Interpolator interface {
	// Interpolate returns the bicubic interpolant of grid (indexed
	// grid[depthIdx][distIdx]) over axes distAxis/depthAxis at the
	// query point (distance, depth).
	Interpolate(distAxis, depthAxis []float64, grid [][]float64, distance, depth float64) float64
}

// Value returns the interpolated transmission-loss correction at
// (distance, depth) using interp, honouring the hole-aware sentinel
// return used throughout the original (-999.0 for a hole or an
// out-of-range query), grounded on interp_for_tl_value in
// TL_manipulation.c.
func (t *Table) Value(distance, depth float64, interp Interpolator) float64 {
	const sentinel = -999.0

	if !t.InRange(distance, depth) {
		return sentinel
	}
	if t.HasHole(distance) {
		return sentinel
	}

	return interp.Interpolate(t.DistSamples, t.DepthSamples, t.Values, distance, depth)
}

// ModelErrorAt resolves the modelling error applicable at (distance,
// depth), grounded on get_tl_model_error's bulk/distance-only/2-D
// dispatch. The 2-D case performs edge-clamped bilinear interpolation:
// when the query distance or depth falls outside the sampled axis, or
// exactly on the shallowest row, the two bracketing indices collapse to
// the same sample and the bilinear form degenerates to a 1-D
// interpolation automatically.
func (t *Table) ModelErrorAt(distance, depth float64) float64 {
	if t.ModelErr == nil {
		return 0.0
	}

	switch t.ModelErr.Kind {
	case BulkModelError:
		return t.ModelErr.Bulk

	case DistanceOnlyModelError:
		return interp1D(t.DistSamples, t.ModelErr.DistVar, distance)

	case TwoDModelError:
		return bilinear(t.DistSamples, t.DepthSamples, t.ModelErr.DistDepthVar, distance, depth)

	default:
		return 0.0
	}
}

// bracket returns the indices (lo, hi) of axis bracketing x, clamped to
// the axis bounds, along with the fractional weight of hi within [lo,hi].
func bracket(axis []float64, x float64) (lo, hi int, frac float64) {
	n := len(axis)
	if n == 0 {
		return 0, 0, 0
	}
	if n == 1 || x <= axis[0] {
		return 0, 0, 0
	}
	if x >= axis[n-1] {
		return n - 1, n - 1, 0
	}

	hi = sort.SearchFloat64s(axis, x)
	lo = hi - 1
	if axis[hi] == axis[lo] {
		return lo, hi, 0
	}
	frac = (x - axis[lo]) / (axis[hi] - axis[lo])
	return lo, hi, frac
}

func interp1D(axis []float64, values []float64, x float64) float64 {
	lo, hi, frac := bracket(axis, x)
	return values[lo] + frac*(values[hi]-values[lo])
}

// bilinear interpolates grid[depthIdx][distIdx] over distAxis/depthAxis at
// (distance, depth) using the standard 2x2-corner weighted form.
func bilinear(distAxis, depthAxis []float64, grid [][]float64, distance, depth float64) float64 {
	dlo, dhi, dfrac := bracket(distAxis, distance)
	zlo, zhi, zfrac := bracket(depthAxis, depth)

	v00 := grid[zlo][dlo]
	v01 := grid[zlo][dhi]
	v10 := grid[zhi][dlo]
	v11 := grid[zhi][dhi]

	top := v00 + dfrac*(v01-v00)
	bottom := v10 + dfrac*(v11-v10)
	return top + zfrac*(bottom-top)
}
