// Package tltable implements the transmission-loss table subsystem: loading
// a TL Selection File (TLSF) and the individual TL grid files it names
// (C1), and querying the resulting collection for magnitude corrections
// and test-site corrections (C2).
//
// Grounded on read_tlsf/read_tl_table/TL_manipulation.c from the original
// libmagnitude sources: a TL-type's grid is a table of corrections indexed
// by distance (columns) and depth (rows), with an optional modelling-error
// block and an optional per-station test-site-correction sidecar.
package tltable

// ModelErrorKind identifies which of the three modelling-error forms a
// table was loaded with, per get_tl_model_error's bulk/1-D/2-D dispatch.
type ModelErrorKind int

const (
	// NoModelError means the table carries no modelling-error block.
	NoModelError ModelErrorKind = iota
	// BulkModelError is a single scalar applied regardless of distance or
	// depth.
	BulkModelError
	// DistanceOnlyModelError varies by distance sample only.
	DistanceOnlyModelError
	// TwoDModelError varies by both distance and depth sample.
	TwoDModelError
)

// ModelError is the modelling-error block associated with a Table.
type ModelError struct {
	Kind ModelErrorKind

	// Bulk is used when Kind == BulkModelError.
	Bulk float64

	// DistVar is used when Kind == DistanceOnlyModelError; one entry per
	// distance sample.
	DistVar []float64

	// DistDepthVar is used when Kind == TwoDModelError; indexed
	// [depthIdx][distIdx], matching Table.Values' orientation.
	DistDepthVar [][]float64
}

// TestSiteRegion is one named region of a table's test-site-correction
// sidecar, grounded on the region records read_tl_table.c populates from
// the file a grid's ".ts_dir" sidecar points to.
type TestSiteRegion struct {
	Number int
	Name   string
	Type   string
	// Stations maps station name to correction, including the "DFAULT"
	// catch-all entry when present. Station names read with a trailing '*'
	// are stored with the '*' stripped and are looked up by exact name like
	// any other entry; no prefix matching is done.
	Stations map[string]float64
}

// Table is a single transmission-loss grid, grounded on the TL_Table
// struct (tl_table.h). A Table holds only grid content: the (type, model,
// phase, channel) binding that selects it lives in the typeDescriptor and
// override chain a Store resolves through.
type Table struct {
	// DistSamples and DepthSamples are the sorted grid axes.
	DistSamples  []float64
	DepthSamples []float64

	// Values holds the correction grid, Values[depthIdx][distIdx].
	Values [][]float64

	// InHoleDist gives the [min,max] distance bounds of a "hole" (a gap
	// in valid data) detected on the shallowest depth row only, per
	// read_tl_table.c.
	InHoleDist [2]float64

	ModelErr *ModelError

	// TestSiteRegions is populated from the table's .ts_dir indirection,
	// if one exists.
	TestSiteRegions []TestSiteRegion
}

// HasHole reports whether distance d falls within a detected data hole.
func (t *Table) HasHole(d float64) bool {
	if t.InHoleDist[0] == 0 && t.InHoleDist[1] == 0 {
		return false
	}
	return d >= t.InHoleDist[0] && d <= t.InHoleDist[1]
}

// DistanceRange and DepthRange bound the grid; valid_range_for_TLtable
// rejects any station/event geometry outside of these.
func (t *Table) DistanceRange() (min, max float64) {
	if len(t.DistSamples) == 0 {
		return 0, 0
	}
	return t.DistSamples[0], t.DistSamples[len(t.DistSamples)-1]
}

func (t *Table) DepthRange() (min, max float64) {
	if len(t.DepthSamples) == 0 {
		return 0, 0
	}
	return t.DepthSamples[0], t.DepthSamples[len(t.DepthSamples)-1]
}

// InRange reports whether (distance, depth) falls within the table's grid
// bounds, grounded on valid_range_for_TLtable: a single-sample axis (Nd==1
// or Nz==1) never rejects on that axis, since there is no sampled range to
// be outside of.
func (t *Table) InRange(distance, depth float64) bool {
	if len(t.DistSamples) > 1 {
		dmin, dmax := t.DistanceRange()
		if distance < dmin || distance > dmax {
			return false
		}
	}
	if len(t.DepthSamples) > 1 {
		zmin, zmax := t.DepthRange()
		if depth < zmin || depth > zmax {
			return false
		}
	}
	return true
}

// TestSiteCorrection resolves ts_correction(region, sta, type, table): walk
// the table's region list, and on a region-name and type match, look up
// station, falling back to that region's "DFAULT" entry. tlType matches a
// region whose own Type field is empty (no type restriction recorded for
// that region) or exactly equal.
func (t *Table) TestSiteCorrection(region, station, tlType string) (float64, bool) {
	for _, r := range t.TestSiteRegions {
		if region != "" && r.Name != region {
			continue
		}
		if r.Type != "" && tlType != "" && r.Type != tlType {
			continue
		}
		if v, ok := r.Stations[station]; ok {
			return v, true
		}
		if v, ok := r.Stations["DFAULT"]; ok {
			return v, true
		}
	}
	return 0.0, false
}
