package mdf

import (
	magnitude "github.com/sixy6e/go-magnitude"
)

// Store is the loaded MDF contents: one Descriptor per magtype plus the
// Section B bulk station/TL-type corrections, grounded on the Mag_Descrip
// array and Mag_Sta_TLType table mag_access.c operates on.
type Store struct {
	descriptors    map[string]*Descriptor
	staCorrections map[string]map[string]StationCorrection // TLType -> station -> correction
	tlTypes        []string
}

// NewStore returns an empty Store; LoadMDF is the usual constructor.
func NewStore() *Store {
	return &Store{
		descriptors:    map[string]*Descriptor{},
		staCorrections: map[string]map[string]StationCorrection{},
	}
}

// Get returns the Descriptor for magtype, grounded on
// get_magtype_descrip.
func (s *Store) Get(magType string) (*Descriptor, bool) {
	d, ok := s.descriptors[magType]
	return d, ok
}

// TLTypes returns every TL-type referenced by a loaded descriptor,
// grounded on the distinct-type enumeration C1 needs to drive TLSF
// loading.
func (s *Store) TLTypes() []string {
	return s.tlTypes
}

// StationCorrection returns the Section B bulk correction for station
// under tlType, grounded on get_mag_sta_tltype_corr.
func (s *Store) StationCorrection(tlType, station string) (StationCorrection, bool) {
	byStation, ok := s.staCorrections[tlType]
	if !ok {
		return StationCorrection{}, false
	}
	c, ok := byStation[station]
	return c, ok
}

// OverrideDistRange overrides a magtype's defining-distance range,
// grounded on override_dist_range.
func (s *Store) OverrideDistRange(magType string, distMin, distMax float64) error {
	d, ok := s.descriptors[magType]
	if !ok {
		return magnitude.NewMagNoMatchingTLtype("no descriptor for magtype " + magType)
	}
	d.DistMin = distMin
	d.DistMax = distMax
	return nil
}

// RevertDistRange restores the distance range captured at load time,
// grounded on revert_dist_range.
func (s *Store) RevertDistRange(magType string) error {
	d, ok := s.descriptors[magType]
	if !ok {
		return magnitude.NewMagNoMatchingTLtype("no descriptor for magtype " + magType)
	}
	d.DistMin = d.orig.DistMin
	d.DistMax = d.orig.DistMax
	return nil
}

// OverrideAmpTypes overrides a magtype's detection- and event-amplitude
// types, grounded on override_amptypes (also known as reset_amptypes).
func (s *Store) OverrideAmpTypes(magType, detAmpType, evAmpType string) error {
	d, ok := s.descriptors[magType]
	if !ok {
		return magnitude.NewMagNoMatchingTLtype("no descriptor for magtype " + magType)
	}
	d.DetAmpType = detAmpType
	d.EvAmpType = evAmpType
	return nil
}

// RevertAmpTypes restores the amplitude types captured at load time,
// grounded on revert_amptypes.
func (s *Store) RevertAmpTypes(magType string) error {
	d, ok := s.descriptors[magType]
	if !ok {
		return magnitude.NewMagNoMatchingTLtype("no descriptor for magtype " + magType)
	}
	d.DetAmpType = d.orig.DetAmpType
	d.EvAmpType = d.orig.EvAmpType
	return nil
}

// OverrideAlgorithm overrides a magtype's network-estimator algorithm,
// grounded on override_algorithm (also known as reset_algorithm).
func (s *Store) OverrideAlgorithm(magType string, algo magnitude.AlgoCode) error {
	d, ok := s.descriptors[magType]
	if !ok {
		return magnitude.NewMagNoMatchingTLtype("no descriptor for magtype " + magType)
	}
	d.AlgoCode = algo
	return nil
}

// RevertAlgorithm restores the algorithm captured at load time, grounded
// on revert_algorithm.
func (s *Store) RevertAlgorithm(magType string) error {
	d, ok := s.descriptors[magType]
	if !ok {
		return magnitude.NewMagNoMatchingTLtype("no descriptor for magtype " + magType)
	}
	d.AlgoCode = d.orig.AlgoCode
	return nil
}

// OverrideSigmaLimits overrides a magtype's acceptable sigma range,
// grounded on override_sd_limits.
func (s *Store) OverrideSigmaLimits(magType string, sgLim1, sgLim2 float64) error {
	d, ok := s.descriptors[magType]
	if !ok {
		return magnitude.NewMagNoMatchingTLtype("no descriptor for magtype " + magType)
	}
	d.SgLim1 = sgLim1
	d.SgLim2 = sgLim2
	return nil
}

// RevertSigmaLimits restores the sigma range captured at load time,
// grounded on revert_sd_limits.
func (s *Store) RevertSigmaLimits(magType string) error {
	d, ok := s.descriptors[magType]
	if !ok {
		return magnitude.NewMagNoMatchingTLtype("no descriptor for magtype " + magType)
	}
	d.SgLim1 = d.orig.SgLim1
	d.SgLim2 = d.orig.SgLim2
	return nil
}

// OverrideSigmaBaseline overrides a magtype's baseline sigma, grounded on
// override_sd_baseline.
func (s *Store) OverrideSigmaBaseline(magType string, sgBase float64) error {
	d, ok := s.descriptors[magType]
	if !ok {
		return magnitude.NewMagNoMatchingTLtype("no descriptor for magtype " + magType)
	}
	d.SgBase = sgBase
	return nil
}

// RevertSigmaBaseline restores the baseline sigma captured at load time,
// grounded on revert_sd_baseline. The original C mistakenly restores
// dist_max here instead of sgbase; this implementation restores SgBase, as
// the function name and every caller of it expect.
func (s *Store) RevertSigmaBaseline(magType string) error {
	d, ok := s.descriptors[magType]
	if !ok {
		return magnitude.NewMagNoMatchingTLtype("no descriptor for magtype " + magType)
	}
	d.SgBase = d.orig.SgBase
	return nil
}

// OverrideApplyWgt overrides a magtype's weighted-average-correction flag,
// grounded on override_wgt_ave_flag.
func (s *Store) OverrideApplyWgt(magType string, applyWgt bool) error {
	d, ok := s.descriptors[magType]
	if !ok {
		return magnitude.NewMagNoMatchingTLtype("no descriptor for magtype " + magType)
	}
	d.ApplyWgt = applyWgt
	return nil
}

// RevertApplyWgt restores the weighted-average-correction flag captured at
// load time, grounded on revert_wgt_ave_flag. The original C mistakenly
// restores dist_max here instead of apply_wgt; this implementation
// restores ApplyWgt, as the function name and every caller of it expect.
func (s *Store) RevertApplyWgt(magType string) error {
	d, ok := s.descriptors[magType]
	if !ok {
		return magnitude.NewMagNoMatchingTLtype("no descriptor for magtype " + magType)
	}
	d.ApplyWgt = d.orig.ApplyWgt
	return nil
}

// Reset restores every overridable field of magtype's descriptor to its
// post-load value, grounded on reset_magtype_descrip.
func (s *Store) Reset(magType string) error {
	d, ok := s.descriptors[magType]
	if !ok {
		return magnitude.NewMagNoMatchingTLtype("no descriptor for magtype " + magType)
	}
	d.DetAmpType = d.orig.DetAmpType
	d.EvAmpType = d.orig.EvAmpType
	d.AlgoCode = d.orig.AlgoCode
	d.DistMin = d.orig.DistMin
	d.DistMax = d.orig.DistMax
	d.SgLim1 = d.orig.SgLim1
	d.SgLim2 = d.orig.SgLim2
	d.SgBase = d.orig.SgBase
	d.ApplyWgt = d.orig.ApplyWgt
	return nil
}
