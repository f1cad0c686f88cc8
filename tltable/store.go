package tltable

// typeDescriptor binds a TL type to its default model and every model
// group loaded under it, grounded on the TL Type Descriptor record
// get_TL_indexes resolves against: a default (type, model) pair plus
// whichever other models only station specialisations ever reach.
type typeDescriptor struct {
	Type    string
	Default string
	Groups  map[string]*modelGroup
}

// modelGroup is one (type, model) binding's phase table, grounded on
// read_tlsf's per-type-binding phase list: Phases and TableIndex are
// parallel, TableIndex[i] == -1 when that phase's grid file was missing
// (TLreadWarn1) or the binding is still being assembled.
type modelGroup struct {
	Model      string
	Phases     []string
	TableIndex []int
}

func (g *modelGroup) indexForPhase(phase string) int {
	for i, p := range g.Phases {
		if p == phase {
			return g.TableIndex[i]
		}
	}
	return -1
}

func (g *modelGroup) hasPhase(phase string) bool {
	for _, p := range g.Phases {
		if p == phase {
			return true
		}
	}
	return false
}

func (td *typeDescriptor) hasPhase(phase string) bool {
	for _, g := range td.Groups {
		if g.hasPhase(phase) {
			return true
		}
	}
	return false
}

func (td *typeDescriptor) tableIndexFor(model, phase string) int {
	g, ok := td.Groups[model]
	if !ok {
		return -1
	}
	return g.indexForPhase(phase)
}

// stationOverride is one Station/Type/Model Override row from a TLSF's
// third section, grounded on read_tlsf:354-428's specialisation records.
// "-" in Model/Phase/Channel is the wildcard marker.
type stationOverride struct {
	Station string
	Type    string
	Model   string
	Phase   string
	Channel string
}

// Store is the in-memory collection of every loaded TL grid plus the
// specialisation machinery get_TL_indexes resolves through (C2), grounded
// on the query surface TL_manipulation.c exposes over the TL_Table array:
// lookup by (type, station, phase, channel) with most-specific-match
// resolution, phase/range validity checks, and test-site correction
// access.
type Store struct {
	descriptors map[string]*typeDescriptor
	tables      []*Table

	// rawOverrides is every station specialisation the TLSF declared;
	// stationOverrides is the Station Link Table built from it by
	// SetStationLinks, restricted to the given site roster (or to every
	// station any override names, when no roster has been set).
	rawOverrides     []stationOverride
	stationOverrides map[string][]stationOverride
}

func newStore() *Store {
	return &Store{descriptors: map[string]*typeDescriptor{}}
}

// NewSingleTypeStore builds a Store with exactly one TL type bound to a
// single already-loaded Table, reachable for every phase in phases, and no
// station specialisations. Intended for callers (tests, mostly) that want
// a Store without going through LoadTLSF's file-format machinery.
func NewSingleTypeStore(tlType string, phases []string, table *Table) *Store {
	s := newStore()
	s.tables = []*Table{table}
	idx := make([]int, len(phases))
	s.descriptors[tlType] = &typeDescriptor{
		Type:    tlType,
		Default: "default",
		Groups: map[string]*modelGroup{
			"default": {Model: "default", Phases: phases, TableIndex: idx},
		},
	}
	s.SetStationLinks(nil)
	return s
}

// SetStationLinks rebuilds the Station Link Table, grounded on
// set_station_links: every parsed specialisation is re-filed under its
// station, restricted to sites when non-empty (an empty roster keeps every
// station any specialisation names, which is what LoadTLSF seeds on
// initial load before a caller has a real site roster to restrict to).
// Safe to call repeatedly; each call fully replaces the prior chain.
func (s *Store) SetStationLinks(sites []string) {
	chains := make(map[string][]stationOverride)

	var want map[string]bool
	if len(sites) > 0 {
		want = make(map[string]bool, len(sites))
		for _, site := range sites {
			want[site] = true
		}
	}

	for _, ov := range s.rawOverrides {
		if want != nil && !want[ov.Station] {
			continue
		}
		chains[ov.Station] = append(chains[ov.Station], ov)
	}
	s.stationOverrides = chains
}

// resolveTable implements resolve_table(type, sta, phase, chan): locate
// the type's default table for phase, then walk sta's override chain for
// a more specific (type, model, phase, channel) match, grounded on
// get_TL_indexes' specificity-level search (spec §4.2):
//
//  1. type+phase+channel all match -> use immediately (level 3, breaks).
//  2. type+phase match, channel "-" -> tentative best (level 2).
//  3. type match, phase "-", channel "-" -> tentative (level 1), only
//     when a default table already exists.
//
// The deepest match found wins; absent any override, the default stands.
func (s *Store) resolveTable(tlType, sta, phase, chan_ string) (int, bool) {
	td, ok := s.descriptors[tlType]
	if !ok {
		return -1, false
	}
	defaultIdx := td.tableIndexFor(td.Default, phase)

	best := defaultIdx
	bestLevel := 0

	for _, ov := range s.stationOverrides[sta] {
		if ov.Type != tlType {
			continue
		}
		model := ov.Model
		if model == "-" || model == "" {
			model = td.Default
		}

		switch {
		case ov.Phase != "-" && ov.Phase == phase && ov.Channel != "-" && ov.Channel == chan_:
			if idx := td.tableIndexFor(model, phase); idx >= 0 {
				return idx, true
			}
		case ov.Phase != "-" && ov.Phase == phase && ov.Channel == "-":
			if bestLevel < 2 {
				if idx := td.tableIndexFor(model, phase); idx >= 0 {
					best, bestLevel = idx, 2
				}
			}
		case ov.Phase == "-" && ov.Channel == "-":
			if bestLevel < 1 && defaultIdx >= 0 {
				if idx := td.tableIndexFor(model, phase); idx >= 0 {
					best, bestLevel = idx, 1
				}
			}
		}
	}

	return best, best >= 0
}

func (s *Store) table(idx int) (*Table, bool) {
	if idx < 0 || idx >= len(s.tables) {
		return nil, false
	}
	return s.tables[idx], true
}

// ValidPhaseForTLType reports whether phase is registered for tlType under
// any loaded model group, grounded on valid_phase_for_TLtype. An unknown
// TL-type is never valid.
func (s *Store) ValidPhaseForTLType(tlType, phase string) bool {
	td, ok := s.descriptors[tlType]
	if !ok {
		return false
	}
	return td.hasPhase(phase)
}

// ValidRangeForTLTable reports whether (distance, depth) falls within the
// grid bounds of the table resolve_table selects for (tlType, sta, phase,
// chan), grounded on valid_range_for_TLtable.
func (s *Store) ValidRangeForTLTable(tlType, sta, phase, chan_ string, distance, depth float64) bool {
	idx, ok := s.resolveTable(tlType, sta, phase, chan_)
	if !ok {
		return false
	}
	t, ok := s.table(idx)
	if !ok {
		return false
	}
	return t.InRange(distance, depth)
}

// StationCorrection resolves ts_correction for a station under a given
// TL-type/phase/channel and optional test-site region, grounded on
// get_TL_ts_corr. region is matched against the resolved table's loaded
// TestSiteRegions; an empty region matches any.
func (s *Store) StationCorrection(tlType, sta, phase, chan_, region string) (corr float64, applied bool) {
	idx, ok := s.resolveTable(tlType, sta, phase, chan_)
	if !ok {
		return 0.0, false
	}
	t, ok := s.table(idx)
	if !ok {
		return 0.0, false
	}
	return t.TestSiteCorrection(region, sta, tlType)
}

// Interpolate returns the transmission-loss correction for (tlType, sta,
// phase, chan) at (distance, depth) via interp, or the hole/out-of-range
// sentinel if no table resolves.
func (s *Store) Interpolate(tlType, sta, phase, chan_ string, distance, depth float64, interp Interpolator) (float64, bool) {
	idx, ok := s.resolveTable(tlType, sta, phase, chan_)
	if !ok {
		return -999.0, false
	}
	t, ok := s.table(idx)
	if !ok {
		return -999.0, false
	}
	return t.Value(distance, depth, interp), true
}

// ModelError returns the modelling error for (tlType, sta, phase, chan) at
// (distance, depth).
func (s *Store) ModelError(tlType, sta, phase, chan_ string, distance, depth float64) (float64, bool) {
	idx, ok := s.resolveTable(tlType, sta, phase, chan_)
	if !ok {
		return 0.0, false
	}
	t, ok := s.table(idx)
	if !ok {
		return 0.0, false
	}
	return t.ModelErrorAt(distance, depth), true
}
