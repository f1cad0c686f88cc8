package magnitude

// Params holds the run-control settings for a magnitude computation,
// grounded on Mag_Params (mag_params.h) with initialize_mag_params'
// defaults (mag_params.c).
type Params struct {
	// Verbose controls diagnostic logging verbosity; 0 is silent.
	Verbose int

	// Net is the network code. Calculate does not read it, and no computed
	// record carries it.
	Net string

	// MagtypeToOriginMb/Ms/Ml name the magtype whose result should be
	// propagated into an origin's mb/ms/ml summary fields.
	MagtypeToOriginMb string
	MagtypeToOriginMs string
	MagtypeToOriginMl string

	// ListOfMbMagtypes lists magtypes that may populate an origin's mb
	// field. Calculate does not read it; only MagtypeToOriginMb selects
	// the mb slot.
	ListOfMbMagtypes []string

	// NumBoots is the number of bootstrap resamples performed for
	// MLE_W_BOOTS magtypes. Bootstrapping is skipped when NumBoots <= 0.
	NumBoots int

	// UseOnlySTAWCorr restricts station magnitudes to only those stations
	// carrying a source-dependent (test-site) correction. The restriction
	// applies only when UseTSCorr is also set.
	UseOnlySTAWCorr bool

	// SubStaListOnly, when true, restricts station magnitudes to stations
	// named in SubStaList.
	SubStaListOnly bool
	SubStaList     []string

	// IgnoreLargeRes enables residual-outlier re-screening: station
	// magnitudes whose residual exceeds LargeResMult*sdav are demoted to
	// non-defining and the network magnitude is recomputed.
	IgnoreLargeRes bool
	LargeResMult   float64

	// UseTSCorr enables test-site correction lookups; TSRegion selects
	// which correction region to apply.
	UseTSCorr bool
	TSRegion  string

	// AllowExtrapolate lets station_magnitude skip its up-front TL range
	// check for a station/event geometry outside the grid's sampled range.
	// The TL-table lookup itself (Table.Value) still returns the -999.0
	// sentinel outside the grid: no extrapolated value is produced, and the
	// station magnitude is NA_MAGNITUDE either way.
	AllowExtrapolate bool

	// OutfileName names a file for verbose per-station-magnitude
	// reporting text. Calculate does not read it; nothing in this module
	// writes to it.
	OutfileName string

	// ComputeUpperBounds mirrors mag_set_compute_upper_bounds /
	// mag_get_compute_upper_bounds: when false (the default) magnitudes
	// backed solely by event-based (upper-bound) amplitudes are not
	// written out.
	ComputeUpperBounds bool
}

// NewParams returns a Params populated with initialize_mag_params'
// defaults.
func NewParams() *Params {
	return &Params{
		Verbose:        0,
		Net:            "",
		NumBoots:       20,
		IgnoreLargeRes: false,
		LargeResMult:   3.0,
		UseTSCorr:      false,
	}
}
