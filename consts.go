package magnitude

// AlgoCode selects which network-magnitude estimator a magtype uses,
// grounded on NET_AVG/MLE/MLE_W_BOOTS (mag_defs.h).
type AlgoCode int

const (
	NetAvg    AlgoCode = 0
	MLE       AlgoCode = 1
	MLEWBoots AlgoCode = 2
)

// SigType classifies a single station-magnitude amplitude as a measured
// signal, a clipped (upper-bound) signal, or a non-detection (lower
// bound), grounded on MEAS_SIGNAL/CLIPPED/NON_DETECT (mag_defs.h).
type SigType int

const (
	MeasSignal SigType = 0
	Clipped    SigType = 1
	NonDetect  SigType = 2
)

// SrcDependentCorrType identifies whether a station magnitude's
// source-dependent correction came from a test-site region or not at all,
// grounded on NO_MAG_SRC_DPNT_CORR/MAG_TEST_SITE_CORR (mag_defs.h).
type SrcDependentCorrType int

const (
	NoMagSrcDpntCorr SrcDependentCorrType = 0
	MagTestSiteCorr  SrcDependentCorrType = 1
)
