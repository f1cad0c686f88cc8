// Package stationmag computes a single station magnitude from a raw
// amplitude/period/duration measurement plus transmission-loss, station,
// and test-site corrections (C4), grounded on station_magnitude in
// mag_access.c.
package stationmag

import (
	"math"

	magnitude "github.com/sixy6e/go-magnitude"
	"github.com/sixy6e/go-magnitude/mdf"
	"github.com/sixy6e/go-magnitude/tltable"
)

// Info is the full per-station breakdown of a computed magnitude,
// grounded on SM_Info (mag_descrip.h).
type Info struct {
	StationMagnitude float64
	TotalMagCorr     float64
	MCTableValue     float64
	BulkStaticCorr   float64
	BulkCorrError    float64
	SrcDpntCorrType  magnitude.SrcDependentCorrType
	SrcDpntCorr      float64
	ModelError       float64
	MeasError        float64
	ModelPlusMeasErr float64
	MagCorDeriv      [4]float64
	Model            string
}

func initInfo() Info {
	return Info{
		StationMagnitude: magnitude.NA_MAGNITUDE,
		TotalMagCorr:      -1.0,
		MCTableValue:      -1.0,
		SrcDpntCorrType:   magnitude.NoMagSrcDpntCorr,
		ModelError:        -1.0,
		MeasError:         -1.0,
		ModelPlusMeasErr:  -1.0,
		MagCorDeriv:       [4]float64{-1.0, -1.0, -1.0, -1.0},
		Model:             "-",
	}
}

// Input bundles the per-measurement quantities station_magnitude takes
// beyond the loaded descriptor/TL-table context.
type Input struct {
	Station     string
	Phase       string
	Chan        string
	Extrapolate bool
	TSRegion    string
	Distance    float64
	EvDepth     float64
	Amp         float64
	Period      float64
	Duration    float64
	SNR         float64
}

// Compute returns the station magnitude and its full Info breakdown for
// one measurement under desc/TL-type tlStore, grounded on
// station_magnitude. It returns NA_MAGNITUDE (with an Info still holding
// its initial sentinel values) whenever the original would also bail early: an
// unresolvable TL lookup, or an interpolated correction within 0.1 of the
// N/A sentinel.
func Compute(desc *mdf.Descriptor, mdfStore *mdf.Store, tlStore *tltable.Store, interp tltable.Interpolator, in Input) (float64, Info) {
	info := initInfo()

	if !tlStore.ValidPhaseForTLType(desc.TLType, in.Phase) {
		return magnitude.NA_MAGNITUDE, info
	}
	if !tlStore.ValidRangeForTLTable(desc.TLType, in.Station, in.Phase, in.Chan, in.Distance, in.EvDepth) && !in.Extrapolate {
		return magnitude.NA_MAGNITUDE, info
	}

	distDepthCorr, ok := tlStore.Interpolate(desc.TLType, in.Station, in.Phase, in.Chan, in.Distance, in.EvDepth, interp)
	info.MCTableValue = distDepthCorr
	if !ok || magnitude.IsNaMagnitude(distDepthCorr) {
		return magnitude.NA_MAGNITUDE, info
	}

	// Bulk static station correction: a Section B entry for this station
	// under the magtype's TL-type, falling back to that TL-type's DFAULT
	// entry when no per-station entry exists.
	var magCorr float64
	sc, ok := mdfStore.StationCorrection(desc.TLType, in.Station)
	if !ok {
		sc, ok = mdfStore.StationCorrection(desc.TLType, "DFAULT")
	}
	if ok {
		info.BulkStaticCorr = sc.Corr
		info.BulkCorrError = sc.CorrError
		magCorr = sc.Corr
	}

	if in.TSRegion != "" {
		if corr, applied := tlStore.StationCorrection(desc.TLType, in.Station, in.Phase, in.Chan, in.TSRegion); applied {
			info.SrcDpntCorrType = magnitude.MagTestSiteCorr
			info.SrcDpntCorr = corr
			magCorr = corr
		}
	}

	modelErr, ok := tlStore.ModelError(desc.TLType, in.Station, in.Phase, in.Chan, in.Distance, in.EvDepth)
	if !ok || modelErr == 0.0 {
		modelErr = desc.SgBase
	}
	info.ModelError = modelErr

	measErr := getMeasError(in.SNR)
	info.MeasError = measErr
	info.ModelPlusMeasErr = math.Sqrt(modelErr*modelErr + measErr*measErr + info.BulkCorrError*info.BulkCorrError)

	totMagCorr := distDepthCorr + magCorr
	info.TotalMagCorr = totMagCorr

	var staMag float64
	switch {
	case in.Amp < 0.0 && in.Period < 0.0:
		staMag = math.Log10(in.Duration) + totMagCorr
	case in.Period < 0.0:
		staMag = math.Log10(in.Amp) + totMagCorr
	default:
		staMag = math.Log10(in.Amp/in.Period) + totMagCorr
	}

	info.StationMagnitude = staMag
	return staMag, info
}

// getMeasError is an intentional always-0 stub, grounded verbatim on
// get_meas_error in mag_access.c ("Temporary"). It is preserved as-is
// rather than "fixed": the original ships this stub and every caller
// (including Compute above) depends on the zero contribution it makes to
// model_plus_meas_error.
func getMeasError(snr float64) float64 {
	return 0.0
}
