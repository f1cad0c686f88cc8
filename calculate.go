package magnitude

import (
	"log"
	"math"

	"github.com/samber/lo"

	"github.com/sixy6e/go-magnitude/magobj"
	"github.com/sixy6e/go-magnitude/mdf"
	"github.com/sixy6e/go-magnitude/netmag"
	"github.com/sixy6e/go-magnitude/stationmag"
)

// OriginUpdate reports which of an origin's mb/ms/ml slots a Calculate
// pass refreshed, grounded on calc_mags.c's final step of writing the
// computed magnitude/magid back into the Origin record when the magtype
// matches Params.MagtypeToOriginMb/Ms/Ml.
type OriginUpdate struct {
	HasMb, HasMs, HasMl bool
	Mb, Ms, Ml          float64
	MbID, MsID, MlID    int
}

// Calculate is the C7 driver: for every magnitude object, it recomputes
// each station magnitude, screens outliers, estimates the network
// magnitude, and reports any origin mb/ms/ml slot the result should
// populate. Grounded on calc_mags.c's outer loop over requested magtypes.
func (c *Context) Calculate(objs []magobj.MagnitudeObject, origin magobj.Origin) ([]magobj.MagnitudeObject, OriginUpdate) {
	out := make([]magobj.MagnitudeObject, len(objs))
	var update OriginUpdate

	for i, obj := range objs {
		out[i] = c.calculateOne(obj.Clone(), origin)
		c.applyOriginUpdate(out[i], &update)
	}

	return out, update
}

func (c *Context) applyOriginUpdate(obj magobj.MagnitudeObject, update *OriginUpdate) {
	if !obj.MagComputed {
		return
	}
	p := c.Params
	switch obj.MagType {
	case p.MagtypeToOriginMb:
		update.HasMb, update.Mb, update.MbID = true, obj.NetMagValue, obj.NetMagID
	case p.MagtypeToOriginMs:
		update.HasMs, update.Ms, update.MsID = true, obj.NetMagValue, obj.NetMagID
	case p.MagtypeToOriginMl:
		update.HasMl, update.Ml, update.MlID = true, obj.NetMagValue, obj.NetMagID
	}
}

// calculateOne runs the full per-magtype pipeline (recompute, filter,
// estimate, re-screen, populate) for a single MagnitudeObject.
func (c *Context) calculateOne(obj magobj.MagnitudeObject, origin magobj.Origin) magobj.MagnitudeObject {
	desc, ok := c.MDF.Get(obj.MagType)
	if !ok || len(obj.StaMags) == 0 {
		return obj
	}
	cntrl := desc.Cntrl()
	obj.Cntrl = cntrl

	mlecntrl := netmag.MLECntrl{SgBase: cntrl.SgBase, SgLim1: cntrl.SgLim1, SgLim2: cntrl.SgLim2}

	// Step 1: recompute distance and station magnitude for every slot.
	// Commented-out in the original source is logic that would reset
	// every station's defining flag to 'd' on each call; that is
	// deliberately NOT reproduced here, so an operator-set 'n' survives
	// across re-location iterations.
	for i := range obj.StaMags {
		c.computeStationMagnitude(desc, &obj.StaMags[i], origin)
	}

	// Steps 2-4: filter, estimate, re-screen until the defining set
	// stabilises.
	for {
		c.applyDrivingFilters(cntrl, obj.StaMags)

		samples := toSamples(obj.StaMags)

		mag, sigma, sdav, numAmpsUsed, code := netmag.Estimate(samples, cntrl.AlgoCode, mlecntrl, c.Params.Verbose > 0)

		bootstrapped := false
		var boot netmag.BootResult
		if cntrl.AlgoCode == MLEWBoots && numAmpsUsed > 1 && c.Params.NumBoots > 0 {
			var bcode netmag.MlkCode
			boot, sdav, numAmpsUsed, bcode = netmag.EstimateWithBoots(samples, mlecntrl, c.Params.NumBoots, c.Params.Verbose > 0, c.Rnd)
			mag, sigma, code = boot.NetMag, boot.Sigma, bcode
			bootstrapped = true
		}

		newlyRejected := false
		if code == netmag.MlkOK || code == netmag.MlkOnlyNonDetect || code == netmag.MlkOnlyClipped {
			for i := range obj.StaMags {
				e := &obj.StaMags[i]
				if e.MagDef != "d" {
					continue
				}
				e.Residual = e.Magnitude - mag
				if c.Params.IgnoreLargeRes && sdav > 0 && math.Abs(e.Residual) > c.Params.LargeResMult*sdav {
					e.MagDef = "n"
					newlyRejected = true
				}
			}
		}
		if !newlyRejected {
			obj.MagComputed = code == netmag.MlkOK || code == netmag.MlkOnlyNonDetect || code == netmag.MlkOnlyClipped
			obj.NetMagValue = mag
			obj.NetMagCode = int(code)
			obj.NetMagNsta = numAmpsUsed
			if cntrl.AlgoCode == NetAvg {
				obj.NetMagSigma = sdav
			} else if bootstrapped {
				obj.NetMagSigma = boot.Sigma
			} else {
				obj.NetMagSigma = sigma
			}
			break
		}
	}

	obj.MagWrite = hasSurvivingStaMags(obj.StaMags)
	if cntrl.AlgoCode != NetAvg && !c.Params.ComputeUpperBounds && !hasDefiningDetectBased(obj.StaMags) {
		obj.MagComputed = false
	}

	if c.Params.Verbose > 0 {
		c.report(obj)
	}

	return obj
}

// computeStationMagnitude recomputes one station's distance/depth and
// magnitude, demoting the record to non-defining on any sentinel result,
// grounded on calc_mags.c's per-station loop body.
func (c *Context) computeStationMagnitude(desc *mdf.Descriptor, entry *magobj.StaMagEntry, origin magobj.Origin) {
	entry.Delta = c.Dist.Delta(entry.StaLat, entry.StaLon, origin.Lat, origin.Lon)

	region := ""
	if c.Params.UseTSCorr {
		region = c.Params.TSRegion
	}

	mag, info := stationmag.Compute(desc, c.MDF, c.TL, c.Interp, stationmag.Input{
		Station:     entry.Sta,
		Phase:       entry.Phase,
		Chan:        entry.Amp.Chan,
		Extrapolate: c.Params.AllowExtrapolate,
		TSRegion:    region,
		Distance:    entry.Delta,
		EvDepth:     origin.Depth,
		Amp:         entry.Amp.Amp,
		Period:      entry.Amp.Period,
		Duration:    entry.Amp.Duration,
		SNR:         entry.Amp.SNR,
	})

	entry.Magnitude = mag
	entry.Info = info
	if IsNaMagnitude(mag) {
		entry.MagDef = "n"
	}
}

// applyDrivingFilters flips a defining record to non-defining when it
// fails a check the operator's manual flag is exempt from, grounded on
// calc_mags.c's filter block (distance range, no test-site correction
// applied under use_only_sta_w_corr+use_ts_corr, sub-station-list membership).
func (c *Context) applyDrivingFilters(cntrl mdf.Cntrl, entries []magobj.StaMagEntry) {
	p := c.Params
	for i := range entries {
		e := &entries[i]
		if e.MagDef != "d" || e.ManualOverride {
			continue
		}

		if e.Delta < cntrl.DistMin || e.Delta > cntrl.DistMax {
			e.MagDef = "n"
			continue
		}

		if p.UseOnlySTAWCorr && p.UseTSCorr && e.Info.SrcDpntCorrType != MagTestSiteCorr {
			e.MagDef = "n"
			continue
		}

		if p.SubStaListOnly && !lo.Contains(p.SubStaList, e.Sta) {
			e.MagDef = "n"
			continue
		}
	}
}

// toSamples projects a MagnitudeObject's station magnitudes into the
// netmag.Sample vector Estimate consumes. Defining carries the raw
// 'd'/'n' per-station state; netmag.Estimate itself restricts which
// SigType classes participate per algorithm (NET_AVG admits only signal
// samples), so no filtering by class happens here.
func toSamples(entries []magobj.StaMagEntry) []netmag.Sample {
	samples := make([]netmag.Sample, len(entries))
	for i, e := range entries {
		weight := 0.0
		if e.Info.ModelPlusMeasErr > 0 {
			weight = e.Info.ModelPlusMeasErr
		}
		samples[i] = netmag.Sample{
			Magnitude: e.Magnitude,
			Weight:    weight,
			Defining:  e.MagDef == "d",
			SigType:   e.SigType,
		}
	}
	return samples
}

func hasSurvivingStaMags(entries []magobj.StaMagEntry) bool {
	return len(entries) > 0
}

func hasDefiningDetectBased(entries []magobj.StaMagEntry) bool {
	for _, e := range entries {
		if e.MagDef == "d" && e.DetectBased {
			return true
		}
	}
	return false
}

// report prints the verbosity-1/2 per-magtype and per-station summary
// lines, grounded on calc_mags.c's diagnostic output.
func (c *Context) report(obj magobj.MagnitudeObject) {
	log.Printf("magtype %s: magnitude=%.3f sigma=%.3f nsta=%d code=%d",
		obj.MagType, obj.NetMagValue, obj.NetMagSigma, obj.NetMagNsta, obj.NetMagCode)

	if c.Params.Verbose < 2 {
		return
	}
	defining, nonDefining := lo.FilterReject(obj.StaMags, func(e magobj.StaMagEntry, _ int) bool {
		return e.MagDef == "d"
	})
	for _, e := range defining {
		log.Printf("  defining  sta=%s phase=%s mag=%.3f delta=%.2f", e.Sta, e.Phase, e.Magnitude, e.Delta)
	}
	for _, e := range nonDefining {
		log.Printf("  nondefining sta=%s phase=%s mag=%.3f delta=%.2f", e.Sta, e.Phase, e.Magnitude, e.Delta)
	}
}
