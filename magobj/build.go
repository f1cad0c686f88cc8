package magobj

import (
	"github.com/samber/lo"

	magnitude "github.com/sixy6e/go-magnitude"
	"github.com/sixy6e/go-magnitude/geo"
	"github.com/sixy6e/go-magnitude/mdf"
	"github.com/sixy6e/go-magnitude/tltable"
)

var nextMagID = -1

// Build assembles one MagnitudeObject per requested magtype, grounded on
// build_mag_obj.c: reuse pre-existing station magnitudes where a matching
// (ampid, magtype, amptype) triple already exists, otherwise create a new
// defining station-magnitude entry gated by valid_phase_for_TLtype and
// valid_range_for_TLtable, and finally attach or mint the owning netmag
// record.
//
// lo.Find replaces the original's repeated linear scans over
// in_stamag/in_assoc/in_parrival with the pack's slice-utility idiom.
func Build(magTypes []string, mdfStore *mdf.Store, tlStore *tltable.Store, dist geo.Distance, origin Origin, existingNetmags []ExistingNetMag, existingStamags []ExistingStaMag, detAmps []Amplitude, evAmps []Amplitude, assocs []Assoc, parrivals []Parrival) []MagnitudeObject {
	out := make([]MagnitudeObject, 0, len(magTypes))

	for _, magType := range magTypes {
		desc, ok := mdfStore.Get(magType)
		if !ok {
			continue
		}
		cntrl := desc.Cntrl()

		obj := MagnitudeObject{MagType: magType, Cntrl: cntrl}

		var stamags []StaMagEntry
		numExisting := 0

		detBased := buildFromAmplitudes(magType, cntrl, detAmps, existingStamags, true, origin, dist, mdfStore, tlStore,
			func(ampID int) (arID int, sta, phase string, staLat, staLon float64, ok bool) {
				det, found := lo.Find(detAmps, func(d Amplitude) bool { return d.AmpID == ampID })
				if !found {
					return 0, "", "", 0, 0, false
				}
				a, found := lo.Find(assocs, func(a Assoc) bool { return a.ArID == det.ArID })
				if !found {
					return 0, "", "", 0, 0, false
				}
				return a.ArID, a.Sta, a.Phase, a.StaLat, a.StaLon, true
			})
		stamags = append(stamags, detBased.entries...)
		numExisting += detBased.numExisting

		if cntrl.AlgoCode != magnitude.NetAvg {
			evBased := buildFromAmplitudes(magType, cntrl, evAmps, existingStamags, false, origin, dist, mdfStore, tlStore,
				func(ampID int) (arID int, sta, phase string, staLat, staLon float64, ok bool) {
					amp, found := lo.Find(evAmps, func(e Amplitude) bool { return e.AmpID == ampID })
					if !found {
						return 0, "", "", 0, 0, false
					}
					p, found := lo.Find(parrivals, func(p Parrival) bool { return p.ParID == amp.ParID })
					if !found {
						return 0, "", "", 0, 0, false
					}
					return amp.ArID, p.Sta, p.Phase, p.StaLat, p.StaLon, true
				})
			for i := range evBased.entries {
				evBased.entries[i].DetectBased = false
			}
			stamags = append(stamags, evBased.entries...)
			numExisting += evBased.numExisting
		}

		if len(stamags) == 0 {
			out = append(out, obj)
			continue
		}

		var magID int
		if numExisting > 0 {
			if nm, found := lo.Find(existingNetmags, func(n ExistingNetMag) bool { return n.MagType == magType }); found {
				obj.NetMagID = nm.MagID
				obj.NetMagValue = nm.NetMag
				magID = nm.MagID
			}
		} else {
			nextMagID--
			magID = nextMagID
			obj.NetMagID = magID
			obj.NetMagValue = magnitude.NA_MAGNITUDE
		}
		for i := range stamags {
			stamags[i].MagID = magID
		}

		for i := range stamags {
			if !stamags[i].DetectBased {
				stamags[i].SigType = magnitude.NonDetect
			} else if !stamags[i].Clipped {
				stamags[i].SigType = magnitude.MeasSignal
			} else {
				stamags[i].SigType = magnitude.Clipped
			}
		}

		obj.StaMags = stamags
		out = append(out, obj)
	}

	return out
}

type groupResult struct {
	entries     []StaMagEntry
	numExisting int
}

// buildFromAmplitudes implements the shared det/ev-amplitude grouping
// loop: reuse an existing stamag for a matching (ampid, magtype,
// amptype), else attempt to create a new defining entry once the
// associated station/phase resolves to a valid TL phase and range.
func buildFromAmplitudes(magType string, cntrl mdf.Cntrl, amps []Amplitude, existing []ExistingStaMag, detectBased bool, origin Origin, dist geo.Distance, mdfStore *mdf.Store, tlStore *tltable.Store, resolve func(ampID int) (arID int, sta, phase string, staLat, staLon float64, ok bool)) groupResult {
	ampType := cntrl.EvAmpType
	if detectBased {
		ampType = cntrl.DetAmpType
	}

	var res groupResult

	for _, amp := range amps {
		if amp.AmpType != ampType {
			continue
		}

		if ex, found := lo.Find(existing, func(e ExistingStaMag) bool {
			return e.AmpID == amp.AmpID && e.MagType == magType
		}); found {
			entry := ex.StaMagRec
			entry.Amp = amp
			// The caller's pre-existing record carries whatever
			// station coordinates it was last stamped with; refresh
			// them from the current assoc/parrival link when
			// available so the Driver recomputes distance against the
			// station's actual location rather than a stale copy.
			if _, sta, phase, staLat, staLon, ok := resolve(amp.AmpID); ok {
				entry.Sta, entry.Phase = sta, phase
				entry.StaLat, entry.StaLon = staLat, staLon
			}
			res.entries = append(res.entries, entry)
			res.numExisting++
			continue
		}

		arID, sta, phase, staLat, staLon, ok := resolve(amp.AmpID)
		if !ok {
			continue
		}

		delta := dist.Delta(staLat, staLon, origin.Lat, origin.Lon)
		if delta <= 0.0 {
			continue
		}

		if !tlStore.ValidPhaseForTLType(cntrl.TLType, phase) {
			continue
		}
		if !tlStore.ValidRangeForTLTable(cntrl.TLType, sta, phase, amp.Chan, delta, origin.Depth) {
			continue
		}

		res.entries = append(res.entries, StaMagEntry{
			AmpID:       amp.AmpID,
			ArID:        arID,
			Orid:        origin.Orid,
			Evid:        origin.Evid,
			Sta:         sta,
			Phase:       phase,
			MagDef:      "d",
			MagType:     magType,
			Auth:        "build_mag_obj",
			Delta:       delta,
			Amp:         amp,
			StaLat:      staLat,
			StaLon:      staLon,
			DetectBased: detectBased,
			Clipped:     amp.Clipped,
		})
	}

	return res
}
