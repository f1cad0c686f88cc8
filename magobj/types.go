// Package magobj assembles per-magtype magnitude objects from raw
// amplitude, association, and arrival records (C6), grounded on
// build_mag_obj.c.
package magobj

import (
	magnitude "github.com/sixy6e/go-magnitude"
	"github.com/sixy6e/go-magnitude/mdf"
	"github.com/sixy6e/go-magnitude/stationmag"
)

// Origin is the minimal event-location context build_mag_obj.c threads
// through every distance/range computation, grounded on the Origin
// relation (netmag_Astructs.h).
type Origin struct {
	Orid  int
	Evid  int
	Lat   float64
	Lon   float64
	Depth float64
}

// Amplitude is a single detection- or event-based amplitude measurement,
// grounded on the Amplitude relation.
type Amplitude struct {
	AmpID   int
	ArID    int
	ParID   int
	AmpType string
	Chan    string
	Amp     float64
	Period  float64
	Duration float64
	SNR     float64
	Clipped bool
}

// Assoc links a detection-based amplitude's arrival to a station and
// phase, grounded on the Assoc relation. StaLat/StaLon are supplied
// directly by the caller rather than resolved from a station code, since
// site-table lookup is out of scope (see the geo package).
type Assoc struct {
	ArID           int
	Sta            string
	Phase          string
	StaLat, StaLon float64
}

// Parrival links an event-based amplitude's arrival to a station and
// phase, grounded on the Parrival relation. StaLat/StaLon are supplied
// directly by the caller, as for Assoc.
type Parrival struct {
	ParID          int
	Sta            string
	Phase          string
	StaLat, StaLon float64
}

// ExistingStaMag is a previously computed station magnitude record a
// caller can supply so build_mag_obj's reuse-before-create behavior is
// preserved, grounded on the Stamag relation.
type ExistingStaMag struct {
	AmpID     int
	MagType   string
	MagID     int
	StaMagRec StaMagEntry
}

// ExistingNetMag is a previously computed network magnitude record,
// grounded on the Netmag relation.
type ExistingNetMag struct {
	MagType string
	MagID   int
	NetMag  float64
}

// StaMagEntry is one station-magnitude row inside a MagnitudeObject,
// grounded on the Stamag relation plus SM_Aux (mag_descrip.h).
type StaMagEntry struct {
	AmpID   int
	ArID    int
	Orid    int
	Evid    int
	MagID   int
	Sta     string
	Phase   string
	MagDef  string
	MagType string
	Auth    string
	Delta   float64
	Amp     Amplitude

	// StaLat/StaLon are carried alongside Delta so the Driver can
	// recompute distance on every invocation (supporting iterative
	// re-location) without re-resolving the station from its code.
	StaLat, StaLon float64

	ManualOverride bool
	DetectBased    bool
	Clipped        bool
	SigType        magnitude.SigType

	// Magnitude/Residual/Info are populated by the Driver (not by Build)
	// on each calculation pass, grounded on the per-station outputs
	// calc_mags.c writes back into the Stamag/SM_Sub rows.
	Magnitude float64
	Residual  float64
	Info      stationmag.Info
}

// MagnitudeObject is one requested magtype's fully assembled group of
// station magnitudes plus the netmag record they roll up into, grounded
// on the MAGNITUDE structure (mag_descrip.h).
type MagnitudeObject struct {
	MagType     string
	Cntrl       mdf.Cntrl
	MagComputed bool
	MagWrite    bool
	NetMagID    int
	NetMagValue float64

	// NetMagSigma/NetMagNsta/NetMagCode are populated by the Driver
	// alongside NetMagValue, grounded on network_mag.c's (net_mag, sigma,
	// nsta) output triple plus its MlkCode diagnostic.
	NetMagSigma float64
	NetMagNsta  int
	NetMagCode  int

	StaMags []StaMagEntry
}

// Clone returns a deep copy of obj, so a caller that re-runs a calculation
// (e.g. across re-location iterations) can mutate the result without
// aliasing the StaMags backing array of the object it was derived from.
// Go's GC removes the need for the original's matching free_magnitudes
// call; this preserves only the copy-before-mutate half of that
// discipline, grounded on mag_utils.c.
func (obj MagnitudeObject) Clone() MagnitudeObject {
	clone := obj
	clone.StaMags = make([]StaMagEntry, len(obj.StaMags))
	copy(clone.StaMags, obj.StaMags)
	return clone
}
