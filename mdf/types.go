// Package mdf implements the Magnitude Descriptor File subsystem (C3):
// loading the two-section MDF text format and providing a descriptor
// store with the override/revert semantics the engines rely on.
//
// Grounded on read_mdf.c (the loader) and the override_*/revert_*/reset_*
// family in mag_access.c (the store).
package mdf

import magnitude "github.com/sixy6e/go-magnitude"

// Descriptor is the runtime (and possibly overridden) set of controls for
// one magtype, grounded on Mag_Descrip (mag_descrip.h). Every field that
// can be overridden at runtime is shadowed by an orig field captured
// immediately after load, so Revert* restores exactly the post-load
// value.
type Descriptor struct {
	MagType string
	TLType  string

	DetAmpType string
	EvAmpType  string
	AlgoCode   magnitude.AlgoCode

	DistMin, DistMax float64
	SgLim1, SgLim2   float64
	SgBase           float64
	ApplyWgt         bool

	orig struct {
		DetAmpType       string
		EvAmpType        string
		AlgoCode         magnitude.AlgoCode
		DistMin, DistMax float64
		SgLim1, SgLim2   float64
		SgBase           float64
		ApplyWgt         bool
	}
}

func (d *Descriptor) snapshot() {
	d.orig.DetAmpType = d.DetAmpType
	d.orig.EvAmpType = d.EvAmpType
	d.orig.AlgoCode = d.AlgoCode
	d.orig.DistMin = d.DistMin
	d.orig.DistMax = d.DistMax
	d.orig.SgLim1 = d.SgLim1
	d.orig.SgLim2 = d.SgLim2
	d.orig.SgBase = d.SgBase
	d.orig.ApplyWgt = d.ApplyWgt
}

// Cntrl is the read-only snapshot of a Descriptor handed to the
// computation engines, grounded on Mag_Cntrl (mag_descrip.h) — a
// double-precision, immutable view distinct from the mutable Descriptor
// a caller can override through Store.
type Cntrl struct {
	MagType          string
	TLType           string
	DetAmpType       string
	EvAmpType        string
	AlgoCode         magnitude.AlgoCode
	DistMin, DistMax float64
	SgLim1, SgLim2   float64
	SgBase           float64
	ApplyWgt         bool
}

// Cntrl returns the current (possibly overridden) control snapshot for
// this descriptor, grounded on get_magtype_features.
func (d *Descriptor) Cntrl() Cntrl {
	return Cntrl{
		MagType:    d.MagType,
		TLType:     d.TLType,
		DetAmpType: d.DetAmpType,
		EvAmpType:  d.EvAmpType,
		AlgoCode:   d.AlgoCode,
		DistMin:    d.DistMin,
		DistMax:    d.DistMax,
		SgLim1:     d.SgLim1,
		SgLim2:     d.SgLim2,
		SgBase:     d.SgBase,
		ApplyWgt:   d.ApplyWgt,
	}
}

// StationCorrection is a Section B bulk station/TL-type correction,
// grounded on Mag_Sta_TLType (mag_descrip.h).
type StationCorrection struct {
	Station   string
	TLType    string
	Corr      float64
	CorrError float64
}
