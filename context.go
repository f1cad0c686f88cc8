package magnitude

import (
	"math/rand"
	"time"

	"github.com/sixy6e/go-magnitude/geo"
	"github.com/sixy6e/go-magnitude/mdf"
	"github.com/sixy6e/go-magnitude/netmag"
	"github.com/sixy6e/go-magnitude/tltable"
)

// Context is the single long-lived mutable object a caller constructs
// once via Setup and threads through every later Calculate call, grounded
// on GsfFile (file.go): one struct owning every piece of process-wide
// state setup_mag_facilities used to stash in static globals (the loaded
// TL store, the MDF store, the geodesic-distance collaborator, and the
// run-control Params, including the ComputeUpperBounds flag
// mag_set_compute_upper_bounds toggles).
//
// Context is not safe for concurrent use: callers must not invoke Setup
// concurrently with any query method, nor Reset*/Revert* concurrently
// with Calculate.
type Context struct {
	MDF    *mdf.Store
	TL     *tltable.Store
	Dist   geo.Distance
	Interp tltable.Interpolator
	Params *Params

	// Rnd is the bootstrap resampler's random source, grounded on
	// mag_boot_strap.c's srand48 seeding: each Setup seeds a new source
	// from wall-clock seconds, not reseeded per call. Determinism under identical
	// inputs is not guaranteed; tests that need it should substitute their
	// own Rnd.
	Rnd netmag.Rand
}

// Setup loads the MDF at mdfPath (restricted to magTypes) and, from the
// TL-types it references, the TLSF at tlsfPath, returning a ready Context.
// Grounded on setup_mag_facilities: the MDF is always loaded first since
// it is what tells the TL loader which types are actually needed.
func Setup(mdfPath, tlsfPath string, magTypes []string, dist geo.Distance, interp tltable.Interpolator, params *Params) (*Context, error) {
	mdfStore, err := mdf.LoadMDF(mdfPath, magTypes)
	if err != nil {
		return nil, err
	}

	tlStore, err := tltable.LoadTLSF(tlsfPath, mdfStore.TLTypes())
	if err != nil {
		return nil, err
	}

	if params == nil {
		params = NewParams()
	}

	return &Context{
		MDF:    mdfStore,
		TL:     tlStore,
		Dist:   dist,
		Interp: interp,
		Params: params,
		Rnd:    rand.New(rand.NewSource(time.Now().Unix())),
	}, nil
}

// FreeTLTable releases the loaded TL store, grounded on free_tl_table.
// Calculate must not be invoked again until a new TL store is installed
// (typically by calling Setup again, or assigning a freshly-loaded
// tltable.Store to c.TL directly).
func (c *Context) FreeTLTable() {
	c.TL = nil
}

// ComputeUpperBounds reports whether magnitudes backed solely by
// event-based (upper-bound) amplitudes are persisted, grounded on
// mag_get_compute_upper_bounds.
func (c *Context) ComputeUpperBounds() bool {
	return c.Params.ComputeUpperBounds
}

// SetComputeUpperBounds toggles that behaviour, grounded on
// mag_set_compute_upper_bounds.
func (c *Context) SetComputeUpperBounds(v bool) {
	c.Params.ComputeUpperBounds = v
}
