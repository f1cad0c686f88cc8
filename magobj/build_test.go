package magobj

import (
	"os"
	"path/filepath"
	"testing"

	magnitude "github.com/sixy6e/go-magnitude"
	"github.com/sixy6e/go-magnitude/mdf"
	"github.com/sixy6e/go-magnitude/tltable"
)

type fakeDistance struct{ delta float64 }

func (f fakeDistance) Delta(staLat, staLon, evLat, evLon float64) float64 { return f.delta }

func newBuildFixture(t *testing.T) (*mdf.Store, *tltable.Store) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.mdf")
	contents := `mb TL1 amp_det amp_ev 0 0 100 0.2 0.6 0.3 0

`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("os.WriteFile: %v", err)
	}
	mdfStore, err := mdf.LoadMDF(path, nil)
	if err != nil {
		t.Fatalf("LoadMDF: %v", err)
	}

	tbl := &tltable.Table{
		DistSamples:  []float64{10, 20, 30},
		DepthSamples: []float64{0, 10},
		Values:       [][]float64{{1, 1, 1}, {1, 1, 1}},
	}
	tlStore := tltable.NewSingleTypeStore("TL1", []string{"P"}, tbl)

	return mdfStore, tlStore
}

func TestBuildCreatesNewDefiningStaMag(t *testing.T) {
	mdfStore, tlStore := newBuildFixture(t)
	origin := Origin{Orid: 1, Evid: 1, Lat: 0, Lon: 0, Depth: 10}

	detAmps := []Amplitude{{AmpID: 1, ArID: 100, AmpType: "amp_det", Amp: 50.0, Period: 1.0}}
	assocs := []Assoc{{ArID: 100, Sta: "STA1", Phase: "P", StaLat: 1.0, StaLon: 1.0}}

	objs := Build([]string{"mb"}, mdfStore, tlStore, fakeDistance{delta: 15}, origin, nil, nil, detAmps, nil, assocs, nil)

	if len(objs) != 1 {
		t.Fatalf("len(objs) = %d, want 1", len(objs))
	}
	obj := objs[0]
	if len(obj.StaMags) != 1 {
		t.Fatalf("len(StaMags) = %d, want 1", len(obj.StaMags))
	}
	e := obj.StaMags[0]
	if e.Sta != "STA1" || e.Phase != "P" || e.MagDef != "d" {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if e.Delta != 15 {
		t.Fatalf("Delta = %v, want 15", e.Delta)
	}
	if e.StaLat != 1.0 || e.StaLon != 1.0 {
		t.Fatalf("StaLat/StaLon = %v/%v, want 1.0/1.0", e.StaLat, e.StaLon)
	}
	if !e.DetectBased {
		t.Fatalf("expected DetectBased true for a det-amplitude-sourced entry")
	}
	if e.SigType != magnitude.MeasSignal {
		t.Fatalf("SigType = %v, want MeasSignal for a non-clipped detect-based signal", e.SigType)
	}
	if obj.NetMagID == 0 {
		t.Fatalf("expected a newly minted negative NetMagID")
	}
}

func TestBuildSkipsInvalidPhase(t *testing.T) {
	mdfStore, tlStore := newBuildFixture(t)
	origin := Origin{Orid: 1, Evid: 1, Lat: 0, Lon: 0, Depth: 10}

	detAmps := []Amplitude{{AmpID: 1, ArID: 100, AmpType: "amp_det", Amp: 50.0, Period: 1.0}}
	assocs := []Assoc{{ArID: 100, Sta: "STA1", Phase: "S", StaLat: 1.0, StaLon: 1.0}}

	objs := Build([]string{"mb"}, mdfStore, tlStore, fakeDistance{delta: 15}, origin, nil, nil, detAmps, nil, assocs, nil)

	if len(objs[0].StaMags) != 0 {
		t.Fatalf("expected no station magnitudes for an unregistered phase, got %d", len(objs[0].StaMags))
	}
}

func TestBuildSkipsOutOfRangeDistance(t *testing.T) {
	mdfStore, tlStore := newBuildFixture(t)
	origin := Origin{Orid: 1, Evid: 1, Lat: 0, Lon: 0, Depth: 10}

	detAmps := []Amplitude{{AmpID: 1, ArID: 100, AmpType: "amp_det", Amp: 50.0, Period: 1.0}}
	assocs := []Assoc{{ArID: 100, Sta: "STA1", Phase: "P", StaLat: 1.0, StaLon: 1.0}}

	objs := Build([]string{"mb"}, mdfStore, tlStore, fakeDistance{delta: 1000}, origin, nil, nil, detAmps, nil, assocs, nil)

	if len(objs[0].StaMags) != 0 {
		t.Fatalf("expected no station magnitudes for an out-of-range distance, got %d", len(objs[0].StaMags))
	}
}

func TestBuildReusesExistingStaMagAndRefreshesStation(t *testing.T) {
	mdfStore, tlStore := newBuildFixture(t)
	origin := Origin{Orid: 1, Evid: 1, Lat: 0, Lon: 0, Depth: 10}

	detAmps := []Amplitude{{AmpID: 1, ArID: 100, AmpType: "amp_det", Amp: 50.0, Period: 1.0}}
	assocs := []Assoc{{ArID: 100, Sta: "STA1", Phase: "P", StaLat: 2.0, StaLon: 3.0}}
	existing := []ExistingStaMag{{
		AmpID: 1, MagType: "mb", MagID: 42,
		StaMagRec: StaMagEntry{AmpID: 1, MagType: "mb", Sta: "OLDSTA", Phase: "P", MagDef: "d", StaLat: 0, StaLon: 0},
	}}
	existingNet := []ExistingNetMag{{MagType: "mb", MagID: 42, NetMag: 4.5}}

	objs := Build([]string{"mb"}, mdfStore, tlStore, fakeDistance{delta: 15}, origin, existingNet, existing, detAmps, nil, assocs, nil)

	obj := objs[0]
	if len(obj.StaMags) != 1 {
		t.Fatalf("len(StaMags) = %d, want 1", len(obj.StaMags))
	}
	e := obj.StaMags[0]
	if e.Sta != "STA1" || e.StaLat != 2.0 || e.StaLon != 3.0 {
		t.Fatalf("reused entry should refresh station fields from the current assoc, got %+v", e)
	}
	if obj.NetMagID != 42 || obj.NetMagValue != 4.5 {
		t.Fatalf("expected the pre-existing netmag to be reused, got NetMagID=%d NetMagValue=%v", obj.NetMagID, obj.NetMagValue)
	}
}
