package netmag

import "testing"

// sequenceRand cycles through a fixed set of draws, enough to exercise
// MLEWithBoots's resampling loop without needing *math/rand.
type sequenceRand struct {
	draws []float64
	i     int
}

func (s *sequenceRand) Float64() float64 {
	v := s.draws[s.i%len(s.draws)]
	s.i++
	return v
}

func TestMLEWithBootsIdenticalSignalsConverges(t *testing.T) {
	samples := []Sample{
		{Magnitude: 4.2, Defining: true, SigType: 0},
		{Magnitude: 4.2, Defining: true, SigType: 0},
		{Magnitude: 4.2, Defining: true, SigType: 0},
	}
	mcntrl := MLECntrl{SgBase: 0.2, SgLim1: 0.1, SgLim2: 0.6}
	rnd := &sequenceRand{draws: []float64{0.1, 0.4, 0.8}}

	boot := MLEWithBoots(samples, mcntrl, 30, 0.0, 0.0, rnd)

	if boot.Resamples == 0 {
		t.Fatalf("expected at least one resample to run")
	}
	approxEqual(t, "NetMag", boot.NetMag, 4.2, 1e-6)
}

func TestMLEWithBootsNoDefiningReturnsSentinel(t *testing.T) {
	samples := []Sample{{Magnitude: 4.2, Defining: false, SigType: 0}}
	mcntrl := MLECntrl{SgBase: 0.2, SgLim1: 0.1, SgLim2: 0.6}
	rnd := &sequenceRand{draws: []float64{0.5}}

	boot := MLEWithBoots(samples, mcntrl, 10, 0.0, 0.0, rnd)

	if boot.NetMag != -999.0 || boot.Sigma != -1.0 {
		t.Fatalf("got %+v, want the sentinel result", boot)
	}
}
