package netmag

import "testing"

func TestMLEIdenticalSignalsConvergesToMean(t *testing.T) {
	samples := []Sample{
		{Magnitude: 4.2, Defining: true, SigType: 0},
		{Magnitude: 4.2, Defining: true, SigType: 0},
		{Magnitude: 4.2, Defining: true, SigType: 0},
	}
	mcntrl := MLECntrl{SgBase: 0.2, SgLim1: 0.1, SgLim2: 0.6}

	r := MLE(samples, mcntrl, 4.2, 4.2, 0.2)

	if !r.Converged {
		t.Fatalf("expected convergence for identical-signal input")
	}
	approxEqual(t, "NetMag", r.NetMag, 4.2, 1e-9)
	approxEqual(t, "Sigma", r.Sigma, mcntrl.SgLim1, 1e-9)
}

func TestMLENoDefiningSamplesReturnsSentinel(t *testing.T) {
	samples := []Sample{{Magnitude: 4.2, Defining: false, SigType: 0}}
	mcntrl := MLECntrl{SgBase: 0.2, SgLim1: 0.1, SgLim2: 0.6}

	r := MLE(samples, mcntrl, 4.2, 4.2, 0.2)

	if r.NetMag != -999.0 || r.Sigma != -1.0 {
		t.Fatalf("got %+v, want the -999.0/-1.0 sentinel result", r)
	}
}

func TestBoundOnlyNonDetectReturnsSigmaFromLargestTrial(t *testing.T) {
	samples := []Sample{
		{Magnitude: 3.0, Defining: true, SigType: 2},
		{Magnitude: 3.2, Defining: true, SigType: 2},
	}
	mcntrl := MLECntrl{SgBase: 0.3, SgLim1: 0.2, SgLim2: 0.4}

	r := BoundOnly(samples, mcntrl, 3.0, -1)

	if r.Sigma <= 0 {
		t.Fatalf("Sigma = %v, want a positive trial width", r.Sigma)
	}
	if r.Sigma > mcntrl.SgLim2+1e-9 {
		t.Fatalf("Sigma = %v, want <= SgLim2 %v", r.Sigma, mcntrl.SgLim2)
	}
}
