package netmag

import "testing"

func TestNetAvgSingleSampleUsesSgBase(t *testing.T) {
	samples := []Sample{{Magnitude: 5.0, Defining: true, SigType: 0}}

	r := NetAvg(samples, 0.25)

	approxEqual(t, "NetMag", r.NetMag, 5.0, 1e-9)
	approxEqual(t, "Sigma", r.Sigma, 0.25, 1e-9)
	if !r.Converged {
		t.Fatalf("expected Converged true")
	}
}

func TestNetAvgNoEligibleSamplesReturnsSentinel(t *testing.T) {
	samples := []Sample{
		{Magnitude: 5.0, Defining: false, SigType: 0},
		{Magnitude: 5.0, Defining: true, SigType: 1},
	}

	r := NetAvg(samples, 0.25)

	if r.NetMag != -999.0 || r.Sigma != -1.0 {
		t.Fatalf("got %+v, want the sentinel result", r)
	}
}

func TestNetAvgWeightedMean(t *testing.T) {
	samples := []Sample{
		{Magnitude: 4.0, Weight: 1.0, Defining: true, SigType: 0},
		{Magnitude: 5.0, Weight: 2.0, Defining: true, SigType: 0},
	}

	r := NetAvg(samples, 0.25)

	// w1=1/1^2=1, w2=1/2^2=0.25; mean=(4*1+5*0.25)/(1+0.25)=5.25/1.25=4.2
	approxEqual(t, "NetMag", r.NetMag, 4.2, 1e-9)
}
