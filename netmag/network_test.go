package netmag

import (
	"math"
	"testing"

	magnitude "github.com/sixy6e/go-magnitude"
)

func approxEqual(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %v, want %v (tol %v)", name, got, want, tol)
	}
}

func TestEstimateNetAvgPureSignal(t *testing.T) {
	samples := []Sample{
		{Magnitude: 4.1, Defining: true, SigType: magnitude.MeasSignal},
		{Magnitude: 4.3, Defining: true, SigType: magnitude.MeasSignal},
		{Magnitude: 4.2, Defining: true, SigType: magnitude.MeasSignal},
	}
	mcntrl := MLECntrl{SgBase: 0.3, SgLim1: 0.2, SgLim2: 0.6}

	mag, sigma, sdav, numAmpsUsed, code := Estimate(samples, magnitude.NetAvg, mcntrl, false)

	if code != MlkOK {
		t.Fatalf("code = %v, want MlkOK", code)
	}
	if numAmpsUsed != 3 {
		t.Fatalf("numAmpsUsed = %d, want 3", numAmpsUsed)
	}
	approxEqual(t, "mag", mag, 4.200, 1e-6)
	approxEqual(t, "sigma", sigma, 0.2, 1e-9)
	approxEqual(t, "sdav", sdav, 0.2/math.Sqrt(3), 1e-6)
}

func TestEstimateNetAvgExcludesNonSignal(t *testing.T) {
	samples := []Sample{
		{Magnitude: 4.1, Defining: true, SigType: magnitude.MeasSignal},
		{Magnitude: 9.9, Defining: true, SigType: magnitude.Clipped},
		{Magnitude: 1.0, Defining: true, SigType: magnitude.NonDetect},
		{Magnitude: 4.1, Defining: false, SigType: magnitude.MeasSignal},
	}
	mcntrl := MLECntrl{SgBase: 0.3, SgLim1: 0.2, SgLim2: 0.6}

	mag, _, _, numAmpsUsed, code := Estimate(samples, magnitude.NetAvg, mcntrl, false)

	if code != MlkOK {
		t.Fatalf("code = %v, want MlkOK", code)
	}
	if numAmpsUsed != 1 {
		t.Fatalf("numAmpsUsed = %d, want 1 (clipped/non-detect/non-defining excluded)", numAmpsUsed)
	}
	approxEqual(t, "mag", mag, 4.1, 1e-9)
}

func TestEstimateNoDataReturnsMlkNoData(t *testing.T) {
	samples := []Sample{
		{Magnitude: 4.1, Defining: false, SigType: magnitude.MeasSignal},
	}
	mcntrl := MLECntrl{SgBase: 0.3, SgLim1: 0.2, SgLim2: 0.6}

	_, _, _, _, code := Estimate(samples, magnitude.NetAvg, mcntrl, false)
	if code != MlkNoData {
		t.Fatalf("code = %v, want MlkNoData", code)
	}
}

func TestEstimateMLEOnlyNonDetectDispatchesBoundOnly(t *testing.T) {
	samples := []Sample{
		{Magnitude: 3.0, Defining: true, SigType: magnitude.NonDetect},
		{Magnitude: 3.2, Defining: true, SigType: magnitude.NonDetect},
	}
	mcntrl := MLECntrl{SgBase: 0.3, SgLim1: 0.2, SgLim2: 0.6}

	_, _, _, numAmpsUsed, code := Estimate(samples, magnitude.MLE, mcntrl, false)

	if code != MlkOnlyNonDetect && code != MlkBoundNonDetectNotConverged {
		t.Fatalf("code = %v, want MlkOnlyNonDetect or MlkBoundNonDetectNotConverged", code)
	}
	if code == MlkOnlyNonDetect && numAmpsUsed != 2 {
		t.Fatalf("numAmpsUsed = %d, want 2", numAmpsUsed)
	}
}

func TestEstimateWithBootsNoDataReturnsSentinel(t *testing.T) {
	samples := []Sample{{Magnitude: 4.1, Defining: false}}
	mcntrl := MLECntrl{SgBase: 0.3, SgLim1: 0.2, SgLim2: 0.6}

	boot, _, numAmpsUsed, code := EstimateWithBoots(samples, mcntrl, 10, false, fixedRand(0.5))

	if code != MlkNoData {
		t.Fatalf("code = %v, want MlkNoData", code)
	}
	if numAmpsUsed != 0 {
		t.Fatalf("numAmpsUsed = %d, want 0", numAmpsUsed)
	}
	if boot.NetMag != -999.0 {
		t.Fatalf("NetMag = %v, want -999.0 sentinel", boot.NetMag)
	}
}

// fixedRand satisfies Rand by always returning the same draw, enough to
// exercise the bootstrap resampling path deterministically.
type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }
