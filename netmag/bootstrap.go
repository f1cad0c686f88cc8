package netmag

import "math"

// BootResult is the expanded output of the bootstrap MLE estimator,
// grounded on mag_boot_strap.c's (fmag1, sigmu, sig1, sigsig) quadruple:
// the bootstrap-mean magnitude/sigma plus their own standard deviations
// across resamples.
type BootResult struct {
	NetMag     float64
	NetMagStd  float64
	Sigma      float64
	SigmaStd   float64
	Resamples  int
	Converged  bool
}

// Rand is the minimal random-index source MLEWithBoots needs, satisfied
// by *math/rand.Rand; injected so resampling is deterministic under test.
type Rand interface {
	Float64() float64
}

// MLEWithBoots repeatedly resamples samples with replacement and refits
// MLE, grounded on mag_boot_strap.c. Convergence is judged on the
// cumulative running sums normalized by the draw count so far — not on
// the incremental per-draw delta — exactly as the original computes
// fabs(*fmag1-fmag0)/num_boot_resamples against the *running total*
// fmag0 (set from the previous iteration's *fmag1, itself still a raw
// accumulator at that point, not yet divided by the resample count).
func MLEWithBoots(samples []Sample, mcntrl MLECntrl, numBoots int, netMag, sigma float64, rnd Rand) BootResult {
	var definingMeas []Sample
	var definingAll []Sample
	var ave float64
	var isig int

	for _, s := range samples {
		if !s.Defining {
			continue
		}
		definingAll = append(definingAll, s)
		if s.SigType == 0 {
			definingMeas = append(definingMeas, s)
			ave += s.Magnitude
			isig++
		}
	}
	if isig != 0 {
		ave /= float64(isig)
	}

	numData := len(definingAll)
	if numData == 0 {
		return BootResult{NetMag: -999.0, Sigma: -1.0}
	}

	var fmag1, fmag2, sig1, sig2 float64
	var fmag0, sig0 float64
	resamples := 0
	converged := false

	for j := 0; j < numBoots; j++ {
		var resampled []Sample
		var numSignals int

		for {
			resampled = make([]Sample, numData)
			numSignals = 0
			for i := 0; i < numData; i++ {
				idx := int(rnd.Float64() * float64(numData))
				if idx == numData {
					idx--
				}
				resampled[i] = definingAll[idx]
				if resampled[i].SigType == 0 {
					numSignals++
				}
			}
			if isig > 0 && numSignals == 0 {
				continue
			}
			break
		}

		r := MLE(resampled, mcntrl, ave, netMag, sigma)
		netMag, sigma = r.NetMag, r.Sigma

		fmag1 += netMag
		fmag2 += netMag * netMag
		sig1 += sigma
		sig2 += sigma * sigma

		numResamples := float64(j + 1)
		resamples = j + 1

		if j > 10 && math.Abs(fmag1-fmag0)/numResamples < 0.01 {
			converged = true
			break
		}
		fmag0 = fmag1
		if j > 10 && math.Abs(sig1-sig0)/numResamples < 0.01 {
			converged = true
			break
		}
		sig0 = sig1
	}

	n := float64(resamples)
	if n == 0 {
		return BootResult{NetMag: -999.0, Sigma: -1.0}
	}

	fmag1 /= n
	fmag2 /= n
	sig1 /= n
	sig2 /= n

	sigmu := 0.0
	if chk := fmag2 - fmag1*fmag1; chk > 0.0 {
		sigmu = math.Sqrt(chk)
	}

	sigsig := sig2 - sig1*sig1
	if mcntrl.SgLim1-mcntrl.SgLim2 == 0.0 {
		sigsig = 0.0
	}
	if sigsig > 0.0 {
		sigsig = math.Sqrt(sigsig)
	}

	return BootResult{
		NetMag:    fmag1,
		NetMagStd: sigmu,
		Sigma:     sig1,
		SigmaStd:  sigsig,
		Resamples: resamples,
		Converged: converged,
	}
}
