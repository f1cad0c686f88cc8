package netmag

import "math"

// BoundOnly performs the hypothesis-test estimate used when every sample
// is a one-sided bound (all clipped, or all non-detect), grounded
// verbatim on only_bound_amps.c: for a suite of candidate sigma widths,
// search for the assumed event magnitude at which the joint probability
// of the observed bounds lands in [0.9475, 0.9525], then keep the search
// result from the largest sigma tried.
//
// isign is +1 when bounding from above (clipped: true magnitude could be
// anything at or above the clip level) and -1 when bounding from below
// (non-detect).
func BoundOnly(samples []Sample, mcntrl MLECntrl, ave float64, isign int) Result {
	const maxIter = 200
	siginc := 0.05

	sigmax := -1.0
	netMag := 0.0
	lastIter := 0

	isig2 := int(mcntrl.SgLim2 / siginc)
	if mcntrl.SgLim1 == mcntrl.SgLim2 {
		isig2 = 1
		siginc = mcntrl.SgLim1
	}
	if mcntrl.SgLim2 > float64(isig2)*siginc {
		isig2++
	}

	for isig := 0; isig < isig2; isig++ {
		sigma := siginc * float64(isig+1)
		coef1 := float64(isign) * math.Sqrt2 / 2.0 / sigma

		mu := 0.05 * float64(int(20.0*ave)-5*isign)
		mu0 := mu
		prob0 := 1.0
		mu += 0.05 * float64(isign)

		var prob float64
		iter := 0
		for ; iter < maxIter; iter++ {
			prob = 1.0
			for _, s := range samples {
				coef := coef1
				if s.Weight != 0.0 {
					coef = float64(isign) * math.Sqrt2 / 2.0 / math.Sqrt(sigma*sigma+s.Weight*s.Weight)
				}
				prob = prob * 0.5 * (1.0 + math.Erf((mu-s.Magnitude)*coef))
				if prob < 1.0e-20 {
					prob = 0.0
				}
			}
			if prob > 0.9475 && prob < 0.9525 {
				break
			}
			tmp := mu
			if prob < 0.90 {
				mu += 0.1 * float64(isign)
			} else {
				mu -= (mu - mu0) * (prob - 0.95) / (prob - prob0)
			}
			mu0 = tmp
			prob0 = prob
		}
		lastIter = iter

		if sigma < sigmax {
			continue
		}
		netMag = mu
		sigmax = sigma
	}

	return Result{NetMag: netMag, Sigma: sigmax, Converged: lastIter < maxIter}
}
