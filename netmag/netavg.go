package netmag

import "math"

// NetAvg computes a weighted-mean network magnitude over the defining,
// measured-signal samples, grounded on the NET_AVG branch of
// network_mag.c: unweighted samples contribute with weight 1, weighted
// samples contribute 1/weight^2, and the final sigma is the sample
// standard deviation about the mean (or sgbase when only one sample
// contributes).
func NetAvg(samples []Sample, sgbase float64) Result {
	var sumMag, sumWt float64
	var n int

	for _, s := range samples {
		if !s.Defining || s.SigType != 0 {
			continue
		}
		w := 1.0
		if s.Weight != 0.0 {
			w = 1.0 / (s.Weight * s.Weight)
		}
		sumMag += s.Magnitude * w
		sumWt += w
		n++
	}

	if n == 0 || sumWt == 0.0 {
		return Result{NetMag: -999.0, Sigma: -1.0}
	}

	mean := sumMag / sumWt

	if n <= 1 {
		return Result{NetMag: mean, Sigma: sgbase, Converged: true}
	}

	var sumSq float64
	for _, s := range samples {
		if !s.Defining || s.SigType != 0 {
			continue
		}
		d := s.Magnitude - mean
		w := 1.0
		if s.Weight != 0.0 {
			w = 1.0 / (s.Weight * s.Weight)
		}
		sumSq += d * d * w
	}

	sigma := math.Sqrt(sumSq / (float64(n) - 1.0))
	return Result{NetMag: mean, Sigma: sigma, Converged: true}
}
