package netmag

import (
	"math"

	magnitude "github.com/sixy6e/go-magnitude"
)

// MlkCode mirrors network_mag.c's diagnostic return value: negative for
// errors, zero for a successful MLE fit, positive to flag that only
// bound data (non-detect or clipped) was available.
type MlkCode int

const (
	MlkOK             MlkCode = 0
	MlkNoData         MlkCode = -1
	MlkMLENotConverged MlkCode = -2
	MlkBoundNonDetectNotConverged MlkCode = -3
	MlkBoundClippedNotConverged  MlkCode = -4
	MlkOnlyNonDetect  MlkCode = 1
	MlkOnlyClipped    MlkCode = 2
)

// Estimate returns a network magnitude over samples using the algorithm
// algo selects (NET_AVG, MLE, or MLE_W_BOOTS — the bootstrap
// variant is dispatched the same as MLE here but expected to be invoked
// through EstimateWithBoots when bootstrap statistics are wanted),
// grounded on network_mag.c's full per-type accumulation followed by its
// NET_AVG/else branch.
//
// numAmpsUsed reports how many measured-signal (NET_AVG) or
// measured+clipped+non-detect (MLE) samples contributed, and sdav is the
// standard deviation of the network mean (sigma/sqrt(numAmpsUsed)),
// mirroring the original's *sdav output.
func Estimate(samples []Sample, algo magnitude.AlgoCode, mcntrl MLECntrl, verbose bool) (mag, sigma, sdav float64, numAmpsUsed int, code MlkCode) {
	var num [3]int
	var sum, sumsq, sig, wave, magWgt, ave, stdev [3]float64

	sigmaFixed := 0.0
	if mcntrl.SgLim1 == mcntrl.SgLim2 {
		sigmaFixed = mcntrl.SgBase
	}
	sigmaSqrd := sigmaFixed * sigmaFixed

	for _, s := range samples {
		if !s.Defining {
			continue
		}
		t := int(s.SigType)
		num[t]++
		sum[t] += s.Magnitude
		sumsq[t] += s.Magnitude * s.Magnitude
		wtSqrd := s.Weight * s.Weight
		if s.Weight != 0.0 {
			if sigmaFixed != 0.0 {
				wave[t] += s.Magnitude / sigmaSqrd
				magWgt[t] += s.Magnitude * s.Magnitude / sigmaSqrd
				sig[t] += 1.0 / sigmaSqrd
			} else {
				wave[t] += s.Magnitude / wtSqrd
				magWgt[t] += s.Magnitude * s.Magnitude / wtSqrd
				sig[t] += 1.0 / wtSqrd
			}
		}
	}

	if num[0] == 0 && num[2] == 0 && num[1] == 0 {
		return 0, 0, 0, 0, MlkNoData
	}

	for i := 0; i < 3; i++ {
		switch {
		case num[i] == 1:
			ave[i] = sum[i]
			if sig[i] != 0.0 {
				wave[i] /= sig[i]
			} else {
				wave[i] = ave[i]
			}
			stdev[i] = mcntrl.SgBase
		case num[i] > 1:
			dnum := float64(num[i])
			ave[i] = sum[i] / dnum
			var arg float64
			if sig[i] != 0.0 {
				wave[i] /= sig[i]
				arg = (magWgt[i]/sig[i] - wave[i]*wave[i]) * dnum / (dnum - 1)
			} else {
				wave[i] = ave[i]
				arg = (sumsq[i] - ave[i]*ave[i]*dnum) / (dnum - 1)
			}
			if arg <= 0.0 {
				arg = 1.0e-20
			}
			stdev[i] = math.Sqrt(arg)
		}
	}

	if algo == magnitude.NetAvg {
		numAmpsUsed = num[0]
		mag = wave[0]
		sigma = stdev[0]
		if mcntrl.SgLim1 != mcntrl.SgLim2 {
			if sigma < mcntrl.SgLim1 {
				sigma = mcntrl.SgLim1
			} else if sigma > mcntrl.SgLim2 {
				sigma = mcntrl.SgLim2
			}
		}
		if numAmpsUsed > 0 {
			sdav = sigma / math.Sqrt(float64(numAmpsUsed))
		} else {
			sdav = sigma
		}
		return mag, sigma, sdav, numAmpsUsed, MlkOK
	}

	code = MlkOK
	if num[0] == 0 {
		switch {
		case num[1] == 0:
			code = MlkOnlyNonDetect
			bound := boundSamples(samples, 2)
			r := BoundOnly(bound, mcntrl, ave[2], -1)
			if !r.Converged {
				return 0, 0, 0, 0, MlkBoundNonDetectNotConverged
			}
			mag, sigma = r.NetMag, r.Sigma
		case num[2] == 0:
			code = MlkOnlyClipped
			bound := boundSamples(samples, 1)
			r := BoundOnly(bound, mcntrl, ave[1], 1)
			if !r.Converged {
				return 0, 0, 0, 0, MlkBoundClippedNotConverged
			}
			mag, sigma = r.NetMag, r.Sigma
		default:
			ave[0] = (ave[1] + ave[2]) / 2.0
			mag = ave[2]
			r := MLE(samples, mcntrl, ave[2], mag, sigma)
			mag, sigma = r.NetMag, r.Sigma
			if !r.Converged {
				code = MlkMLENotConverged
			}
		}
	} else {
		mag = ave[0]
		r := MLE(samples, mcntrl, ave[0], mag, sigma)
		mag, sigma = r.NetMag, r.Sigma
		if !r.Converged {
			code = MlkMLENotConverged
		}
	}

	numAmpsUsed = num[0] + num[1] + num[2]
	if numAmpsUsed > 0 {
		sdav = sigma / math.Sqrt(float64(numAmpsUsed))
	} else {
		sdav = sigma
	}
	return mag, sigma, sdav, numAmpsUsed, code
}

// EstimateWithBoots runs the bootstrap estimator (mag_boot_strap.c) over
// every defining sample, whatever its signal type, and returns its
// expanded statistics with an MlkCode, sdav (boot.Sigma/sqrt(n)) and the
// defining-sample count n. Unlike Estimate it has no NET_AVG or bound-only
// branch; it returns MlkNoData when no sample is defining.
func EstimateWithBoots(samples []Sample, mcntrl MLECntrl, numBoots int, verbose bool, rnd Rand) (boot BootResult, sdav float64, numAmpsUsed int, code MlkCode) {
	var definingAll []Sample
	var num [3]int
	for _, s := range samples {
		if s.Defining {
			definingAll = append(definingAll, s)
			num[int(s.SigType)]++
		}
	}
	if num[0] == 0 && num[1] == 0 && num[2] == 0 {
		return BootResult{NetMag: -999.0, Sigma: -1.0}, 0, 0, MlkNoData
	}

	boot = MLEWithBoots(definingAll, mcntrl, numBoots, 0.0, 0.0, rnd)
	if !boot.Converged {
		code = MlkMLENotConverged
	}

	numAmpsUsed = num[0] + num[1] + num[2]
	if numAmpsUsed > 0 {
		sdav = boot.Sigma / math.Sqrt(float64(numAmpsUsed))
	} else {
		sdav = boot.Sigma
	}
	return boot, sdav, numAmpsUsed, code
}

func boundSamples(samples []Sample, sigType int) []Sample {
	out := make([]Sample, 0, len(samples))
	for _, s := range samples {
		if s.Defining && int(s.SigType) == sigType {
			out = append(out, s)
		}
	}
	return out
}
