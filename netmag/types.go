// Package netmag combines a collection of station magnitudes into one
// network magnitude estimate (C5), grounded on network_mag.c and its
// three estimator backends: mag_access.c's weighted mean (NET_AVG),
// mag_max_lik.c's EM algorithm (MLE), and mag_boot_strap.c's bootstrap
// wrapper around it (MLE_W_BOOTS).
package netmag

import magnitude "github.com/sixy6e/go-magnitude"

// Sample is one station-magnitude contribution to a network estimate,
// grounded on SM_Sub (mag_descrip.h): a magnitude value, its weight
// (sigma, zero meaning unweighted), whether it is defining, and its
// signal classification.
type Sample struct {
	Magnitude float64
	Weight    float64
	Defining  bool
	SigType   magnitude.SigType
}

// Result is a computed network magnitude and its uncertainty, grounded on
// the (net_mag, sigma) output pair every estimator in network_mag.c
// returns.
type Result struct {
	NetMag float64
	Sigma  float64
	// Converged is false when the MLE path exceeds MAX_ITER, grounded on
	// mag_max_lik's iterer == -2 diagnostic, or when BoundOnly's magnitude
	// search for its last trial sigma reaches its iteration cap.
	Converged bool
}
