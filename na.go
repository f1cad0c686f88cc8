package magnitude

// Sentinel "not available" values, mirroring the NULL_* constant
// convention (nulls.go) applied to the original's N/A attribute values
// (Na_Stamag_Init.magnitude, Na_Netmag_Init.magnitude, NA_MODEL_ERROR).
const (
	NA_MAGNITUDE    = -999.0
	NA_UNCERTAINTY  = -1.0
	NA_MODEL_ERROR  = -999.9
	NA_MAGID        = -1
	NA_MAGRES       = -999.0
)

// IsNaMagnitude reports whether a computed magnitude equals the N/A
// sentinel within the same 0.1 tolerance calc_mags.c uses
// (fabs(sm->magnitude - Na_Stamag_rec.magnitude) < 0.1).
func IsNaMagnitude(mag float64) bool {
	d := mag - NA_MAGNITUDE
	if d < 0 {
		d = -d
	}
	return d < 0.1
}
