// Package geo provides the station-to-event distance service consumed by
// the magnitude-computation packages. The underlying geodesic calculation
// is treated as an opaque, injectable collaborator: this package supplies
// one concrete implementation backed by the meeus/unit libraries, but any
// type satisfying Distance can be substituted (e.g. in tests).
package geo

import (
	"github.com/soniakeys/meeus/v3/globe"
	"github.com/soniakeys/unit"
)

// Distance computes the epicentral distance ("delta") in degrees of arc
// between a station and an event. Transmission-loss tables are indexed by
// this same quantity, so callers never need to convert.
type Distance interface {
	Delta(staLat, staLon, evLat, evLon float64) float64
}

// MeeusDistance implements Distance using the approximate angular-distance
// recipe described in Meeus, chapter 11 ("A formula for the approximate
// linear distance between two points on the surface of the Earth"), as
// provided by the soniakeys/meeus globe package.
type MeeusDistance struct{}

// Delta returns the great-circle angular separation, in degrees, between
// the station and event coordinates.
func (MeeusDistance) Delta(staLat, staLon, evLat, evLon float64) float64 {
	sta := globe.Coord{Lat: unit.AngleFromDeg(staLat), Lon: unit.AngleFromDeg(staLon)}
	ev := globe.Coord{Lat: unit.AngleFromDeg(evLat), Lon: unit.AngleFromDeg(evLon)}

	ang := globe.ApproxAngularDistance(sta, ev)
	return ang.Deg()
}
