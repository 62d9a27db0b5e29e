// Package geo implements the service-region containment tests used by
// checkout validation. A region is either a circle (center plus radius in
// kilometers) or a closed polygon ring of geographic coordinates.
package geo

import (
	"errors"
	"math"
)

// Region type constants
const (
	RegionTypeCircle  = "circle"
	RegionTypePolygon = "polygon"
)

const earthRadiusKm = 6371.0

// Topology errors
var (
	ErrUnknownRegionType = errors.New("unknown region type")
	ErrInvalidRadius     = errors.New("circle radius must be positive")
	ErrOpenRing          = errors.New("polygon ring is not closed")
	ErrTooFewPoints      = errors.New("polygon ring needs at least four points")
)

// Point geographic coordinate in degrees
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Region a store's geographic service-coverage area
type Region struct {
	Type     string  `json:"type"`
	Center   Point   `json:"center,omitempty"`
	RadiusKm float64 `json:"radius_km,omitempty"`
	Ring     []Point `json:"ring,omitempty"`
}

// Validate reports whether the region is well formed. A polygon ring must
// contain at least four points and repeat its first point at the end.
func (r Region) Validate() error {
	switch r.Type {
	case RegionTypeCircle:
		if r.RadiusKm <= 0 {
			return ErrInvalidRadius
		}
		return nil
	case RegionTypePolygon:
		if len(r.Ring) < 4 {
			return ErrTooFewPoints
		}
		first, last := r.Ring[0], r.Ring[len(r.Ring)-1]
		if first.Lat != last.Lat || first.Lng != last.Lng {
			return ErrOpenRing
		}
		return nil
	default:
		return ErrUnknownRegionType
	}
}

// Contains reports whether the point falls inside the region. The region
// must be valid; Contains on a malformed region always returns false.
func (r Region) Contains(p Point) bool {
	switch r.Type {
	case RegionTypeCircle:
		if r.RadiusKm <= 0 {
			return false
		}
		return HaversineKm(r.Center, p) <= r.RadiusKm
	case RegionTypePolygon:
		if r.Validate() != nil {
			return false
		}
		return ringContains(r.Ring, p)
	default:
		return false
	}
}

// HaversineKm great-circle distance between two coordinates in kilometers
func HaversineKm(a, b Point) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// ringContains ray-casting point-in-polygon test over the closed ring.
// Treats coordinates as planar, which is fine at delivery-zone scale.
func ringContains(ring []Point, p Point) bool {
	inside := false
	for i, j := 0, len(ring)-2; i < len(ring)-1; j, i = i, i+1 {
		a, b := ring[i], ring[j]
		intersects := (a.Lng > p.Lng) != (b.Lng > p.Lng) &&
			p.Lat < (b.Lat-a.Lat)*(p.Lng-a.Lng)/(b.Lng-a.Lng)+a.Lat
		if intersects {
			inside = !inside
		}
	}
	return inside
}
