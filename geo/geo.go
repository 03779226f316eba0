// Package geo holds the geometric side of the accessibility proxy:
// zone centroids, great-circle distances and the straight-line
// travel-time estimate.
package geo

import (
	"math"

	"github.com/paulmach/orb"
)

const earthRadiusM = 6371000.0

// Centroid computes the signed-area (shoelace) centroid of a ring.
// A repeated closing vertex is dropped first. Degenerate rings
// (near-zero signed area) fall back to the arithmetic mean of the
// vertices.
func Centroid(ring orb.Ring) (lon, lat float64) {
	pts := []orb.Point(ring)
	if len(pts) > 1 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}
	if len(pts) == 0 {
		return 0, 0
	}

	var area, cx, cy float64
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		cross := p[0]*q[1] - q[0]*p[1]
		area += cross
		cx += (p[0] + q[0]) * cross
		cy += (p[1] + q[1]) * cross
	}
	area /= 2

	if math.Abs(area) < 1e-12 {
		cx, cy = 0, 0
		for _, p := range pts {
			cx, cy = cx+p[0], cy+p[1]
		}
		return cx / float64(len(pts)), cy / float64(len(pts))
	}

	return cx / (6 * area), cy / (6 * area)
}

// HaversineMeters returns the great-circle distance between two
// points given in degrees.
func HaversineMeters(lon1, lat1, lon2, lat2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Pow(math.Sin(dPhi/2), 2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Pow(math.Sin(dLambda/2), 2)
	return 2 * earthRadiusM * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// TravelMinutes estimates door-to-stop travel time: straight-line
// distance at a fixed in-vehicle speed plus a constant boarding
// penalty. Deliberately a coarse proxy, not a routed time.
func TravelMinutes(distanceM, speedKmh, boardingPenaltyMin float64) float64 {
	return distanceM/(speedKmh*1000/60) + boardingPenaltyMin
}
