// Package geo holds the great-circle math used to turn a sampled path
// into a traveled distance.
package geo

import "math"

const earthRadiusKm = 6371.0

type Point struct {
	Lat float64
	Lon float64
}

func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// PathDistanceKm sums the pairwise distances between consecutive points in
// the order given. It is not a shortest-path measure; reordering the input
// changes the result.
func PathDistanceKm(points []Point) float64 {
	var total float64
	for i := 0; i+1 < len(points); i++ {
		total += HaversineKm(points[i].Lat, points[i].Lon, points[i+1].Lat, points[i+1].Lon)
	}
	return Round2(total)
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
