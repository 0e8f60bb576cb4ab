// Package geo содержит географические утилиты.
package geo

import "math"

// earthRadiusKm - радиус Земли в километрах
const earthRadiusKm = 6371

// Distance возвращает расстояние по дуге большого круга между двумя
// точками в метрах (формула гаверсинусов).
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c * 1000
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
