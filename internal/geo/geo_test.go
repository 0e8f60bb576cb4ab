package geo

import (
	"math"
	"testing"
)

func TestDistanceZero(t *testing.T) {
	if d := Distance(41.3, 69.2, 41.3, 69.2); d != 0 {
		t.Fatalf("distance to self must be 0, got %f", d)
	}
}

func TestDistanceKnownPoints(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64 // метры
	}{
		{"Tashkent-Samarkand", 41.2995, 69.2401, 39.6270, 66.9750, 266000},
		{"one degree latitude", 0, 0, 1, 0, 111195},
		{"equator quarter", 0, 0, 0, 90, 10007543},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			// Гаверсинус на сферическом радиусе: допускаем 1% расхождения
			if math.Abs(got-tt.want) > tt.want*0.01 {
				t.Fatalf("got %f, want ~%f", got, tt.want)
			}
		})
	}
}

func TestDistanceSymmetry(t *testing.T) {
	ab := Distance(41.3, 69.2, 39.6, 66.9)
	ba := Distance(39.6, 66.9, 41.3, 69.2)
	if math.Abs(ab-ba) > 1e-6 {
		t.Fatalf("distance must be symmetric: %f vs %f", ab, ba)
	}
}
