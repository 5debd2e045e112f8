package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		wantKm                 float64
		tolerance              float64
	}{
		{
			name: "same point",
			lat1: 32.0853, lon1: 34.7818,
			lat2: 32.0853, lon2: 34.7818,
			wantKm: 0, tolerance: 0.001,
		},
		{
			name: "tel aviv to jerusalem",
			lat1: 32.0853, lon1: 34.7818,
			lat2: 31.7683, lon2: 35.2137,
			wantKm: 54, tolerance: 2,
		},
		{
			name: "tel aviv to haifa",
			lat1: 32.0853, lon1: 34.7818,
			lat2: 32.7940, lon2: 34.9896,
			wantKm: 81, tolerance: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceKm(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.InDelta(t, tt.wantKm, got, tt.tolerance)
		})
	}
}

func TestDistanceKm_Symmetric(t *testing.T) {
	d1 := DistanceKm(32.0853, 34.7818, 31.7683, 35.2137)
	d2 := DistanceKm(31.7683, 35.2137, 32.0853, 34.7818)
	assert.InDelta(t, d1, d2, 0.0001)
}
