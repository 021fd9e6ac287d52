package weathercond

import "testing"

func TestRainfallIntensity(t *testing.T) {
	cases := []struct {
		name        string
		probability float64
		volume      float64
		want        int
	}{
		{"zero volume always zero", 90, 0, 0},
		{"zero volume ignores high probability", 100, 0, 0},
		{"reference volume at full probability saturates", 100, 30, 100},
		{"above reference saturates at 100", 100, 60, 100},
		{"half probability halves the score", 50, 30, 50},
		{"low volume low probability", 20, 5, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := RainfallIntensity(tc.probability, tc.volume)
			if got != tc.want {
				t.Errorf("RainfallIntensity(%v, %v) = %d, want %d", tc.probability, tc.volume, got, tc.want)
			}
		})
	}
}
