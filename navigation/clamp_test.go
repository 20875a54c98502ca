package navigation

import "testing"

func TestClamp(t *testing.T) {
	cases := []struct {
		name       string
		v, lo, hi  float32
		want       float32
	}{
		{"below", -1, 0.1, 1.4, 0.1},
		{"above", 99, 0.1, 1.4, 1.4},
		{"inside", 0.7, 0.1, 1.4, 0.7},
		{"atLower", 0.1, 0.1, 1.4, 0.1},
		{"atUpper", 1.4, 0.1, 1.4, 1.4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Clamp(tc.v, tc.lo, tc.hi); got != tc.want {
				t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tc.v, tc.lo, tc.hi, got, tc.want)
			}
		})
	}
}
