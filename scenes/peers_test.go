package scenes

import (
	"math"
	"testing"
)

func TestAimTip(t *testing.T) {
	tests := []struct {
		name   string
		yaw    float64
		wx, wy float32
	}{
		{"forward", 0, 100, 90},
		{"right", math.Pi / 2, 110, 100},
		{"behind", math.Pi, 100, 110},
		{"left", -math.Pi / 2, 90, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := aimTip(100, 100, 10, tt.yaw)
			if math.Abs(float64(x-tt.wx)) > 1e-4 || math.Abs(float64(y-tt.wy)) > 1e-4 {
				t.Errorf("aimTip(yaw=%v) = (%v, %v), want (%v, %v)", tt.yaw, x, y, tt.wx, tt.wy)
			}
		})
	}
}
