package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"shot-coach/internal/domain/entity"
)

func kp(x, y float64) entity.Keypoint {
	return entity.Keypoint{X: x, Y: y}
}

func TestAngle_RightAngle(t *testing.T) {
	require.InDelta(t, 90.0, Angle(kp(1, 0), kp(0, 0), kp(0, 1)), 1e-9)
}

func TestAngle_Straight(t *testing.T) {
	require.InDelta(t, 180.0, Angle(kp(-1, 0), kp(0, 0), kp(2, 0)), 1e-9)
	require.InDelta(t, 0.0, Angle(kp(1, 0), kp(0, 0), kp(3, 0)), 1e-9)
}

func TestAngle_Degenerate(t *testing.T) {
	b := kp(0.4, 0.4)
	require.Equal(t, 180.0, Angle(b, b, kp(0.1, 0.9)))
	require.Equal(t, 180.0, Angle(kp(0.1, 0.9), b, b))
	require.Equal(t, 180.0, Angle(b, b, b))
}

func TestAngle_SymmetricAndInRange(t *testing.T) {
	points := []entity.Keypoint{
		kp(0, 0), kp(0.3, 0.7), kp(-2, 5), kp(1e-9, 1e-9), kp(100, -3), kp(0.5, 0.5),
		kp(1e200, 1e200), kp(1e200, -1e200), kp(1e-200, 0), kp(0, 1e-200),
		kp(math.Inf(1), 0), kp(math.NaN(), 0.5),
	}
	for _, a := range points {
		for _, b := range points {
			for _, c := range points {
				got := Angle(a, b, c)
				require.False(t, math.IsNaN(got))
				require.GreaterOrEqual(t, got, 0.0)
				require.LessOrEqual(t, got, 180.0)
				require.Equal(t, got, Angle(c, b, a))
			}
		}
	}
}

func TestAngle_ExtremeMagnitudes(t *testing.T) {
	o := kp(0, 0)
	require.InDelta(t, 90.0, Angle(kp(1e200, 1e200), o, kp(1e200, -1e200)), 1e-9)
	require.InDelta(t, 90.0, Angle(kp(1e-200, 0), o, kp(0, 1e-200)), 1e-9)
	require.InDelta(t, 45.0, Angle(kp(1e-300, 0), o, kp(1e-300, 1e-300)), 1e-9)

	// бесконечная или неопределённая длина сегмента равносильна вырожденному
	require.Equal(t, StraightAngle, Angle(kp(math.Inf(1), 0), o, kp(1, 0)))
	require.Equal(t, StraightAngle, Angle(kp(1, 0), o, kp(math.NaN(), 1)))
	require.Equal(t, StraightAngle, Angle(kp(1e308, 0), kp(-1e308, 0), kp(0, 1)))
}

func TestAngle_IgnoresConfidence(t *testing.T) {
	a := entity.Keypoint{X: 1, Y: 0, Confidence: 0}
	c := entity.Keypoint{X: 0, Y: 1, Confidence: 0.99}
	require.InDelta(t, 90.0, Angle(a, kp(0, 0), c), 1e-9)
}
