// Package csm computes cascaded shadow map splits and fits an orthographic
// light projection around each slice of the view frustum.
package csm

import (
	"math"
)

// Count is the number of cascades rendered per frame.
const Count = 4

// DefaultLambda blends mostly towards logarithmic splits.
const DefaultLambda = 0.95

const minNear = 1e-4

// ClampLambda clamps a split blend factor into [0,1]. NaN maps to DefaultLambda.
func ClampLambda(lambda float32) float32 {
	switch {
	case math.IsNaN(float64(lambda)):
		return DefaultLambda
	case lambda < 0:
		return 0
	case lambda > 1:
		return 1
	default:
		return lambda
	}
}

// Splits returns count normalized split distances in (0,1], strictly
// increasing, with the last one exactly 1. Each split blends the logarithmic
// and uniform schemes: lambda = 1 is fully logarithmic, 0 fully uniform.
func Splits(near, far float32, count int, lambda float32) []float32 {
	if count < 1 {
		count = 1
	}
	lambda = ClampLambda(lambda)
	n := float64(near)
	if n < minNear {
		n = minNear
	}
	f := float64(far)
	if f <= n {
		f = n + 1
	}
	clipRange := f - n
	ratio := f / n
	l := float64(lambda)

	splits := make([]float32, count)
	for i := 0; i < count; i++ {
		p := float64(i+1) / float64(count)
		logSplit := n * math.Pow(ratio, p)
		uniform := n + clipRange*p
		d := l*(logSplit-uniform) + uniform
		splits[i] = float32((d - n) / clipRange)
	}
	splits[count-1] = 1
	return splits
}
