package physics

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// NoiseSource returns a deterministic RandSource that walks a line through
// 2D OpenSimplex noise. Two sources with the same seed produce the same
// sequence, which makes jittered layouts reproducible.
func NoiseSource(seed int64) RandSource {
	noise := opensimplex.NewNormalized(seed)
	var t float64
	return func() float64 {
		t += 0.618033988749895
		v := noise.Eval2(t, t*0.5)
		// Eval2 of a normalized generator lies in [0,1]; keep 1 out of range.
		if v >= 1 {
			v = 0.999999999
		}
		if v < 0 {
			v = 0
		}
		return v
	}
}
