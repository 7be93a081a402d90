package motion

import "math"

// BobParams shapes the walking bob.
type BobParams struct {
	Amplitude float64 // units
	Frequency float64 // radians per millisecond
	Squash    float64
	Stretch   float64
}

func DefaultBob() BobParams {
	return BobParams{Amplitude: 2, Frequency: 0.02, Squash: 0.03, Stretch: 0.02}
}

// Pose is presentation output only; it never feeds back into position.
type Pose struct {
	Offset  float64 // vertical sprite displacement
	Squash  float64 // shadow vertical scale
	Stretch float64 // shadow horizontal scale
}

// At computes the pose for a walk phase in milliseconds.
func (b BobParams) At(walkElapsed float64) Pose {
	offset := b.Amplitude * math.Sin(walkElapsed*b.Frequency)
	return Pose{
		Offset:  offset,
		Squash:  1 - offset*b.Squash,
		Stretch: 1 + offset*b.Stretch,
	}
}
