package engine

import (
	"math"

	"github.com/san-kum/moebius/internal/mobius"
)

// timeScale converts seconds of animation into shift time: one unit of
// scaled time per 90 seconds at speed 1.
const timeScale = 90.0

// ScaledTime returns the time passed to Kernel.Shift.
func ScaledTime(seconds, speed float64) float64 {
	return speed * seconds / timeScale
}

// FrameCount is the number of frames rendered for fps·duration,
// rounded to the nearest whole frame and never less than one.
func FrameCount(fps int, duration float64) int {
	n := int(math.Round(float64(fps) * duration))
	if n < 1 {
		n = 1
	}
	return n
}

// FrameTimes spreads FrameCount instants over [0, duration], both ends
// included.
func FrameTimes(fps int, duration float64) []float64 {
	return mobius.Linspace(0, duration, FrameCount(fps, duration))
}
