package clicker

import (
	"math/rand"
	"time"
)

// jitterBandMS picks the humanized jitter amplitude for a click rate.
// Slow rates tolerate wide jitter; fast rates get a tighter band so the
// effective rate stays near the configured one.
func jitterBandMS(cps float64) int {
	switch {
	case cps > 20:
		return 3
	case cps > 10:
		return 5
	default:
		return 10
	}
}

// humanizedDelay returns the next inter-click delay for Humanized mode:
// the nominal period for cps plus an integer millisecond jitter drawn
// uniformly from the rate's band, floored at one millisecond.
func humanizedDelay(cps float64, rng *rand.Rand) time.Duration {
	band := jitterBandMS(cps)
	jitter := float64(rng.Intn(2*band+1) - band)
	ms := 1000.0/cps + jitter
	if ms < 1 {
		ms = 1
	}
	return time.Duration(ms * float64(time.Millisecond))
}

// burstSize samples how many clicks the next burst carries: uniform in
// [cps/2-5, cps/2+5], never negative.
func burstSize(cps float64, rng *rand.Rand) int {
	base := int(cps / 2)
	low := base - 5
	if low < 0 {
		low = 0
	}
	high := base + 5
	return low + rng.Intn(high-low+1)
}

// burstGap samples the delay used between consecutive clicks inside one
// burst, in the 500 to 1500 microsecond range.
func burstGap(rng *rand.Rand) time.Duration {
	return time.Duration(500+rng.Intn(1001)) * time.Microsecond
}

// burstPause samples the rest between bursts, 450 to 550 milliseconds.
func burstPause(rng *rand.Rand) time.Duration {
	return time.Duration(450+rng.Intn(101)) * time.Millisecond
}
