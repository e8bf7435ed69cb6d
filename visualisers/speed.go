package visualisers

import "time"

// MaxSlider is the largest slider value.
const MaxSlider = 99

// Speed is the runspeed setting of the auto-stepper.
type Speed struct {
	// Fast uses a fixed short interval and turns the slider into a steps-per-tick multiplier.
	Fast   bool
	Slider int
}

// runSpeed returns the tick interval and the number of extra steps taken per tick.
func runSpeed(speed Speed, fastInterval time.Duration, factor float64) (time.Duration, int) {
	slider := min(max(speed.Slider, 0), MaxSlider)
	if speed.Fast {
		return fastInterval, slider / 5
	}
	value := float64(slider + 1)
	ms := int(1000 / (value*value*factor + 1))
	return time.Duration(max(ms, 1)) * time.Millisecond, 0
}
