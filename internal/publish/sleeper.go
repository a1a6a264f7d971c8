package publish

import "time"

// Sleeper pauses between successive creations.
type Sleeper interface {
	Sleep(d time.Duration)
}

// SleeperFunc adapts a function to Sleeper.
type SleeperFunc func(time.Duration)

func (f SleeperFunc) Sleep(d time.Duration) { f(d) }

// WallClock sleeps for real.
var WallClock Sleeper = SleeperFunc(time.Sleep)
