package withdrawal

import "time"

// Clock supplies the wall-clock time driving classification and countdowns.
// Injectable so tests can derive views at arbitrary instants.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// SystemClock is the production clock.
var SystemClock Clock = systemClock{}
