package clock

import "time"

// Clock abstracts the current instant so services and the date codec can
// be driven deterministically in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
