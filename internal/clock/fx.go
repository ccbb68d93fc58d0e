package clock

import "go.uber.org/fx"

var Module = fx.Module("clock",
	fx.Provide(NewSystem),
)

// NewSystem is the production Clock; tests substitute a FakeClock directly.
func NewSystem() Clock {
	return SystemClock{}
}
