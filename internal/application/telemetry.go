package application

import "math/rand"

// Telemetry supplies the one-time readings seeded into a room when its
// appliance draft is first committed. Injected so tests can pin exact
// values.
type Telemetry interface {
	RoomTemperature() int
	EnergyUsage() int
}

type randomTelemetry struct {
	rng *rand.Rand
}

// NewRandomTelemetry returns a rand-backed source: temperatures in 65..80°F,
// energy usage in 50..500 units.
func NewRandomTelemetry(seed int64) Telemetry {
	return &randomTelemetry{rng: rand.New(rand.NewSource(seed))}
}

func (t *randomTelemetry) RoomTemperature() int {
	return 65 + t.rng.Intn(16)
}

func (t *randomTelemetry) EnergyUsage() int {
	return 50 + t.rng.Intn(451)
}
