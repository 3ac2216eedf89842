package application

import "homecontrol/internal/domain"

// Persister stores and recalls the full home snapshot. Load's second return
// is false when no snapshot exists yet.
type Persister interface {
	Load() (domain.HomeState, bool, error)
	Save(state domain.HomeState) error
}

// NoopPersister keeps nothing; the store then lives purely in memory.
type NoopPersister struct{}

func (NoopPersister) Load() (domain.HomeState, bool, error) {
	return domain.DefaultHomeState(), false, nil
}

func (NoopPersister) Save(_ domain.HomeState) error {
	return nil
}
