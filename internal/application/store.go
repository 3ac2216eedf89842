package application

import (
	"log/slog"
	"sync"

	"homecontrol/internal/domain"
)

// HomeStore owns the canonical HomeState. Every mutation applies a pure
// domain transformation under the lock, writes the whole snapshot through
// the Persister, and notifies subscribers with a copy of the new state.
// Reads return deep copies; callers never see shared room slices.
//
// Unknown room/appliance ids are silent no-ops (logged at debug), matching
// the best-effort contract the views rely on.
type HomeStore struct {
	persister Persister
	logger    *slog.Logger

	mu        sync.RWMutex
	state     domain.HomeState
	observers []func(domain.HomeState)
}

func NewHomeStore(persister Persister, logger *slog.Logger) *HomeStore {
	s := &HomeStore{
		persister: persister,
		logger:    logger,
	}

	state, found, err := persister.Load()
	if err != nil {
		logger.Warn("loading snapshot failed, starting from defaults", "error", err)
		state = domain.DefaultHomeState()
	} else if !found {
		state = domain.DefaultHomeState()
	}
	if state.CurrentStep < 1 {
		state.CurrentStep = 1
	}
	if state.Rooms == nil {
		state.Rooms = []Room{}
	}
	s.state = state

	return s
}

// Convenience aliases so callers outside internal/domain read naturally.
type (
	Room           = domain.Room
	Appliance      = domain.Appliance
	RoomPatch      = domain.RoomPatch
	AppliancePatch = domain.AppliancePatch
)

// Subscribe registers fn to run after every committed mutation with a copy
// of the new state. Subscribers must not call back into the store's
// mutation API from fn.
func (s *HomeStore) Subscribe(fn func(domain.HomeState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// apply runs mutate on a copy of the current state, commits the result,
// persists it and notifies observers. Exactly one snapshot write and one
// notification per call, even when the mutation was a no-op.
func (s *HomeStore) apply(mutate func(domain.HomeState) domain.HomeState) {
	s.mu.Lock()
	next := mutate(s.state.Clone())
	s.state = next

	if err := s.persister.Save(next); err != nil {
		s.logger.Error("saving snapshot", "error", err)
	}

	observers := make([]func(domain.HomeState), len(s.observers))
	copy(observers, s.observers)
	snapshot := next.Clone()
	s.mu.Unlock()

	for _, notify := range observers {
		notify(snapshot)
	}
}

// --- reads ---

func (s *HomeStore) State() domain.HomeState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

func (s *HomeStore) Rooms() []Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneRooms(s.state.Rooms)
}

func (s *HomeStore) Room(id string) (Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.state.Room(id)
	if !ok {
		return Room{}, false
	}
	return r.Clone(), true
}

func (s *HomeStore) NumRooms() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.NumRooms
}

func (s *HomeStore) CurrentStep() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.CurrentStep
}

func (s *HomeStore) SurveyCompleted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.SurveyCompleted
}

func (s *HomeStore) NightMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.NightMode
}

// --- mutations ---

func (s *HomeStore) SetNumRooms(n int) {
	s.apply(func(st domain.HomeState) domain.HomeState {
		st.NumRooms = n
		return st
	})
}

// SetRooms replaces the room list wholesale; the wizard uses it to commit
// named-but-applianceless rooms.
func (s *HomeStore) SetRooms(rooms []Room) {
	s.apply(func(st domain.HomeState) domain.HomeState {
		st.Rooms = domain.CloneRooms(rooms)
		return st
	})
}

// AddRoom appends a room. Duplicate ids are the caller's responsibility.
func (s *HomeStore) AddRoom(room Room) {
	s.apply(func(st domain.HomeState) domain.HomeState {
		st.Rooms = append(st.Rooms, room.Clone())
		return st
	})
}

func (s *HomeStore) UpdateRoom(id string, patch RoomPatch) {
	s.apply(func(st domain.HomeState) domain.HomeState {
		rooms, ok := domain.PatchRoom(st.Rooms, id, patch)
		if !ok {
			s.logger.Debug("update for unknown room", "roomID", id)
		}
		st.Rooms = rooms
		return st
	})
}

func (s *HomeStore) AddApplianceToRoom(roomID string, appliance Appliance) {
	s.apply(func(st domain.HomeState) domain.HomeState {
		rooms, ok := domain.AddAppliance(st.Rooms, roomID, appliance)
		if !ok {
			s.logger.Debug("appliance add for unknown room", "roomID", roomID)
		}
		st.Rooms = rooms
		return st
	})
}

func (s *HomeStore) UpdateAppliance(roomID, applianceID string, patch AppliancePatch) {
	s.apply(func(st domain.HomeState) domain.HomeState {
		rooms, ok := domain.PatchAppliance(st.Rooms, roomID, applianceID, patch)
		if !ok {
			s.logger.Debug("update for unknown appliance", "roomID", roomID, "applianceID", applianceID)
		}
		st.Rooms = rooms
		return st
	})
}

func (s *HomeStore) ToggleAppliance(roomID, applianceID string) {
	s.apply(func(st domain.HomeState) domain.HomeState {
		rooms, ok := domain.ToggleAppliance(st.Rooms, roomID, applianceID)
		if !ok {
			s.logger.Debug("toggle for unknown appliance", "roomID", roomID, "applianceID", applianceID)
		}
		st.Rooms = rooms
		return st
	})
}

// ToggleAllAppliances is the global override: every appliance in every room,
// regardless of type.
func (s *HomeStore) ToggleAllAppliances(on bool) {
	s.apply(func(st domain.HomeState) domain.HomeState {
		st.Rooms = domain.SetAllAppliances(st.Rooms, on)
		return st
	})
}

// SetAppliancesOfType forces only appliances of one type; scenes use it.
func (s *HomeStore) SetAppliancesOfType(typ domain.ApplianceType, on bool) {
	s.apply(func(st domain.HomeState) domain.HomeState {
		st.Rooms = domain.SetAppliancesOfType(st.Rooms, typ, on)
		return st
	})
}

// ToggleNightMode flips the flag. Entering night mode forces night lights on
// and everything else off; leaving it only clears the flag and does not
// restore prior appliance state.
func (s *HomeStore) ToggleNightMode() {
	s.apply(func(st domain.HomeState) domain.HomeState {
		st.NightMode = !st.NightMode
		if st.NightMode {
			st.Rooms = domain.ApplyNightMode(st.Rooms)
		}
		return st
	})
}

// SetDoorOpen is the only mutation path for a room's door state.
func (s *HomeStore) SetDoorOpen(roomID string, open bool) {
	s.apply(func(st domain.HomeState) domain.HomeState {
		rooms, ok := domain.PatchRoom(st.Rooms, roomID, RoomPatch{DoorOpen: &open})
		if !ok {
			s.logger.Debug("door update for unknown room", "roomID", roomID)
		}
		st.Rooms = rooms
		return st
	})
}

func (s *HomeStore) SetSurveyCompleted(completed bool) {
	s.apply(func(st domain.HomeState) domain.HomeState {
		st.SurveyCompleted = completed
		return st
	})
}

// ResetSurvey returns the store to a fresh HomeState: no rooms, step 1, all
// flags cleared.
func (s *HomeStore) ResetSurvey() {
	s.apply(func(domain.HomeState) domain.HomeState {
		return domain.DefaultHomeState()
	})
}

// --- step navigation ---

func (s *HomeStore) NextStep() {
	s.apply(func(st domain.HomeState) domain.HomeState {
		st.CurrentStep++
		return st
	})
}

func (s *HomeStore) PrevStep() {
	s.apply(func(st domain.HomeState) domain.HomeState {
		if st.CurrentStep > 1 {
			st.CurrentStep--
		}
		return st
	})
}

func (s *HomeStore) GoToStep(step int) {
	s.apply(func(st domain.HomeState) domain.HomeState {
		st.CurrentStep = step
		return st
	})
}
