package application_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"homecontrol/internal/application"
	"homecontrol/internal/domain"
)

type fakePersister struct {
	initial domain.HomeState
	found   bool
	loadErr error
	saveErr error
	saves   []domain.HomeState
}

func (p *fakePersister) Load() (domain.HomeState, bool, error) {
	return p.initial, p.found, p.loadErr
}

func (p *fakePersister) Save(state domain.HomeState) error {
	p.saves = append(p.saves, state)
	return p.saveErr
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func storeWithRooms(t *testing.T, rooms []domain.Room) (*application.HomeStore, *fakePersister) {
	t.Helper()
	p := &fakePersister{
		initial: domain.HomeState{Rooms: rooms, NumRooms: len(rooms), CurrentStep: 3, SurveyCompleted: true},
		found:   true,
	}
	return application.NewHomeStore(p, discardLogger()), p
}

func demoRooms() []domain.Room {
	return []domain.Room{
		{
			ID:   "r1",
			Name: "Living Room",
			Appliances: []domain.Appliance{
				{ID: "a1", Type: domain.ApplianceTypeLight, IsOn: true},
				{ID: "a2", Type: domain.ApplianceTypeFan, Intensity: 2},
			},
			HasDoorSensor: true,
		},
		{
			ID:   "r2",
			Name: "Bedroom",
			Appliances: []domain.Appliance{
				{ID: "a3", Type: domain.ApplianceTypeNightLight},
			},
		},
	}
}

func TestNewHomeStore_CorruptSnapshotFallsBackToDefaults(t *testing.T) {
	p := &fakePersister{loadErr: errors.New("bad json")}
	store := application.NewHomeStore(p, discardLogger())

	state := store.State()
	if len(state.Rooms) != 0 || state.CurrentStep != 1 || state.SurveyCompleted {
		t.Errorf("unexpected state after corrupt load: %+v", state)
	}
}

func TestHomeStore_EveryMutationPersistsAndNotifiesOnce(t *testing.T) {
	store, p := storeWithRooms(t, demoRooms())

	notified := 0
	store.Subscribe(func(domain.HomeState) { notified++ })

	store.ToggleAppliance("r1", "a1")
	store.SetNumRooms(4)
	store.ToggleAllAppliances(false)

	if len(p.saves) != 3 {
		t.Errorf("saves: got %d, want 3", len(p.saves))
	}
	if notified != 3 {
		t.Errorf("notifications: got %d, want 3", notified)
	}
}

func TestHomeStore_ToggleAppliance(t *testing.T) {
	store, _ := storeWithRooms(t, demoRooms())

	store.ToggleAppliance("r1", "a1")

	room, _ := store.Room("r1")
	if a, _ := room.Appliance("a1"); a.IsOn {
		t.Error("appliance still on after toggle")
	}
}

func TestHomeStore_UnknownIDsAreSilentNoOps(t *testing.T) {
	store, _ := storeWithRooms(t, demoRooms())
	before := store.State()

	store.ToggleAppliance("missing", "a1")
	store.ToggleAppliance("r1", "missing")
	store.UpdateRoom("missing", application.RoomPatch{})
	store.SetDoorOpen("missing", true)

	after := store.State()
	if len(after.Rooms) != len(before.Rooms) {
		t.Fatal("room count changed")
	}
	for i := range after.Rooms {
		if len(after.Rooms[i].Appliances) != len(before.Rooms[i].Appliances) {
			t.Error("appliance count changed")
		}
		for j := range after.Rooms[i].Appliances {
			if after.Rooms[i].Appliances[j] != before.Rooms[i].Appliances[j] {
				t.Errorf("appliance %d/%d changed", i, j)
			}
		}
	}
}

func TestHomeStore_ToggleAllAppliancesBulkOff(t *testing.T) {
	store, _ := storeWithRooms(t, demoRooms())

	store.ToggleAllAppliances(false)

	for _, r := range store.Rooms() {
		for _, a := range r.Appliances {
			if a.IsOn {
				t.Errorf("appliance %s on after bulk off", a.ID)
			}
		}
	}
}

func TestHomeStore_NightModeAsymmetry(t *testing.T) {
	store, _ := storeWithRooms(t, demoRooms())

	store.ToggleNightMode()

	if !store.NightMode() {
		t.Fatal("night mode not enabled")
	}
	for _, r := range store.Rooms() {
		for _, a := range r.Appliances {
			if a.IsNightLight() != a.IsOn {
				t.Errorf("appliance %s (%s): IsOn=%v during night mode", a.ID, a.Type, a.IsOn)
			}
		}
	}

	during := store.Rooms()

	// Leaving night mode only clears the flag; appliance state stays put.
	store.ToggleNightMode()

	if store.NightMode() {
		t.Fatal("night mode still enabled")
	}
	after := store.Rooms()
	for i := range after {
		for j := range after[i].Appliances {
			if after[i].Appliances[j].IsOn != during[i].Appliances[j].IsOn {
				t.Errorf("appliance %s state restored on night mode exit", after[i].Appliances[j].ID)
			}
		}
	}
}

func TestHomeStore_SetDoorOpen(t *testing.T) {
	store, _ := storeWithRooms(t, demoRooms())

	store.SetDoorOpen("r1", true)

	room, _ := store.Room("r1")
	if !room.DoorOpen {
		t.Error("door not open")
	}

	store.SetDoorOpen("r1", false)
	room, _ = store.Room("r1")
	if room.DoorOpen {
		t.Error("door not closed")
	}
}

func TestHomeStore_ResetSurveyClearsEverything(t *testing.T) {
	store, _ := storeWithRooms(t, demoRooms())
	store.ToggleNightMode()

	store.ResetSurvey()

	state := store.State()
	if len(state.Rooms) != 0 {
		t.Errorf("rooms: got %d, want 0", len(state.Rooms))
	}
	if state.NumRooms != 0 {
		t.Errorf("numRooms: got %d, want 0", state.NumRooms)
	}
	if state.CurrentStep != 1 {
		t.Errorf("currentStep: got %d, want 1", state.CurrentStep)
	}
	if state.SurveyCompleted {
		t.Error("surveyCompleted still set")
	}
	if state.NightMode {
		t.Error("nightMode still set")
	}
}

func TestHomeStore_ReadsReturnCopies(t *testing.T) {
	store, _ := storeWithRooms(t, demoRooms())

	rooms := store.Rooms()
	rooms[0].Appliances[0].IsOn = false
	rooms[0].Name = "Hacked"

	room, _ := store.Room("r1")
	if room.Name != "Living Room" {
		t.Error("room name mutated through a read")
	}
	if a, _ := room.Appliance("a1"); !a.IsOn {
		t.Error("appliance mutated through a read")
	}
}

func TestHomeStore_SaveFailureDoesNotLoseState(t *testing.T) {
	store, p := storeWithRooms(t, demoRooms())
	p.saveErr = errors.New("disk full")

	store.ToggleAppliance("r1", "a1")

	room, _ := store.Room("r1")
	if a, _ := room.Appliance("a1"); a.IsOn {
		t.Error("in-memory state lost on save failure")
	}
}

func TestHomeStore_StepNavigation(t *testing.T) {
	store := application.NewHomeStore(&fakePersister{}, discardLogger())

	if store.CurrentStep() != 1 {
		t.Fatalf("initial step: got %d", store.CurrentStep())
	}

	store.NextStep()
	store.NextStep()
	if store.CurrentStep() != 3 {
		t.Errorf("after two NextStep: got %d", store.CurrentStep())
	}

	store.GoToStep(2)
	if store.CurrentStep() != 2 {
		t.Errorf("after GoToStep(2): got %d", store.CurrentStep())
	}

	store.PrevStep()
	store.PrevStep()
	store.PrevStep()
	if store.CurrentStep() != 1 {
		t.Errorf("PrevStep went below 1: got %d", store.CurrentStep())
	}
}
