package domain_test

import (
	"testing"

	"homecontrol/internal/domain"
)

func testRooms() []domain.Room {
	return []domain.Room{
		{
			ID:   "r1",
			Name: "Kitchen",
			Appliances: []domain.Appliance{
				{ID: "a1", Type: domain.ApplianceTypeLight, Name: "Light", IsOn: true},
				{ID: "a2", Type: domain.ApplianceTypeFan, Name: "Fan", Intensity: 2},
			},
			Temperature: 70,
			EnergyUsage: 120,
		},
		{
			ID:   "r2",
			Name: "Bedroom",
			Appliances: []domain.Appliance{
				{ID: "a3", Type: domain.ApplianceTypeNightLight, Name: "Night Light"},
				{ID: "a4", Type: domain.ApplianceTypeAC, Name: "Air Conditioner", IsOn: true, Temperature: 72},
			},
			HasDoorSensor: true,
		},
	}
}

func TestToggleAppliance_PairIsIdempotent(t *testing.T) {
	rooms := testRooms()

	for _, r := range rooms {
		for _, a := range r.Appliances {
			once, ok := domain.ToggleAppliance(rooms, r.ID, a.ID)
			if !ok {
				t.Fatalf("toggle %s/%s: not found", r.ID, a.ID)
			}
			twice, _ := domain.ToggleAppliance(once, r.ID, a.ID)

			got, _ := findAppliance(t, twice, r.ID, a.ID)
			if got.IsOn != a.IsOn {
				t.Errorf("appliance %s: double toggle changed IsOn from %v to %v", a.ID, a.IsOn, got.IsOn)
			}
		}
	}
}

func TestToggleAppliance_UnknownIDs(t *testing.T) {
	rooms := testRooms()

	if _, ok := domain.ToggleAppliance(rooms, "nope", "a1"); ok {
		t.Error("unknown room reported as found")
	}
	if _, ok := domain.ToggleAppliance(rooms, "r1", "nope"); ok {
		t.Error("unknown appliance reported as found")
	}
}

func TestToggleAppliance_DoesNotMutateInput(t *testing.T) {
	rooms := testRooms()

	_, _ = domain.ToggleAppliance(rooms, "r1", "a1")

	if !rooms[0].Appliances[0].IsOn {
		t.Error("input slice was mutated")
	}
}

func TestSetAllAppliances_BulkOff(t *testing.T) {
	out := domain.SetAllAppliances(testRooms(), false)

	for _, r := range out {
		for _, a := range r.Appliances {
			if a.IsOn {
				t.Errorf("appliance %s still on after bulk off", a.ID)
			}
		}
	}
}

func TestApplyNightMode(t *testing.T) {
	out := domain.ApplyNightMode(testRooms())

	for _, r := range out {
		for _, a := range r.Appliances {
			if a.IsNightLight() != a.IsOn {
				t.Errorf("appliance %s (%s): IsOn=%v in night mode", a.ID, a.Type, a.IsOn)
			}
		}
	}
}

func TestPatchRoom_MergesOnlySetFields(t *testing.T) {
	name := "Pantry"
	open := true

	out, ok := domain.PatchRoom(testRooms(), "r2", domain.RoomPatch{Name: &name, DoorOpen: &open})
	if !ok {
		t.Fatal("room not found")
	}

	room := out[1]
	if room.Name != "Pantry" {
		t.Errorf("name: got %q", room.Name)
	}
	if !room.DoorOpen {
		t.Error("door not open")
	}
	if !room.HasDoorSensor {
		t.Error("unset field HasDoorSensor was clobbered")
	}
	if len(room.Appliances) != 2 {
		t.Errorf("appliances: got %d, want 2", len(room.Appliances))
	}
}

func TestPatchAppliance_LastWriteWinsPerField(t *testing.T) {
	intensity := 3
	out, ok := domain.PatchAppliance(testRooms(), "r1", "a2", domain.AppliancePatch{Intensity: &intensity})
	if !ok {
		t.Fatal("appliance not found")
	}

	a, _ := findAppliance(t, out, "r1", "a2")
	if a.Intensity != 3 {
		t.Errorf("intensity: got %d, want 3", a.Intensity)
	}
	if a.Name != "Fan" || a.IsOn {
		t.Error("unset fields were clobbered")
	}
}

func TestHomeState_Summaries(t *testing.T) {
	state := domain.HomeState{Rooms: testRooms()}

	if got := state.DeviceCount(); got != 4 {
		t.Errorf("DeviceCount: got %d, want 4", got)
	}
	if got := state.ActiveDeviceCount(); got != 2 {
		t.Errorf("ActiveDeviceCount: got %d, want 2", got)
	}
	if got := state.TotalEnergyUsage(); got != 120 {
		t.Errorf("TotalEnergyUsage: got %d, want 120", got)
	}
	avg, ok := state.AverageTemperature()
	if !ok || avg != 35 {
		t.Errorf("AverageTemperature: got %v/%v, want 35/true", avg, ok)
	}

	if got := len(state.FilterRooms("KITCH")); got != 1 {
		t.Errorf("FilterRooms(KITCH): got %d rooms, want 1", got)
	}
	if got := len(state.FilterRooms("")); got != 2 {
		t.Errorf("FilterRooms(empty): got %d rooms, want 2", got)
	}
}

func TestAverageTemperature_EmptyHome(t *testing.T) {
	var state domain.HomeState
	if _, ok := state.AverageTemperature(); ok {
		t.Error("empty home reported a temperature")
	}
}

func findAppliance(t *testing.T, rooms []domain.Room, roomID, applianceID string) (domain.Appliance, bool) {
	t.Helper()
	for _, r := range rooms {
		if r.ID != roomID {
			continue
		}
		if a, ok := r.Appliance(applianceID); ok {
			return a, true
		}
	}
	t.Fatalf("appliance %s/%s not found", roomID, applianceID)
	return domain.Appliance{}, false
}
