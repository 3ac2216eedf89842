package domain

import (
	"fmt"
	"strings"
)

// HomeState is the root aggregate: every room plus the wizard/session flags.
// All mutation helpers below are pure; they return fresh slices and never
// touch their inputs.
type HomeState struct {
	Rooms           []Room `json:"rooms"`
	NumRooms        int    `json:"numRooms"`
	CurrentStep     int    `json:"currentStep"`
	SurveyCompleted bool   `json:"surveyCompleted"`
	NightMode       bool   `json:"isNightMode"`
}

func DefaultHomeState() HomeState {
	return HomeState{
		Rooms:       []Room{},
		CurrentStep: 1,
	}
}

func (s HomeState) Clone() HomeState {
	out := s
	out.Rooms = CloneRooms(s.Rooms)
	return out
}

func (s HomeState) Room(id string) (Room, bool) {
	for _, r := range s.Rooms {
		if r.ID == id {
			return r, true
		}
	}
	return Room{}, false
}

func (s HomeState) DeviceCount() int {
	n := 0
	for _, r := range s.Rooms {
		n += len(r.Appliances)
	}
	return n
}

func (s HomeState) ActiveDeviceCount() int {
	n := 0
	for _, r := range s.Rooms {
		for _, a := range r.Appliances {
			if a.IsOn {
				n++
			}
		}
	}
	return n
}

func (s HomeState) TotalEnergyUsage() int {
	total := 0
	for _, r := range s.Rooms {
		total += r.EnergyUsage
	}
	return total
}

// AverageTemperature is the mean room temperature; ok is false for an empty
// home.
func (s HomeState) AverageTemperature() (float64, bool) {
	if len(s.Rooms) == 0 {
		return 0, false
	}
	total := 0
	for _, r := range s.Rooms {
		total += r.Temperature
	}
	return float64(total) / float64(len(s.Rooms)), true
}

// FilterRooms returns the rooms whose name contains term, case-insensitively.
// An empty term matches everything.
func (s HomeState) FilterRooms(term string) []Room {
	term = strings.ToLower(strings.TrimSpace(term))
	out := []Room{}
	for _, r := range s.Rooms {
		if term == "" || strings.Contains(strings.ToLower(r.Name), term) {
			out = append(out, r.Clone())
		}
	}
	return out
}

func CloneRooms(rooms []Room) []Room {
	out := make([]Room, len(rooms))
	for i, r := range rooms {
		out[i] = r.Clone()
	}
	return out
}

// PatchRoom merges p into the room matching id. The second return is false
// when no room matched; the returned slice is then an unchanged copy.
func PatchRoom(rooms []Room, id string, p RoomPatch) ([]Room, bool) {
	out := CloneRooms(rooms)
	for i, r := range out {
		if r.ID == id {
			out[i] = r.Apply(p)
			return out, true
		}
	}
	return out, false
}

// PatchAppliance merges p into the matching appliance within the matching
// room; false when either id is absent.
func PatchAppliance(rooms []Room, roomID, applianceID string, p AppliancePatch) ([]Room, bool) {
	out := CloneRooms(rooms)
	for i, r := range out {
		if r.ID != roomID {
			continue
		}
		for j, a := range r.Appliances {
			if a.ID == applianceID {
				out[i].Appliances[j] = a.Apply(p)
				return out, true
			}
		}
		return out, false
	}
	return out, false
}

// ToggleAppliance flips the on/off state of one appliance.
func ToggleAppliance(rooms []Room, roomID, applianceID string) ([]Room, bool) {
	out := CloneRooms(rooms)
	for i, r := range out {
		if r.ID != roomID {
			continue
		}
		for j, a := range r.Appliances {
			if a.ID == applianceID {
				out[i].Appliances[j].IsOn = !a.IsOn
				return out, true
			}
		}
		return out, false
	}
	return out, false
}

// AddAppliance appends an appliance to the room's collection; false when the
// room is absent.
func AddAppliance(rooms []Room, roomID string, a Appliance) ([]Room, bool) {
	out := CloneRooms(rooms)
	for i, r := range out {
		if r.ID == roomID {
			out[i].Appliances = append(out[i].Appliances, a)
			return out, true
		}
	}
	return out, false
}

// SetAllAppliances forces every appliance in every room to the given state,
// regardless of type.
func SetAllAppliances(rooms []Room, on bool) []Room {
	out := CloneRooms(rooms)
	for i := range out {
		for j := range out[i].Appliances {
			out[i].Appliances[j].IsOn = on
		}
	}
	return out
}

// SetAppliancesOfType forces only appliances of the given type.
func SetAppliancesOfType(rooms []Room, typ ApplianceType, on bool) []Room {
	out := CloneRooms(rooms)
	for i := range out {
		for j := range out[i].Appliances {
			if out[i].Appliances[j].Type == typ {
				out[i].Appliances[j].IsOn = on
			}
		}
	}
	return out
}

// ApplyNightMode turns on every night light and turns everything else off.
// There is no inverse: leaving night mode does not restore prior state.
func ApplyNightMode(rooms []Room) []Room {
	out := CloneRooms(rooms)
	for i := range out {
		for j := range out[i].Appliances {
			out[i].Appliances[j].IsOn = out[i].Appliances[j].IsNightLight()
		}
	}
	return out
}

// ReconcileAppliances merges a drafted type selection into an existing
// appliance list. Existing appliances are reused in order, per type, up to
// the number of times that type appears in the selection; shortfalls are
// created with type defaults and the excess is dropped from the tail.
// Freshly created duplicates get an ordinal suffix ("Fan 2"); existing
// appliances keep whatever name they have.
func ReconcileAppliances(existing []Appliance, selected []ApplianceType) []Appliance {
	byType := make(map[ApplianceType][]Appliance)
	for _, a := range existing {
		byType[a.Type] = append(byType[a.Type], a)
	}

	used := make(map[ApplianceType]int)
	out := make([]Appliance, 0, len(selected))
	for _, typ := range selected {
		n := used[typ]
		used[typ]++

		if pool := byType[typ]; n < len(pool) {
			out = append(out, pool[n])
			continue
		}

		a := NewAppliance(typ)
		if used[typ] > 1 {
			a.Name = fmt.Sprintf("%s %d", typ, used[typ])
		}
		out = append(out, a)
	}
	return out
}
