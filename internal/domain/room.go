package domain

import "github.com/google/uuid"

// Room owns its appliances exclusively; appliances are never shared between
// rooms. Temperature and EnergyUsage are seeded once when the room's
// appliance draft is committed and are static afterwards.
type Room struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Appliances []Appliance `json:"appliances"`

	Temperature   int  `json:"temperature,omitempty"`
	EnergyUsage   int  `json:"energyUsage,omitempty"`
	HasDoorSensor bool `json:"hasDoorSensor,omitempty"`
	DoorOpen      bool `json:"doorOpen,omitempty"`

	// TelemetrySeeded marks that Temperature/EnergyUsage hold real readings,
	// so a legitimate zero reading is never overwritten.
	TelemetrySeeded bool `json:"telemetrySeeded,omitempty"`
}

func NewRoom(name string) Room {
	return Room{
		ID:         uuid.NewString(),
		Name:       name,
		Appliances: []Appliance{},
	}
}

func (r Room) Clone() Room {
	out := r
	out.Appliances = make([]Appliance, len(r.Appliances))
	copy(out.Appliances, r.Appliances)
	return out
}

// Appliance returns the appliance with the given id, if present.
func (r Room) Appliance(id string) (Appliance, bool) {
	for _, a := range r.Appliances {
		if a.ID == id {
			return a, true
		}
	}
	return Appliance{}, false
}

// RoomPatch is a partial room update. A nil Appliances leaves the collection
// untouched; a non-nil one replaces it wholesale.
type RoomPatch struct {
	Name            *string
	Appliances      []Appliance
	Temperature     *int
	EnergyUsage     *int
	HasDoorSensor   *bool
	DoorOpen        *bool
	TelemetrySeeded *bool
}

func (r Room) Apply(p RoomPatch) Room {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Appliances != nil {
		r.Appliances = p.Appliances
	}
	if p.Temperature != nil {
		r.Temperature = *p.Temperature
	}
	if p.EnergyUsage != nil {
		r.EnergyUsage = *p.EnergyUsage
	}
	if p.HasDoorSensor != nil {
		r.HasDoorSensor = *p.HasDoorSensor
	}
	if p.DoorOpen != nil {
		r.DoorOpen = *p.DoorOpen
	}
	if p.TelemetrySeeded != nil {
		r.TelemetrySeeded = *p.TelemetrySeeded
	}
	return r
}
