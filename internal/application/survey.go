package application

import (
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"homecontrol/internal/domain"
)

type SurveyStep int

const (
	StepRoomCount  SurveyStep = 1
	StepRoomNames  SurveyStep = 2
	StepAppliances SurveyStep = 3
	StepCompleted  SurveyStep = 4
)

const (
	MinRooms = 1
	MaxRooms = 10
)

// DoorSensorOption is the appliance-list entry that toggles the room's door
// sensor flag instead of creating an appliance.
const DoorSensorOption = "Door Sensor"

// Draft is the uncommitted appliance selection for the room currently being
// edited in step 3. It touches the committed Room only on confirmation.
type Draft struct {
	Selected   []domain.ApplianceType `json:"selected"`
	DoorSensor bool                   `json:"doorSensor"`
}

func (d Draft) clone() Draft {
	out := d
	out.Selected = make([]domain.ApplianceType, len(d.Selected))
	copy(out.Selected, d.Selected)
	return out
}

// SurveyController sequences the three onboarding steps, validates each
// submission, and reconciles per-room drafts against the committed rooms.
// Validation failures come back as *ValidationError and change nothing.
type SurveyController struct {
	store     *HomeStore
	telemetry Telemetry
	logger    *slog.Logger

	mu        sync.Mutex
	roomIndex int
	drafts    []Draft
}

func NewSurveyController(store *HomeStore, telemetry Telemetry, logger *slog.Logger) *SurveyController {
	return &SurveyController{
		store:     store,
		telemetry: telemetry,
		logger:    logger,
	}
}

// Step derives the active step. Once the survey is completed the dashboard
// is the active view regardless of the stored step counter.
func (c *SurveyController) Step() SurveyStep {
	if c.store.SurveyCompleted() {
		return StepCompleted
	}
	switch step := c.store.CurrentStep(); {
	case step <= 1:
		return StepRoomCount
	case step == 2:
		return StepRoomNames
	default:
		return StepAppliances
	}
}

func (c *SurveyController) RoomIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roomIndex
}

// CurrentRoom is the committed room under edit in step 3.
func (c *SurveyController) CurrentRoom() (Room, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rooms := c.store.Rooms()
	if c.roomIndex < 0 || c.roomIndex >= len(rooms) {
		return Room{}, false
	}
	return rooms[c.roomIndex], true
}

func (c *SurveyController) Draft() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureDrafts()
	if c.roomIndex >= len(c.drafts) {
		return Draft{}
	}
	return c.drafts[c.roomIndex].clone()
}

// SubmitRoomCount validates the step-1 input: exactly the integers 1..10
// pass. Raw text comes straight from the input field, so non-numeric input
// is rejected here, not upstream.
func (c *SurveyController) SubmitRoomCount(raw string) error {
	if c.Step() != StepRoomCount {
		return invalidField("step", -1, "This step is not active")
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < MinRooms {
		return invalidField("numRooms", -1, "Please enter a valid number greater than 0")
	}
	if n > MaxRooms {
		return invalidField("numRooms", -1, "Please enter a number less than or equal to 10")
	}

	c.store.SetNumRooms(n)
	c.store.NextStep()
	return nil
}

// SubmitRoomNames validates and commits the step-2 room names. Rooms already
// committed at the same index keep their id and appliances; only the name
// changes. On success the wizard enters step 3 at room 0.
func (c *SurveyController) SubmitRoomNames(names []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Step() != StepRoomNames {
		return invalidField("step", -1, "This step is not active")
	}

	numRooms := c.store.NumRooms()
	if len(names) != numRooms {
		return invalidField("roomNames", -1, "Name every room before continuing")
	}

	trimmed := make([]string, len(names))
	var fields []FieldError
	for i, name := range names {
		trimmed[i] = strings.TrimSpace(name)
		if trimmed[i] == "" {
			fields = append(fields, FieldError{Field: "roomName", Index: i, Message: "Room name is required"})
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	existing := c.store.Rooms()
	rooms := make([]Room, numRooms)
	for i := range rooms {
		if i < len(existing) {
			rooms[i] = existing[i]
			rooms[i].Name = trimmed[i]
		} else {
			rooms[i] = domain.NewRoom(trimmed[i])
		}
	}

	c.store.SetRooms(rooms)
	c.store.NextStep()
	c.roomIndex = 0
	c.drafts = draftsFromRooms(rooms)
	return nil
}

// SetSelection replaces the current room's drafted type selection.
func (c *SurveyController) SetSelection(types []domain.ApplianceType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureDrafts()
	if c.roomIndex >= len(c.drafts) {
		return
	}
	selected := make([]domain.ApplianceType, 0, len(types))
	doorSensor := false
	for _, t := range types {
		if string(t) == DoorSensorOption {
			doorSensor = true
			continue
		}
		selected = append(selected, t)
	}
	c.drafts[c.roomIndex].Selected = selected
	c.drafts[c.roomIndex].DoorSensor = doorSensor
}

func (c *SurveyController) SetDoorSensor(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureDrafts()
	if c.roomIndex >= len(c.drafts) {
		return
	}
	c.drafts[c.roomIndex].DoorSensor = enabled
}

// AddCustomAppliance confirms a custom device sub-form entry: a non-empty
// trimmed type string becomes a drafted appliance type.
func (c *SurveyController) AddCustomAppliance(typeName string) error {
	typeName = strings.TrimSpace(typeName)
	if typeName == "" {
		return invalidField("customType", -1, "Device type is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureDrafts()
	if c.roomIndex >= len(c.drafts) {
		return nil
	}
	c.drafts[c.roomIndex].Selected = append(c.drafts[c.roomIndex].Selected, domain.ApplianceType(typeName))
	return nil
}

// NextRoom validates and commits the current room's draft, then advances to
// the next room, or completes the survey on the last one. Completion is
// one-way; only a reset re-enters the wizard.
func (c *SurveyController) NextRoom() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Step() != StepAppliances {
		return invalidField("step", -1, "This step is not active")
	}
	c.ensureDrafts()

	if err := c.validateDraft(); err != nil {
		return err
	}
	c.commitCurrent()

	if c.roomIndex < len(c.drafts)-1 {
		c.roomIndex++
		return nil
	}

	c.store.SetSurveyCompleted(true)
	c.logger.Info("survey completed", "rooms", len(c.drafts))
	return nil
}

// Back commits the current draft (best effort, so selections survive) and
// steps backwards: to the previous room, or from room 0 back to step 2.
func (c *SurveyController) Back() {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.Step() {
	case StepRoomNames:
		c.store.PrevStep()
	case StepAppliances:
		if c.roomIndex == 0 {
			c.store.PrevStep()
			return
		}
		c.ensureDrafts()
		if c.validateDraft() == nil {
			c.commitCurrent()
		}
		c.roomIndex--
	}
}

// Reset clears the whole survey, including the store.
func (c *SurveyController) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.ResetSurvey()
	c.roomIndex = 0
	c.drafts = nil
}

// SurveyStatus is the wizard's view model: the active step, the room under
// edit and its draft.
type SurveyStatus struct {
	Step      SurveyStep `json:"step"`
	Completed bool       `json:"completed"`
	NumRooms  int        `json:"numRooms"`
	RoomIndex int        `json:"roomIndex"`
	RoomCount int        `json:"roomCount"`
	Room      *Room      `json:"room,omitempty"`
	Draft     Draft      `json:"draft"`
}

func (c *SurveyController) Status() SurveyStatus {
	step := c.Step()

	c.mu.Lock()
	defer c.mu.Unlock()

	rooms := c.store.Rooms()
	status := SurveyStatus{
		Step:      step,
		Completed: step == StepCompleted,
		NumRooms:  c.store.NumRooms(),
		RoomIndex: c.roomIndex,
		RoomCount: len(rooms),
	}
	if step == StepAppliances {
		c.ensureDrafts()
		if c.roomIndex < len(rooms) {
			room := rooms[c.roomIndex]
			status.Room = &room
		}
		if c.roomIndex < len(c.drafts) {
			status.Draft = c.drafts[c.roomIndex].clone()
		}
	}
	return status
}

// validateDraft enforces the step-3 rule: at least one appliance type or a
// door sensor. Callers hold c.mu.
func (c *SurveyController) validateDraft() error {
	if c.roomIndex >= len(c.drafts) {
		return nil
	}
	d := c.drafts[c.roomIndex]
	if len(d.Selected) == 0 && !d.DoorSensor {
		return invalidField("appliances", -1, "Please select at least one appliance")
	}
	return nil
}

// commitCurrent reconciles the draft into the committed room and seeds
// telemetry the first time the room is committed. Callers hold c.mu.
func (c *SurveyController) commitCurrent() {
	rooms := c.store.Rooms()
	if c.roomIndex >= len(rooms) || c.roomIndex >= len(c.drafts) {
		return
	}
	room := rooms[c.roomIndex]
	d := c.drafts[c.roomIndex]

	patch := RoomPatch{
		Appliances:    domain.ReconcileAppliances(room.Appliances, d.Selected),
		HasDoorSensor: &d.DoorSensor,
	}
	if !room.TelemetrySeeded {
		t := c.telemetry.RoomTemperature()
		e := c.telemetry.EnergyUsage()
		seeded := true
		patch.Temperature = &t
		patch.EnergyUsage = &e
		patch.TelemetrySeeded = &seeded
	}

	c.store.UpdateRoom(room.ID, patch)
}

// ensureDrafts rebuilds drafts from committed state, e.g. after a restart
// mid-step-3. Callers hold c.mu.
func (c *SurveyController) ensureDrafts() {
	rooms := c.store.Rooms()
	if c.drafts != nil && len(c.drafts) == len(rooms) {
		return
	}
	c.drafts = draftsFromRooms(rooms)
	if c.roomIndex >= len(c.drafts) {
		c.roomIndex = 0
	}
}

func draftsFromRooms(rooms []Room) []Draft {
	drafts := make([]Draft, len(rooms))
	for i, r := range rooms {
		selected := make([]domain.ApplianceType, len(r.Appliances))
		for j, a := range r.Appliances {
			selected[j] = a.Type
		}
		drafts[i] = Draft{Selected: selected, DoorSensor: r.HasDoorSensor}
	}
	return drafts
}
