package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"homecontrol/internal/application"
	"homecontrol/internal/domain"
)

type homeSummary struct {
	Rooms           []domain.Room `json:"rooms"`
	RoomCount       int           `json:"roomCount"`
	DeviceCount     int           `json:"deviceCount"`
	ActiveDevices   int           `json:"activeDevices"`
	NightMode       bool          `json:"nightMode"`
	SurveyCompleted bool          `json:"surveyCompleted"`
}

type monitoringSummary struct {
	TotalEnergyUsage   int           `json:"totalEnergyUsage"`
	AverageTemperature float64       `json:"averageTemperature"`
	Rooms              []roomReading `json:"rooms"`
}

type roomReading struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Temperature int    `json:"temperature"`
	EnergyUsage int    `json:"energyUsage"`
}

func (s *Server) handleHome(w http.ResponseWriter, _ *http.Request) {
	state := s.store.State()
	writeJSON(w, http.StatusOK, homeSummary{
		Rooms:           state.Rooms,
		RoomCount:       len(state.Rooms),
		DeviceCount:     state.DeviceCount(),
		ActiveDevices:   state.ActiveDeviceCount(),
		NightMode:       state.NightMode,
		SurveyCompleted: state.SurveyCompleted,
	})
}

func (s *Server) handleMonitoring(w http.ResponseWriter, _ *http.Request) {
	state := s.store.State()
	avg, _ := state.AverageTemperature()

	readings := make([]roomReading, len(state.Rooms))
	for i, r := range state.Rooms {
		readings[i] = roomReading{ID: r.ID, Name: r.Name, Temperature: r.Temperature, EnergyUsage: r.EnergyUsage}
	}

	writeJSON(w, http.StatusOK, monitoringSummary{
		TotalEnergyUsage:   state.TotalEnergyUsage(),
		AverageTemperature: avg,
		Rooms:              readings,
	})
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	state := s.store.State()
	writeJSON(w, http.StatusOK, state.FilterRooms(r.URL.Query().Get("q")))
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomID")
	room, ok := s.store.Room(roomID)
	if !ok {
		s.notify(r.Context(), "The requested room could not be found.")
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error":    "room not found",
			"redirect": "/",
		})
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (s *Server) handlePatchRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name *string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	s.store.UpdateRoom(chi.URLParam(r, "roomID"), domain.RoomPatch{Name: req.Name})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleDoor(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomID")
	room, ok := s.store.Room(roomID)
	if !ok {
		s.notify(r.Context(), "The requested room could not be found.")
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "room not found", "redirect": "/"})
		return
	}
	if !room.HasDoorSensor {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "room has no door sensor"})
		return
	}

	open := !room.DoorOpen
	s.store.SetDoorOpen(roomID, open)

	status := "closed"
	if open {
		status = "opened"
	}
	s.notify(r.Context(), fmt.Sprintf("The door in %s has been %s.", room.Name, status))
	writeJSON(w, http.StatusOK, map[string]bool{"doorOpen": open})
}

func (s *Server) handleAddAppliance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Type == "" {
		badRequest(w, "appliance type is required")
		return
	}
	roomID := chi.URLParam(r, "roomID")
	if _, ok := s.store.Room(roomID); !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "room not found", "redirect": "/"})
		return
	}
	appliance := domain.NewAppliance(domain.ApplianceType(req.Type))
	s.store.AddApplianceToRoom(roomID, appliance)
	writeJSON(w, http.StatusCreated, appliance)
}

func (s *Server) handlePatchAppliance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        *string `json:"name"`
		IsOn        *bool   `json:"isOn"`
		Intensity   *int    `json:"intensity"`
		Temperature *int    `json:"temperature"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	s.store.UpdateAppliance(
		chi.URLParam(r, "roomID"),
		chi.URLParam(r, "applianceID"),
		domain.AppliancePatch{Name: req.Name, IsOn: req.IsOn, Intensity: req.Intensity, Temperature: req.Temperature},
	)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleAppliance(w http.ResponseWriter, r *http.Request) {
	s.store.ToggleAppliance(chi.URLParam(r, "roomID"), chi.URLParam(r, "applianceID"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleAll(w http.ResponseWriter, r *http.Request) {
	var req struct {
		On bool `json:"on"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	s.store.ToggleAllAppliances(req.On)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleNightMode(w http.ResponseWriter, _ *http.Request) {
	s.store.ToggleNightMode()
	writeJSON(w, http.StatusOK, map[string]bool{"nightMode": s.store.NightMode()})
}

func (s *Server) handleListScenes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.scenes.Scenes())
}

func (s *Server) handleRunScene(w http.ResponseWriter, r *http.Request) {
	if err := s.scenes.Run(chi.URLParam(r, "sceneID")); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- survey ---

func (s *Server) handleSurveyStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.survey.Status())
}

func (s *Server) handleSurveyRoomCount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Count string `json:"count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if err := s.survey.SubmitRoomCount(req.Count); err != nil {
		s.writeValidation(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.survey.Status())
}

func (s *Server) handleSurveyRoomNames(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Names []string `json:"names"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if err := s.survey.SubmitRoomNames(req.Names); err != nil {
		s.writeValidation(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.survey.Status())
}

func (s *Server) handleSurveyDraft(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Selected   []domain.ApplianceType `json:"selected"`
		DoorSensor *bool                  `json:"doorSensor"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	s.survey.SetSelection(req.Selected)
	if req.DoorSensor != nil {
		s.survey.SetDoorSensor(*req.DoorSensor)
	}
	writeJSON(w, http.StatusOK, s.survey.Status())
}

func (s *Server) handleSurveyCustom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if err := s.survey.AddCustomAppliance(req.Type); err != nil {
		s.writeValidation(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.survey.Status())
}

func (s *Server) handleSurveyNext(w http.ResponseWriter, _ *http.Request) {
	if s.survey.Step() != application.StepAppliances {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "not in the appliance step"})
		return
	}
	if err := s.survey.NextRoom(); err != nil {
		s.writeValidation(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.survey.Status())
}

func (s *Server) handleSurveyBack(w http.ResponseWriter, _ *http.Request) {
	s.survey.Back()
	writeJSON(w, http.StatusOK, s.survey.Status())
}

func (s *Server) handleSurveyReset(w http.ResponseWriter, _ *http.Request) {
	s.survey.Reset()
	writeJSON(w, http.StatusOK, s.survey.Status())
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": message})
}

// writeValidation maps wizard validation failures to 422 with the field
// errors, so the UI can attach them inline.
func (s *Server) writeValidation(w http.ResponseWriter, err error) {
	var verr *application.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": verr.Fields})
		return
	}
	badRequest(w, err.Error())
}
