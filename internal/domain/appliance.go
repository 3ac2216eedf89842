package domain

import (
	"strings"

	"github.com/google/uuid"
)

// ApplianceType is deliberately an open string: the built-in constants cover
// the standard selection list, and custom devices bring their own type names.
type ApplianceType string

const (
	ApplianceTypeLight      ApplianceType = "Light"
	ApplianceTypeFan        ApplianceType = "Fan"
	ApplianceTypeAC         ApplianceType = "Air Conditioner"
	ApplianceTypeOutlet     ApplianceType = "Outlet"
	ApplianceTypeNightLight ApplianceType = "Night Light"
)

const (
	MinFanIntensity = 1
	MaxFanIntensity = 3

	DefaultFanIntensity  = 1
	DefaultACTemperature = 72
)

type Appliance struct {
	ID   string        `json:"id"`
	Type ApplianceType `json:"type"`
	Name string        `json:"name,omitempty"`
	IsOn bool          `json:"isOn"`

	// Intensity is interpreted only for fans (1..3) and Temperature (°F)
	// only for air conditioners. Other types may carry values here; they are
	// ignored, not an error.
	Intensity   int `json:"intensity,omitempty"`
	Temperature int `json:"temperature,omitempty"`
}

// NewAppliance creates an appliance of the given type with a fresh id and
// type-appropriate defaults, switched off.
func NewAppliance(typ ApplianceType) Appliance {
	a := Appliance{
		ID:   uuid.NewString(),
		Type: typ,
		Name: string(typ),
	}
	switch {
	case a.SupportsIntensity():
		a.Intensity = DefaultFanIntensity
	case a.SupportsTemperature():
		a.Temperature = DefaultACTemperature
	}
	return a
}

func (a Appliance) SupportsIntensity() bool {
	return a.Type == ApplianceTypeFan
}

func (a Appliance) SupportsTemperature() bool {
	return a.Type == ApplianceTypeAC
}

// IsNightLight reports whether the appliance stays on in night mode.
func (a Appliance) IsNightLight() bool {
	return strings.Contains(string(a.Type), string(ApplianceTypeNightLight))
}

// AppliancePatch is a partial appliance update; nil fields are left as-is
// and set fields win wholesale.
type AppliancePatch struct {
	Name        *string
	IsOn        *bool
	Intensity   *int
	Temperature *int
}

func (a Appliance) Apply(p AppliancePatch) Appliance {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.IsOn != nil {
		a.IsOn = *p.IsOn
	}
	if p.Intensity != nil {
		a.Intensity = *p.Intensity
	}
	if p.Temperature != nil {
		a.Temperature = *p.Temperature
	}
	return a
}
