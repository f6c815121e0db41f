package profile

import (
	"context"

	apperrors "github.com/jedalosa/energymatch/pkg/errors"
)

// ClientType distinguishes enterprise and household customers.
type ClientType string

const (
	ClientTypeCompany ClientType = "company"
	ClientTypeHome    ClientType = "home"
)

// PropertyType is the fixed property category enumeration. Values keep the
// Spanish labels the platform has always shown.
type PropertyType string

const (
	PropertyCommercial        PropertyType = "Comercial"
	PropertyIndustrial        PropertyType = "Industrial"
	PropertyResidentialOffice PropertyType = "Oficina Residencial"
	PropertyResidentialHome   PropertyType = "Casa/Residencia"
)

// ValidPropertyType reports whether v is one of the four enumerated values.
func ValidPropertyType(v PropertyType) bool {
	switch v {
	case PropertyCommercial, PropertyIndustrial, PropertyResidentialOffice, PropertyResidentialHome:
		return true
	}
	return false
}

// BudgetBracket is the coarse three-value budget selection, empty until chosen.
type BudgetBracket string

const (
	BudgetUnset  BudgetBracket = ""
	BudgetLow    BudgetBracket = "low"
	BudgetMedium BudgetBracket = "medium"
	BudgetHigh   BudgetBracket = "high"
)

// ValidBudget reports whether v is a selectable bracket (or unset).
func ValidBudget(v BudgetBracket) bool {
	switch v {
	case BudgetUnset, BudgetLow, BudgetMedium, BudgetHigh:
		return true
	}
	return false
}

// Location is a captured device coordinate pair. Nil on the profile until a
// capture succeeds.
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

// Profile is the energy-consumption and property intake record for one session.
type Profile struct {
	ClientType            ClientType    `json:"clientType"`
	Name                  string        `json:"name"`
	Email                 string        `json:"email"`
	MonthlyConsumptionKWh float64       `json:"monthlyConsumptionKWh"`
	MonthlyCostCOP        float64       `json:"monthlyCostCOP"`
	EnergyRate            float64       `json:"energyRate,omitempty"`
	HasPeakConsumption    bool          `json:"hasPeakConsumption,omitempty"`
	OperatingHours        float64       `json:"operatingHours"`
	OperatingDays         float64       `json:"operatingDays"`
	PropertyType          PropertyType  `json:"propertyType"`
	Location              *Location     `json:"location"`
	Neighborhood          string        `json:"neighborhood"`
	RoofAreaM2            float64       `json:"roofAreaM2"`
	BudgetCOP             BudgetBracket `json:"budgetCOP"`
}

// New returns a profile with session-start defaults.
func New() Profile {
	return Profile{
		ClientType:     ClientTypeCompany,
		PropertyType:   PropertyCommercial,
		OperatingHours: 8,
		OperatingDays:  6,
	}
}

// Update is a sparse patch applied to a profile; nil fields are untouched.
type Update struct {
	ClientType            *ClientType    `json:"clientType,omitempty"`
	Name                  *string        `json:"name,omitempty"`
	Email                 *string        `json:"email,omitempty"`
	MonthlyConsumptionKWh *float64       `json:"monthlyConsumptionKWh,omitempty"`
	MonthlyCostCOP        *float64       `json:"monthlyCostCOP,omitempty"`
	EnergyRate            *float64       `json:"energyRate,omitempty"`
	HasPeakConsumption    *bool          `json:"hasPeakConsumption,omitempty"`
	OperatingHours        *float64       `json:"operatingHours,omitempty"`
	OperatingDays         *float64       `json:"operatingDays,omitempty"`
	PropertyType          *PropertyType  `json:"propertyType,omitempty"`
	Neighborhood          *string        `json:"neighborhood,omitempty"`
	BudgetCOP             *BudgetBracket `json:"budgetCOP,omitempty"`
}

// TouchesConsumption reports whether the patch writes any bill-derived field.
func (u Update) TouchesConsumption() bool {
	return u.MonthlyConsumptionKWh != nil || u.MonthlyCostCOP != nil ||
		u.EnergyRate != nil || u.HasPeakConsumption != nil
}

// Apply merges the patch into p, clamping numeric ranges. Enumerated fields
// reject values outside their enumeration.
func (p *Profile) Apply(u Update) error {
	if u.ClientType != nil {
		if *u.ClientType != ClientTypeCompany && *u.ClientType != ClientTypeHome {
			return apperrors.Wrap(apperrors.CodeInvalidInput, "unknown client type", nil)
		}
		p.ClientType = *u.ClientType
	}
	if u.PropertyType != nil {
		if !ValidPropertyType(*u.PropertyType) {
			return apperrors.Wrap(apperrors.CodeInvalidInput, "unknown property type", nil)
		}
		p.PropertyType = *u.PropertyType
	}
	if u.BudgetCOP != nil {
		if !ValidBudget(*u.BudgetCOP) {
			return apperrors.Wrap(apperrors.CodeInvalidInput, "unknown budget bracket", nil)
		}
		p.BudgetCOP = *u.BudgetCOP
	}
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Email != nil {
		p.Email = *u.Email
	}
	if u.MonthlyConsumptionKWh != nil {
		p.MonthlyConsumptionKWh = clampMin(*u.MonthlyConsumptionKWh, 0)
	}
	if u.MonthlyCostCOP != nil {
		p.MonthlyCostCOP = clampMin(*u.MonthlyCostCOP, 0)
	}
	if u.EnergyRate != nil {
		p.EnergyRate = clampMin(*u.EnergyRate, 0)
	}
	if u.HasPeakConsumption != nil {
		p.HasPeakConsumption = *u.HasPeakConsumption
	}
	if u.OperatingHours != nil {
		p.OperatingHours = clampRange(*u.OperatingHours, 0, 24)
	}
	if u.OperatingDays != nil {
		p.OperatingDays = clampRange(*u.OperatingDays, 0, 7)
	}
	if u.Neighborhood != nil {
		p.Neighborhood = *u.Neighborhood
	}
	return nil
}

func clampMin(v, min float64) float64 {
	if v < min {
		return min
	}
	return v
}

func clampRange(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Store persists the saved profile under one fixed key, last write wins.
type Store interface {
	Save(ctx context.Context, p Profile) error
	Load(ctx context.Context) (Profile, bool, error)
}
