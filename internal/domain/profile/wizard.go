package profile

import (
	apperrors "github.com/jedalosa/energymatch/pkg/errors"
)

// Step identifies one of the three linear wizard steps.
type Step string

const (
	StepConsumption Step = "consumption"
	StepProperty    Step = "property"
	StepResources   Step = "resources"
)

// BillChoice is the tri-state answer to "will you upload a bill?".
type BillChoice string

const (
	BillChoiceUnset BillChoice = "unset"
	BillChoiceYes   BillChoice = "yes"
	BillChoiceNo    BillChoice = "no"
)

// ValidBillChoice reports whether v is a recognized branch value.
func ValidBillChoice(v BillChoice) bool {
	switch v {
	case BillChoiceUnset, BillChoiceYes, BillChoiceNo:
		return true
	}
	return false
}

// GPS captures get a fixed placeholder address, the map fills the real one later.
const capturedAddressPlaceholder = "Detectado por GPS"

// Wizard is the linear Consumption → Property → Resources intake state
// machine. It owns the live profile and enforces step editability rules.
type Wizard struct {
	step              Step
	billChoice        BillChoice
	profile           Profile
	strictConsumption bool
}

// NewWizard starts a wizard at the Consumption step with a default profile.
// strictConsumption requires a non-zero consumption or cost figure before the
// first step can advance.
func NewWizard(strictConsumption bool) *Wizard {
	return &Wizard{
		step:              StepConsumption,
		billChoice:        BillChoiceUnset,
		profile:           New(),
		strictConsumption: strictConsumption,
	}
}

// Step returns the current wizard step.
func (w *Wizard) Step() Step {
	return w.step
}

// BillChoice returns the current branch selection.
func (w *Wizard) BillChoice() BillChoice {
	return w.billChoice
}

// Profile returns a copy of the live profile.
func (w *Wizard) Profile() Profile {
	return w.profile
}

// ChooseBill records the bill branch. Choosing again is allowed and switches
// the branch; the two paths are never active at once.
func (w *Wizard) ChooseBill(choice BillChoice) error {
	if !ValidBillChoice(choice) {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "unknown bill choice", nil)
	}
	w.billChoice = choice
	return nil
}

// UpdateProfile applies a sparse patch to the live profile. Bill-derived
// consumption fields stay locked until the user answers the bill question;
// name, email and the operating schedule are always editable.
func (w *Wizard) UpdateProfile(u Update) error {
	if u.TouchesConsumption() && w.billChoice == BillChoiceUnset {
		return apperrors.Wrap(apperrors.CodeWizardState, "answer the bill question before editing consumption fields", nil)
	}
	return w.profile.Apply(u)
}

// ApplyBillExtract writes the analyzer's best-effort figures into the profile.
// The fields remain editable afterwards for manual correction.
func (w *Wizard) ApplyBillExtract(consumption, cost, rate float64, hasPeaks bool) error {
	if w.billChoice != BillChoiceYes {
		return apperrors.Wrap(apperrors.CodeWizardState, "bill upload branch not selected", nil)
	}
	w.profile.MonthlyConsumptionKWh = clampMin(consumption, 0)
	w.profile.MonthlyCostCOP = clampMin(cost, 0)
	w.profile.EnergyRate = clampMin(rate, 0)
	w.profile.HasPeakConsumption = hasPeaks
	return nil
}

// Advance moves forward one step when the current step's requirements hold.
func (w *Wizard) Advance() error {
	switch w.step {
	case StepConsumption:
		if w.billChoice == BillChoiceUnset {
			return apperrors.Wrap(apperrors.CodeWizardState, "answer the bill question before continuing", nil)
		}
		if w.strictConsumption && w.profile.MonthlyConsumptionKWh <= 0 && w.profile.MonthlyCostCOP <= 0 {
			return apperrors.Wrap(apperrors.CodeWizardState, "consumption or cost figure required", nil)
		}
		w.step = StepProperty
	case StepProperty:
		w.step = StepResources
	case StepResources:
		return apperrors.Wrap(apperrors.CodeWizardState, "already at the final step", nil)
	}
	return nil
}

// Retreat moves back one step unconditionally.
func (w *Wizard) Retreat() error {
	switch w.step {
	case StepConsumption:
		return apperrors.Wrap(apperrors.CodeWizardState, "already at the first step", nil)
	case StepProperty:
		w.step = StepConsumption
	case StepResources:
		w.step = StepProperty
	}
	return nil
}

// CaptureLocation stores a successful device read. Nothing else is mutated.
func (w *Wizard) CaptureLocation(lat, lng float64) {
	w.profile.Location = &Location{
		Lat:     lat,
		Lng:     lng,
		Address: capturedAddressPlaceholder,
	}
}

// CanAnalyze reports whether the terminal "generate analysis" action is
// reachable; it is offered only from the Resources step.
func (w *Wizard) CanAnalyze() bool {
	return w.step == StepResources
}
