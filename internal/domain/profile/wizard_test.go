package profile

import (
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/jedalosa/energymatch/pkg/errors"
)

func TestWizardStartsAtConsumption(t *testing.T) {
	w := NewWizard(false)
	require.Equal(t, StepConsumption, w.Step())
	require.Equal(t, BillChoiceUnset, w.BillChoice())
	require.False(t, w.CanAnalyze())
}

func TestConsumptionFieldsLockedUntilBillChoice(t *testing.T) {
	w := NewWizard(false)

	err := w.UpdateProfile(Update{MonthlyConsumptionKWh: f64(900)})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeWizardState))
	require.Equal(t, 0.0, w.Profile().MonthlyConsumptionKWh)

	// Identity and schedule fields are never gated.
	require.NoError(t, w.UpdateProfile(Update{Name: str("Carla"), OperatingHours: f64(10)}))

	require.NoError(t, w.ChooseBill(BillChoiceNo))
	require.NoError(t, w.UpdateProfile(Update{MonthlyConsumptionKWh: f64(900)}))
	require.Equal(t, 900.0, w.Profile().MonthlyConsumptionKWh)
}

func TestChooseBillSwitchesBranch(t *testing.T) {
	w := NewWizard(false)
	require.NoError(t, w.ChooseBill(BillChoiceYes))
	require.Equal(t, BillChoiceYes, w.BillChoice())

	require.NoError(t, w.ChooseBill(BillChoiceNo))
	require.Equal(t, BillChoiceNo, w.BillChoice())

	err := w.ChooseBill(BillChoice("maybe"))
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestApplyBillExtractRequiresUploadBranch(t *testing.T) {
	w := NewWizard(false)

	err := w.ApplyBillExtract(850, 720000, 850, true)
	require.True(t, apperrors.IsCode(err, apperrors.CodeWizardState))

	require.NoError(t, w.ChooseBill(BillChoiceYes))
	require.NoError(t, w.ApplyBillExtract(850, 720000, 850, true))

	p := w.Profile()
	require.Equal(t, 850.0, p.MonthlyConsumptionKWh)
	require.Equal(t, 720000.0, p.MonthlyCostCOP)
	require.True(t, p.HasPeakConsumption)

	// Extracted figures clamp the same way manual edits do and remain editable.
	require.NoError(t, w.ApplyBillExtract(-10, -10, -10, false))
	require.Equal(t, 0.0, w.Profile().MonthlyConsumptionKWh)
	require.NoError(t, w.UpdateProfile(Update{MonthlyConsumptionKWh: f64(910)}))
	require.Equal(t, 910.0, w.Profile().MonthlyConsumptionKWh)
}

func TestAdvanceRequiresBillChoice(t *testing.T) {
	w := NewWizard(false)

	err := w.Advance()
	require.True(t, apperrors.IsCode(err, apperrors.CodeWizardState))

	require.NoError(t, w.ChooseBill(BillChoiceNo))
	require.NoError(t, w.Advance())
	require.Equal(t, StepProperty, w.Step())
}

func TestStrictModeRequiresConsumptionFigure(t *testing.T) {
	w := NewWizard(true)
	require.NoError(t, w.ChooseBill(BillChoiceNo))

	err := w.Advance()
	require.True(t, apperrors.IsCode(err, apperrors.CodeWizardState))

	require.NoError(t, w.UpdateProfile(Update{MonthlyCostCOP: f64(450000)}))
	require.NoError(t, w.Advance())
	require.Equal(t, StepProperty, w.Step())
}

func TestWizardWalkPreservesProfile(t *testing.T) {
	w := NewWizard(false)
	require.NoError(t, w.ChooseBill(BillChoiceNo))
	require.NoError(t, w.UpdateProfile(Update{Name: str("Familia Rodríguez"), MonthlyConsumptionKWh: f64(450)}))

	require.NoError(t, w.Advance())
	require.NoError(t, w.Advance())
	require.Equal(t, StepResources, w.Step())
	require.True(t, w.CanAnalyze())

	err := w.Advance()
	require.True(t, apperrors.IsCode(err, apperrors.CodeWizardState))

	require.NoError(t, w.Retreat())
	require.NoError(t, w.Retreat())
	require.Equal(t, StepConsumption, w.Step())

	err = w.Retreat()
	require.True(t, apperrors.IsCode(err, apperrors.CodeWizardState))

	p := w.Profile()
	require.Equal(t, "Familia Rodríguez", p.Name)
	require.Equal(t, 450.0, p.MonthlyConsumptionKWh)
	require.Equal(t, BillChoiceNo, w.BillChoice())
}

func TestCaptureLocationSetsPlaceholderAddress(t *testing.T) {
	w := NewWizard(false)
	w.CaptureLocation(10.3997, -75.5144)

	p := w.Profile()
	require.NotNil(t, p.Location)
	require.Equal(t, 10.3997, p.Location.Lat)
	require.Equal(t, -75.5144, p.Location.Lng)
	require.Equal(t, "Detectado por GPS", p.Location.Address)
}
