package strokemodel

import (
	"math"
	"testing"
)

func TestLoopContractionMitigationDisabledReturnsOne(t *testing.T) {
	m := newLoopContractionMitigationModeler(LoopContractionMitigationParams{Enabled: false})
	m.update(5, 0)
	if got := m.interpolationValue(); got != 1 {
		t.Errorf("disabled mitigator returned %v, want 1 (no mitigation)", got)
	}
}

func TestLoopContractionMitigationSpeedBounds(t *testing.T) {
	params := LoopContractionMitigationParams{
		Enabled:                                 true,
		SpeedLowerBound:                         0,
		SpeedUpperBound:                         10,
		InterpolationStrengthAtSpeedLowerBound:  1,
		InterpolationStrengthAtSpeedUpperBound:  0,
		MinSpeedSamplingWindow:                  1,
		MinDiscreteSpeedSamples:                 1,
	}
	m := newLoopContractionMitigationModeler(params)

	m.update(0, 0)
	if got := m.interpolationValue(); math.Abs(got-1) > 1e-9 {
		t.Errorf("at speed_lower_bound, interpolation value = %v, want 1", got)
	}

	m2 := newLoopContractionMitigationModeler(params)
	m2.update(10, 0)
	if got := m2.interpolationValue(); math.Abs(got-0) > 1e-9 {
		t.Errorf("at speed_upper_bound, interpolation value = %v, want 0", got)
	}
}

func TestLoopContractionMitigationSaveRestoreIdempotent(t *testing.T) {
	params := LoopContractionMitigationParams{
		Enabled:                                 true,
		SpeedLowerBound:                         0,
		SpeedUpperBound:                         10,
		InterpolationStrengthAtSpeedLowerBound:  1,
		InterpolationStrengthAtSpeedUpperBound:  0,
		MinSpeedSamplingWindow:                  1,
		MinDiscreteSpeedSamples:                 1,
	}
	m := newLoopContractionMitigationModeler(params)
	m.update(2, 0)
	m.save()

	runOnce := func() float64 {
		m.update(7, 0.1)
		return m.interpolationValue()
	}

	first := runOnce()
	m.restore()
	second := runOnce()
	m.restore()
	third := runOnce()

	if first != second || second != third {
		t.Errorf("save/restore not idempotent: %v, %v, %v", first, second, third)
	}
}
