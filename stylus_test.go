package strokemodel

import (
	"math"
	"testing"
)

func TestStylusStateModelerStrokeNormalProjection(t *testing.T) {
	// S5: polyline (0.5,1.5)->(2,1.5)->(3,3.5)->(3.5,4). Query at
	// (2.5,3.125) with normal (0.3,-0.125) yields position≈(2.7586,3.0172)
	// — only the middle segment admits a projection with u in [0,1].
	m := newStylusStateModeler(StylusStateModelerParams{
		UseStrokeNormalProjection: true,
		MinInputSamples:           2,
		MinSampleDuration:         10, // longer than the polyline, so all four samples are kept
	})
	points := []Vec2{{0.5, 1.5}, {2, 1.5}, {3, 3.5}, {3.5, 4}}
	for i, p := range points {
		m.update(p, Time(i), 0.5, 0.2, 0.4)
	}

	tip := TipState{Position: Vec2{2.5, 3.125}}
	normal := Vec2{0.3, -0.125}
	result := m.query(tip, normal, true)

	approxVec2(t, "projected position", result.Position, Vec2{2.7586, 3.0172}, 1e-3)
}

func TestStylusStateModelerSimpleModeTieBreakLatestWins(t *testing.T) {
	m := newStylusStateModeler(StylusStateModelerParams{MaxInputSamples: 10})
	m.update(Vec2{0, 0}, 0, 0.1, 0, 0)
	m.update(Vec2{2, 0}, 1, 0.2, 0, 0)
	m.update(Vec2{2, 2}, 2, 0.3, 0, 0)

	// (1,1) is exactly 1 away from both segments: the earlier segment would
	// give pressure 0.15, the later one 0.25.
	result := m.query(TipState{Position: Vec2{1, 1}}, Vec2{}, false)
	if math.Abs(result.Pressure-0.25) > 1e-9 {
		t.Errorf("pressure = %v, want 0.25 (later segment wins the tie)", result.Pressure)
	}
}

func TestStylusStateModelerStickyUnknownAxes(t *testing.T) {
	m := newStylusStateModeler(StylusStateModelerParams{MaxInputSamples: 10})
	m.update(Vec2{0, 0}, 0, 0.5, 0.1, 0.2)
	m.update(Vec2{1, 0}, 1, -1, 0.1, 0.2) // pressure goes unknown

	result := m.query(TipState{Position: Vec2{1, 0}}, Vec2{}, false)
	if result.Pressure != -1 {
		t.Errorf("pressure = %v, want -1 once sticky", result.Pressure)
	}

	m.update(Vec2{2, 0}, 2, 0.9, 0.1, 0.2)
	result = m.query(TipState{Position: Vec2{2, 0}}, Vec2{}, false)
	if result.Pressure != -1 {
		t.Errorf("pressure = %v, want -1 to remain sticky after a later valid sample", result.Pressure)
	}
}

func TestStylusStateModelerAllAxesStickyClearsBuffer(t *testing.T) {
	m := newStylusStateModeler(StylusStateModelerParams{MaxInputSamples: 10})
	m.update(Vec2{0, 0}, 0, -1, -1, -1)
	if len(m.records) != 0 {
		t.Errorf("expected buffer cleared once all three axes are sticky, got %d records", len(m.records))
	}
	result := m.query(TipState{Position: Vec2{5, 5}, Time: 1}, Vec2{}, false)
	if result.Pressure != -1 || result.Tilt != -1 || result.Orientation != -1 {
		t.Errorf("expected all-unknown sentinel Result, got %+v", result)
	}
}

func TestStylusStateModelerSaveRestoreIdempotent(t *testing.T) {
	m := newStylusStateModeler(StylusStateModelerParams{MaxInputSamples: 10})
	m.update(Vec2{0, 0}, 0, 0.1, 0.1, 0.1)
	m.save()

	runOnce := func() Result {
		m.update(Vec2{1, 0}, 1, 0.2, 0.2, 0.2)
		return m.query(TipState{Position: Vec2{0.5, 0}}, Vec2{}, false)
	}

	first := runOnce()
	m.restore()
	second := runOnce()
	m.restore()
	third := runOnce()

	if first != second || second != third {
		t.Errorf("save/restore not idempotent: %+v, %+v, %+v", first, second, third)
	}
}
