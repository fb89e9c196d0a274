package strokemodel

import "math"

// stylusStateRecord is one raw-input sample retained by the stylus-state
// modeler's interpolation polyline.
type stylusStateRecord struct {
	position     Vec2
	velocity     Vec2
	acceleration Vec2
	time         Time
	pressure     float64
	tilt         float64
	orientation  float64
}

// stylusStateModeler interpolates pressure, tilt, and orientation against a
// polyline of raw input samples (§4.5).
type stylusStateModeler struct {
	params StylusStateModelerParams

	records []stylusStateRecord

	pressureSticky    bool
	tiltSticky        bool
	orientationSticky bool

	savedRecords          []stylusStateRecord
	savedPressureSticky   bool
	savedTiltSticky       bool
	savedOrientationSticky bool
	saveActive            bool
}

func newStylusStateModeler(params StylusStateModelerParams) *stylusStateModeler {
	return &stylusStateModeler{params: params}
}

func (m *stylusStateModeler) reset() {
	m.records = m.records[:0]
	m.pressureSticky = false
	m.tiltSticky = false
	m.orientationSticky = false
}

// update pushes a new raw sample, computing velocity and acceleration
// against the previous record (zero for the first), then trims the
// retained window per the configured mode.
func (m *stylusStateModeler) update(position Vec2, t Time, pressure, tilt, orientation float64) {
	if unknownAxis(pressure) {
		m.pressureSticky = true
	}
	if unknownAxis(tilt) {
		m.tiltSticky = true
	}
	if unknownAxis(orientation) {
		m.orientationSticky = true
	}
	if m.pressureSticky && m.tiltSticky && m.orientationSticky {
		m.records = m.records[:0]
		return
	}

	var velocity, acceleration Vec2
	if n := len(m.records); n > 0 {
		prev := m.records[n-1]
		dt := float64(t.Sub(prev.time))
		if dt > 0 {
			velocity = position.Sub(prev.position).Div(dt)
			acceleration = velocity.Sub(prev.velocity).Div(dt)
		}
	}

	record := stylusStateRecord{
		position:     position,
		velocity:     velocity,
		acceleration: acceleration,
		time:         t,
		pressure:     stickyValue(pressure, m.pressureSticky),
		tilt:         stickyValue(tilt, m.tiltSticky),
		orientation:  stickyValue(orientation, m.orientationSticky),
	}
	m.records = append(m.records, record)

	if m.params.UseStrokeNormalProjection {
		for len(m.records) > m.params.MinInputSamples {
			first := m.records[0]
			last := m.records[len(m.records)-1]
			if last.time.Sub(first.time) < m.params.MinSampleDuration {
				break
			}
			m.records = m.records[1:]
		}
		return
	}
	for len(m.records) > m.params.MaxInputSamples {
		m.records = m.records[1:]
	}
}

func stickyValue(v float64, sticky bool) float64 {
	if sticky {
		return -1
	}
	return v
}

// allUnknownResult is the sentinel returned when no records remain (all
// three axes have become sticky).
func allUnknownResult(tip TipState) Result {
	return Result{
		Position:    tip.Position,
		Time:        tip.Time,
		Pressure:    -1,
		Tilt:        -1,
		Orientation: -1,
	}
}

// query resolves the pressure/tilt/orientation/position for tip, given an
// optional stroke normal. The caller is responsible for filling in
// velocity/acceleration from tip itself; the Position/Time fields on the
// returned Result are also informative but the caller normally overwrites
// them with tip's own kinematic fields.
func (m *stylusStateModeler) query(tip TipState, strokeNormal Vec2, haveNormal bool) Result {
	if len(m.records) == 0 {
		return allUnknownResult(tip)
	}
	if len(m.records) == 1 {
		return recordToResult(m.records[0])
	}

	if m.params.UseStrokeNormalProjection && haveNormal {
		bestDist := math.Inf(1)
		bestIdx := -1
		var bestPoint Vec2
		for i := 0; i+1 < len(m.records); i++ {
			s, e := m.records[i].position, m.records[i+1].position
			u, ok := projectAlongNormal(s, e, tip.Position, strokeNormal)
			if !ok {
				continue
			}
			point := lerpVec2(s, e, u)
			d := distance(point, tip.Position)
			if d <= bestDist {
				bestDist = d
				bestIdx = i
				bestPoint = point
			}
		}
		if bestIdx >= 0 {
			u := nearestPointOnSegment(m.records[bestIdx].position, m.records[bestIdx+1].position, bestPoint)
			return interpRecord(m.records[bestIdx], m.records[bestIdx+1], u)
		}
	}

	bestDist := math.Inf(1)
	bestIdx := 0
	var bestU float64
	for i := 0; i+1 < len(m.records); i++ {
		s, e := m.records[i].position, m.records[i+1].position
		u := nearestPointOnSegment(s, e, tip.Position)
		point := lerpVec2(s, e, u)
		d := distance(point, tip.Position)
		if d <= bestDist {
			bestDist = d
			bestIdx = i
			bestU = u
		}
	}
	return interpRecord(m.records[bestIdx], m.records[bestIdx+1], bestU)
}

func recordToResult(r stylusStateRecord) Result {
	return Result{
		Position:    r.position,
		Velocity:    r.velocity,
		Acceleration: r.acceleration,
		Time:        r.time,
		Pressure:    r.pressure,
		Tilt:        r.tilt,
		Orientation: r.orientation,
	}
}

func interpRecord(a, b stylusStateRecord, u float64) Result {
	return interpResult(recordToResult(a), recordToResult(b), u)
}

func (m *stylusStateModeler) save() {
	if cap(m.savedRecords) < len(m.records) {
		m.savedRecords = make([]stylusStateRecord, len(m.records))
	} else {
		m.savedRecords = m.savedRecords[:len(m.records)]
	}
	copy(m.savedRecords, m.records)
	m.savedPressureSticky = m.pressureSticky
	m.savedTiltSticky = m.tiltSticky
	m.savedOrientationSticky = m.orientationSticky
	m.saveActive = true
}

func (m *stylusStateModeler) restore() {
	if !m.saveActive {
		return
	}
	if cap(m.records) < len(m.savedRecords) {
		m.records = make([]stylusStateRecord, len(m.savedRecords))
	} else {
		m.records = m.records[:len(m.savedRecords)]
	}
	copy(m.records, m.savedRecords)
	m.pressureSticky = m.savedPressureSticky
	m.tiltSticky = m.savedTiltSticky
	m.orientationSticky = m.savedOrientationSticky
}
