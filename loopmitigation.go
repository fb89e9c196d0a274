package strokemodel

import "gonum.org/v1/gonum/floats"

// loopSpeedSample is one (speed, time) observation retained by the
// loop-contraction mitigator while it remains inside the sampling window.
type loopSpeedSample struct {
	speed float64
	time  Time
}

// loopContractionMitigationModeler tracks a short history of instantaneous
// speed and uses it to decide how strongly the position modeler's corrected
// position should be pulled back toward the raw input polyline, to counter
// the tendency of the spring-mass system to round off sharp loops at speed
// (§4.4).
type loopContractionMitigationModeler struct {
	params LoopContractionMitigationParams

	samples []loopSpeedSample
	head    int
	size    int

	savedSamples []loopSpeedSample
	savedSize    int
	saveActive   bool
}

func newLoopContractionMitigationModeler(params LoopContractionMitigationParams) *loopContractionMitigationModeler {
	return &loopContractionMitigationModeler{params: params}
}

func (m *loopContractionMitigationModeler) reset() {
	m.head = 0
	m.size = 0
}

func (m *loopContractionMitigationModeler) at(i int) *loopSpeedSample {
	return &m.samples[(m.head+i)%len(m.samples)]
}

func (m *loopContractionMitigationModeler) push(s loopSpeedSample) {
	if m.size < len(m.samples) {
		m.samples[(m.head+m.size)%len(m.samples)] = s
		m.size++
		return
	}
	grown := make([]loopSpeedSample, len(m.samples)+1)
	for i := 0; i < m.size; i++ {
		grown[i] = *m.at(i)
	}
	grown[m.size] = s
	m.samples = grown
	m.head = 0
	m.size++
}

func (m *loopContractionMitigationModeler) popFront() loopSpeedSample {
	s := *m.at(0)
	m.head = (m.head + 1) % len(m.samples)
	m.size--
	return s
}

// update records the instantaneous speed of the tip at time t and evicts
// samples older than min_speed_sampling_window, provided at least
// min_discrete_speed_samples remain.
func (m *loopContractionMitigationModeler) update(speed float64, t Time) {
	if !m.params.Enabled {
		return
	}
	m.push(loopSpeedSample{speed: speed, time: t})
	for m.size > m.params.MinDiscreteSpeedSamples {
		oldest := m.at(0)
		if t.Sub(oldest.time) <= m.params.MinSpeedSamplingWindow {
			break
		}
		m.popFront()
	}
}

// interpolationValue returns the current blend strength, in [0, 1], to use
// when pulling the corrected position back toward the raw input polyline:
// 0 means the position is moved all the way onto the raw input polyline, 1
// means the spring-mass output is used unmodified.
func (m *loopContractionMitigationModeler) interpolationValue() float64 {
	if !m.params.Enabled || m.size == 0 {
		return 1
	}
	speeds := make([]float64, m.size)
	for i := 0; i < m.size; i++ {
		speeds[i] = m.at(i).speed
	}
	averageSpeed := floats.Sum(speeds) / float64(m.size)
	t := normalize01(m.params.SpeedLowerBound, m.params.SpeedUpperBound, averageSpeed)
	return lerp(m.params.InterpolationStrengthAtSpeedLowerBound, m.params.InterpolationStrengthAtSpeedUpperBound, t)
}

func (m *loopContractionMitigationModeler) save() {
	if cap(m.savedSamples) < m.size {
		m.savedSamples = make([]loopSpeedSample, m.size)
	} else {
		m.savedSamples = m.savedSamples[:m.size]
	}
	for i := 0; i < m.size; i++ {
		m.savedSamples[i] = *m.at(i)
	}
	m.savedSize = m.size
	m.saveActive = true
}

func (m *loopContractionMitigationModeler) restore() {
	if !m.saveActive {
		return
	}
	if len(m.samples) < m.savedSize {
		m.samples = make([]loopSpeedSample, m.savedSize)
	}
	copy(m.samples, m.savedSamples[:m.savedSize])
	m.head = 0
	m.size = m.savedSize
}
