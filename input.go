package strokemodel

import "math"

// EventType identifies the kind of stroke event an Input represents.
type EventType int

const (
	// EventTypeDown marks the beginning of a stroke.
	EventTypeDown EventType = iota
	// EventTypeMove marks a sample in the middle of a stroke.
	EventTypeMove
	// EventTypeUp marks the end of a stroke.
	EventTypeUp
)

func (e EventType) String() string {
	switch e {
	case EventTypeDown:
		return "Down"
	case EventTypeMove:
		return "Move"
	case EventTypeUp:
		return "Up"
	default:
		return "Unknown"
	}
}

// Input is a single raw stylus or touch event fed to the modeler.
//
// Pressure, Tilt, and Orientation are either within their physical ranges
// (pressure [0,1], tilt [0, pi/2], orientation [0, 2*pi)), or negative (or
// NaN) to mean "unknown".
type Input struct {
	EventType   EventType
	Position    Vec2
	Time        Time
	Pressure    float64
	Tilt        float64
	Orientation float64
}

// Equal reports whether in and other describe the identical event.
func (in Input) Equal(other Input) bool {
	return in.EventType == other.EventType &&
		in.Position == other.Position &&
		in.Time == other.Time &&
		in.Pressure == other.Pressure &&
		in.Tilt == other.Tilt &&
		in.Orientation == other.Orientation
}

// finite reports whether in's position and time are both finite, as
// required for any Input accepted by the modeler.
func (in Input) finite() bool {
	return !math.IsInf(in.Position.X, 0) && !math.IsNaN(in.Position.X) &&
		!math.IsInf(in.Position.Y, 0) && !math.IsNaN(in.Position.Y) &&
		!math.IsInf(float64(in.Time), 0) && !math.IsNaN(float64(in.Time))
}

// TipState is the internal modeled state of the stroke tip at a point in
// time.
type TipState struct {
	Position     Vec2
	Velocity     Vec2
	Acceleration Vec2
	Time         Time
}

// StylusState is the internal representation of the semantic stylus axes,
// plus the kinematic state of the raw sample that produced them. It is used
// as the record type stored in the stylus-state modeler's interpolation
// polyline.
type StylusState struct {
	Position     Vec2
	Velocity     Vec2
	Acceleration Vec2
	Time         Time
	Pressure     float64
	Tilt         float64
	Orientation  float64
}

// unknownAxis reports whether v represents an "unknown" axis value: negative or
// NaN.
func unknownAxis(v float64) bool {
	return v < 0 || math.IsNaN(v)
}

// Result is a single modeled or predicted output point.
type Result struct {
	Position     Vec2
	Velocity     Vec2
	Acceleration Vec2
	Time         Time
	Pressure     float64
	Tilt         float64
	Orientation  float64
}

// interpResult linearly interpolates all fields of a Result, except
// Orientation, which uses the shortest-arc angle interpolation. Pressure,
// Tilt, and Orientation are held at -1 ("unknown") when either input has an
// unknown value for that field.
func interpResult(start, end Result, t float64) Result {
	r := Result{
		Position:     lerpVec2(start.Position, end.Position, t),
		Velocity:     lerpVec2(start.Velocity, end.Velocity, t),
		Acceleration: lerpVec2(start.Acceleration, end.Acceleration, t),
		Time:         Time(lerp(float64(start.Time), float64(end.Time), t)),
	}
	if start.Pressure < 0 || end.Pressure < 0 {
		r.Pressure = -1
	} else {
		r.Pressure = lerp(start.Pressure, end.Pressure, t)
	}
	if start.Tilt < 0 || end.Tilt < 0 {
		r.Tilt = -1
	} else {
		r.Tilt = lerp(start.Tilt, end.Tilt, t)
	}
	if start.Orientation < 0 || end.Orientation < 0 {
		r.Orientation = -1
	} else {
		r.Orientation = lerpAngle(start.Orientation, end.Orientation, t)
	}
	return r
}
