package strokemodel

import (
	"math"

	"golang.org/x/exp/constraints"
)

// kPi2 is 2*pi, used repeatedly when normalizing angles into [0, 2*pi).
const kPi2 = 2 * math.Pi

// strokeNormalMagnitudeThreshold is cos(0.1 degrees), approximately. It is
// compared directly against the (unnormalized) dot product of velocity and
// acceleration to detect a sharp turn in stroke_normal; see the comment on
// strokeNormal below for why this isn't a true cosine comparison.
const strokeNormalMagnitudeThreshold = 0.999998477

// clamp restricts v to the closed interval [lo, hi].
func clamp[T constraints.Float](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clamp01 restricts x to [0, 1].
func clamp01(x float64) float64 {
	return clamp(x, 0, 1)
}

// normalize01 rescales x relative to a and b, clamped to [0, 1]. If a == b,
// it returns 0 for x <= a and 1 otherwise.
func normalize01(a, b, x float64) float64 {
	if a == b {
		if x > a {
			return 1
		}
		return 0
	}
	return clamp01((x - a) / (b - a))
}

// lerp interpolates between a and b, implicitly clamping t to [0, 1].
func lerp(a, b, t float64) float64 {
	return a + (b-a)*clamp01(t)
}

// lerpVec2 interpolates between two Vec2 values, implicitly clamping t to
// [0, 1].
func lerpVec2(a, b Vec2, t float64) Vec2 {
	return a.Add(b.Sub(a).Scale(clamp01(t)))
}

// inverseLerp rescales x relative to a and b, such that a maps to 0 and b
// maps to 1. It does not clamp. If a == b it returns 0.
func inverseLerp(a, b, x float64) float64 {
	if b-a == 0 {
		return 0
	}
	return (x - a) / (b - a)
}

// normalizeAngle brings an angle into [0, 2*pi).
func normalizeAngle(angle float64) float64 {
	for angle < 0 {
		angle += kPi2
	}
	for angle >= kPi2 {
		angle -= kPi2
	}
	return angle
}

// lerpAngle interpolates from a to b along the shorter arc on [0, 2*pi),
// implicitly clamping t to [0, 1]. The result is normalized to [0, 2*pi).
func lerpAngle(a, b, t float64) float64 {
	a = normalizeAngle(a)
	b = normalizeAngle(b)
	delta := b - a
	if delta < -math.Pi {
		b += kPi2
	} else if delta > math.Pi {
		b -= kPi2
	}
	return normalizeAngle(lerp(a, b, t))
}

// distance returns the Euclidean distance between a and b.
func distance(a, b Vec2) float64 {
	return b.Sub(a).Magnitude()
}

// nearestPointOnSegment returns the parameter u in [0, 1] describing the
// point on segment s->e nearest to p. Returns 0 if s == e.
func nearestPointOnSegment(s, e, p Vec2) float64 {
	if s == e {
		return 0
	}
	segment := e.Sub(s)
	toPoint := p.Sub(s)
	return clamp01(toPoint.Dot(segment) / segment.Dot(segment))
}

// strokeNormal returns a vector orthogonal to the local stroke direction
// at tipState, pointing to the left side of the stroke in a right-handed
// frame, or ok=false when no direction can be established.
//
// The sharp-turn test below compares the raw (unnormalized) dot product of
// velocity and acceleration against strokeNormalMagnitudeThreshold, not the
// cosine of the angle between them. This mirrors the reference
// implementation exactly: it is only a true cosine comparison when velocity
// and acceleration happen to be near unit length, which is the common case
// in practice but not guaranteed. Preserved verbatim rather than "fixed".
func strokeNormal(tip TipState, prevTime Time) (Vec2, bool) {
	if tip.Velocity.Magnitude() == 0 {
		if tip.Acceleration.Magnitude() == 0 {
			return Vec2{}, false
		}
		return tip.Acceleration.Rotate90(), true
	}
	if tip.Acceleration.Magnitude() == 0 {
		return tip.Velocity.Rotate90(), true
	}
	if tip.Velocity.Dot(tip.Acceleration) < strokeNormalMagnitudeThreshold {
		return Vec2{}, false
	}

	dt := float64(tip.Time.Sub(prevTime))
	strokeDir := tip.Velocity.Unit().Add(tip.Velocity.Add(tip.Acceleration.Scale(dt)).Unit())
	return strokeDir.Rotate90(), true
}

// projectAlongNormal solves for the parameter u such that
// s + u*(e-s) == p + k*n for some k, returning u when the segment and the
// normal line are not parallel and u is in [0, 1].
func projectAlongNormal(s, e, p, n Vec2) (float64, bool) {
	v := e.Sub(s)
	det := n.Cross(v)
	if det == 0 {
		return 0, false
	}
	w := s.Sub(p)
	u := w.Cross(n) / det
	if u < 0 || u > 1 {
		return 0, false
	}
	return u, true
}
