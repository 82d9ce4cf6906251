package seis

import "math"

// maxBisectionSteps bounds the three-point bisection of rayTime.
const maxBisectionSteps = 10

// rayTime finds the integer sample travel time of a ray leaving
// (sourceR, sourceZ) and landing within accuracy of receiverR at the
// receiver altitude receiverZ. The incidence angle is bracketed between the
// near-vertical angle resolving half the accuracy and the straight-line
// angle through the source layer, then narrowed by a three-point bisection.
//
// ok is false when the source altitude has no layer or the bisection fails
// to land inside the tolerance within its step budget.
func rayTime(m Model, sourceR, sourceZ, receiverR, receiverZ, accuracy float64, frequency int) (int32, bool) {
	srcLayer, srcOK := m.LayerOf(sourceZ)
	if !srcOK {
		return 0, false
	}

	dz := math.Abs(sourceZ - receiverZ)
	minAngle := math.Atan2(0.5*accuracy, dz)
	rOffset := math.Abs(sourceR - receiverR)
	maxAngle := math.Atan2(rOffset, m[srcLayer].Top-sourceZ)

	lateral := 1.0
	if receiverR < 0 {
		lateral = -1
	}

	probe := func(theta float64) (float64, float64, bool) {
		end, ok := traceRay(m, sourceR, sourceZ, receiverZ, theta, lateral, frequency)
		if !ok {
			// A reflected probe keeps the sentinel lateral coordinate so the
			// bracketing predicates below see it like the device kernel did.
			return float64(NullF), 0, false
		}
		return end.r, end.tau, math.Abs(end.r-receiverR) < accuracy
	}

	for i := 0; i < maxBisectionSteps; i++ {
		rMin, tau, hit := probe(minAngle)
		if hit {
			return int32(tau), true
		}
		mid := (minAngle + maxAngle) / 2
		rMid, tau, hit := probe(mid)
		if hit {
			return int32(tau), true
		}
		rMax, tau, hit := probe(maxAngle)
		if hit {
			return int32(tau), true
		}

		if lateral > 0 {
			switch {
			case rMin < receiverR && receiverR < rMid:
				maxAngle = mid
			case rMid < receiverR && receiverR < rMax:
				minAngle = mid
			default:
				return 0, false
			}
		} else {
			switch {
			case rMid < receiverR && receiverR < rMin:
				maxAngle = mid
			case rMax < receiverR && receiverR < rMid:
				minAngle = mid
			default:
				return 0, false
			}
		}
	}
	return 0, false
}
