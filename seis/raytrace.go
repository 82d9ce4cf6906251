package seis

import "math"

// rayPoint is the end point of a traced ray: lateral offset from the source,
// final altitude, and travel time in sample units.
type rayPoint struct {
	r, z, tau float64
}

// rayConstant is Snell's invariant sin(theta)/v, constant along a ray in a
// horizontally layered medium.
func rayConstant(theta, vp float64) float64 {
	return math.Sin(theta) / vp
}

// traceRay marches a single ray with incidence angle theta from
// (sourceR, sourceZ) to the altitude targetZ, refracting at every layer
// interface in between. lateral is +1 or -1 and signs the lateral offsets.
// frequency scales the per-layer travel increments into sample units.
//
// ok is false when the ray reflects: either altitude lies outside the model,
// or Snell's refraction breaks down (sin(phi) > 1) in any crossed layer.
func traceRay(m Model, sourceR, sourceZ, targetZ, theta, lateral float64, frequency int) (rayPoint, bool) {
	srcLayer, srcOK := m.LayerOf(sourceZ)
	tgtLayer, tgtOK := m.LayerOf(targetZ)
	if !srcOK || !tgtOK {
		return rayPoint{}, false
	}

	lo, hi := sourceZ, targetZ
	first, last := tgtLayer, srcLayer
	if sourceZ > targetZ {
		lo, hi = targetZ, sourceZ
		first, last = srcLayer, tgtLayer
	}

	p := rayConstant(theta, m[srcLayer].Vp)
	for i := first; i <= last; i++ {
		if p*m[i].Vp > 1 {
			return rayPoint{}, false
		}
	}

	r := sourceR
	span, tau := 0.0, 0.0
	for i := first; i <= last; i++ {
		// Portion of the source-target span inside layer i: full thickness
		// for interior layers, the partial cut for the end layers.
		thickness := math.Min(hi, m[i].Top) - math.Max(lo, m[i].Bottom)
		phi := math.Asin(p * m[i].Vp)
		dr := thickness * math.Tan(phi) * lateral
		dl := math.Sqrt(dr*dr + thickness*thickness)
		r += dr
		span += thickness
		tau += dl / m[i].Vp * float64(frequency)
	}

	z := sourceZ + span
	if sourceZ > targetZ {
		z = sourceZ - span
	}
	return rayPoint{r: r, z: z, tau: tau}, true
}
