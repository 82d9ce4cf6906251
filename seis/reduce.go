package seis

import "math"

// reduceKernel scans one event's residual-cube row and records the smallest
// non-NullF value and its node index. Events with no valid node get
// bestNode Null and residual +Inf. Strict < keeps the first-seen node on a
// tie. e is the global work-item id, one per event.
func reduceKernel(cube []float32, nodes int, bestNode []int32, residual []float32, e int) {
	if e >= len(bestNode) {
		return
	}
	best := Null
	bestVal := float32(math.Inf(1))
	row := cube[e*nodes : (e+1)*nodes]
	for k, v := range row {
		if v == NullF {
			continue
		}
		if v < bestVal {
			bestVal = v
			best = int32(k)
		}
	}
	bestNode[e] = best
	residual[e] = bestVal
}
