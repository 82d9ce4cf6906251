package seis

import "math"

// Station is one surface receiver position. A common altitude applies to the
// whole network.
type Station struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// locateJob bundles the read-only inputs shared by every (event, node)
// work-item of the residual-cube kernel.
type locateJob struct {
	model       Model
	coords      []Station
	stationsAlt float64
	delays      []int32   // flat [events, stations+1], column 0 validity
	origins     []float32 // flat [events, 3] grid origins
	grid        GridConfig
	search      SearchConfig
	base        int
	events      int
}

// diffKernel evaluates one residual-cube cell. g is the global work-item id
// over [0, events*nodes); out-of-range ids return immediately. The cell
// receives NullF when the node is geometrically invalid or fewer than
// minLocateStations stations contribute.
func (j *locateJob) diffKernel(cube []float32, g int) {
	nodes := j.grid.Nodes()
	if g >= j.events*nodes {
		return
	}
	event, node := g/nodes, g%nodes
	ix := node % j.grid.Nx
	iy := (node / j.grid.Nx) % j.grid.Ny
	iz := node / (j.grid.Nx * j.grid.Ny)

	x := float64(ix)*float64(j.grid.Dx) + float64(j.origins[event*3])
	y := float64(iy)*float64(j.grid.Dy) + float64(j.origins[event*3+1])
	z := float64(iz)*float64(j.grid.Dz) + float64(j.origins[event*3+2])

	if z < j.model.Floor() || z > j.model.Ceiling() {
		cube[g] = NullF
		return
	}

	row := j.delays[event*(len(j.coords)+1):]
	if row[0] != 1 {
		cube[g] = NullF
		return
	}

	baseRho := math.Hypot(j.coords[j.base].X-x, j.coords[j.base].Y-y)
	baseTau, ok := rayTime(j.model, 0, z, baseRho, j.stationsAlt, j.search.Accuracy, j.search.Frequency)
	if !ok {
		cube[g] = NullF
		return
	}

	sum := 0.0
	count := 0
	for i, st := range j.coords {
		if i == j.base {
			continue
		}
		rho := math.Hypot(st.X-x, st.Y-y)
		tau, ok := rayTime(j.model, 0, z, rho, j.stationsAlt, j.search.Accuracy, j.search.Frequency)
		if !ok {
			continue
		}
		theor := tau - baseTau
		if theor < 0 {
			continue
		}
		measured := row[i+1]
		if measured == Null {
			continue
		}
		d := float64(theor) - float64(measured)
		sum += d * d
		count++
	}
	if count < minLocateStations {
		cube[g] = NullF
		return
	}
	cube[g] = float32(math.Sqrt(sum) / float64(count))
}
