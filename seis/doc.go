// Package seis provides the two numeric engines of the micro-seismic event
// locator: windowed cross-correlation delay estimation and grid-search
// localization through a horizontally layered velocity model.
//
// # Reading Guide
//
// Start with these three files to understand the pipeline:
//   - delay.go: the per-time-index best-delay kernel and the RealDelays layout
//   - raytrace.go / raytime.go: layered-model ray marching and the bisection
//     solver that turns a receiver offset into an integer travel time
//   - engine.go: the host driver that linearizes work-item counts into blocks
//     and runs the kernels over a shared worker pool
//
// # Execution model
//
// Every kernel is a pure function of a global work-item id with an
// out-of-range guard: it reads shared inputs and writes exactly one disjoint
// output cell (a delay row, a residual-cube cell, a per-event reduction
// slot). There is no communication between work-items; the host enforces a
// happens-before edge between stages by waiting on the pool group.
//
// # Absence
//
// Inside the package, fallible geometry returns (value, ok) pairs. The -9999
// sentinel of the wire format (Null, NullF) appears in the flat result
// buffers handed across the package boundary; the only internal use is the
// lateral coordinate rayTime assigns to a reflected probe ray.
package seis
