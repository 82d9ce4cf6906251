package seis

// Null marks absence in the integer result channels (delay columns, best-node
// slots). NullF is its real-valued twin used in the residual cube.
const (
	Null  int32   = -9999
	NullF float32 = -9999
)
