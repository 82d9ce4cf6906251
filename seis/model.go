package seis

import "fmt"

// Layer is one row of the velocity model. Altitudes increase upward and
// Bottom < Top; Vp is the layer's P-wave velocity in model units per second.
type Layer struct {
	Bottom float64 `yaml:"bottom" json:"bottom"`
	Top    float64 `yaml:"top" json:"top"`
	Vp     float64 `yaml:"vp" json:"vp"`
}

// Model is a horizontally layered velocity model stored top-down: row 0 has
// the highest top altitude and the last row the lowest bottom. Rows form a
// non-overlapping partition of [Floor, Ceiling].
type Model []Layer

// LayerOf returns the index of the layer containing altitude z, resolved by
// a linear scan of Bottom <= z < Top.
func (m Model) LayerOf(z float64) (int, bool) {
	for i, l := range m {
		if l.Bottom <= z && z < l.Top {
			return i, true
		}
	}
	return 0, false
}

// Floor is the lowest altitude covered by the model.
func (m Model) Floor() float64 {
	return m[len(m)-1].Bottom
}

// Ceiling is the highest altitude covered by the model.
func (m Model) Ceiling() float64 {
	return m[0].Top
}

// Validate checks that the model is a top-down, gapless, non-overlapping
// partition with positive velocities.
func (m Model) Validate() error {
	if len(m) == 0 {
		return fmt.Errorf("velocity model is empty")
	}
	for i, l := range m {
		if l.Bottom >= l.Top {
			return fmt.Errorf("layer %d: bottom %g must be below top %g", i, l.Bottom, l.Top)
		}
		if l.Vp <= 0 {
			return fmt.Errorf("layer %d: velocity %g must be > 0", i, l.Vp)
		}
		if i > 0 && m[i-1].Bottom != l.Top {
			return fmt.Errorf("layer %d: top %g does not meet layer %d bottom %g", i, l.Top, i-1, m[i-1].Bottom)
		}
	}
	return nil
}
