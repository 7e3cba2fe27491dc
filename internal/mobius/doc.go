// Package mobius provides the numeric primitives shared by the grid
// transformation engine.
//
// The package defines the data the engine moves from stage to stage:
//
//   - [Grid]: (G+1)×(G+1) complex samples in polar or cartesian layout
//   - [Field]: mapped (x, y) coordinates with an explicit validity flag
//   - [LimitsCache]: lazily computed, invalidate-on-write axis window
//   - [Shift]: periodic cubic resampling used to animate a grid
//
// # Grid Layout
//
// Grids are stored row-major. For polar grids rows walk the angle and
// columns walk the radius, so a shift along axis 0 rotates and a shift
// along axis 1 zooms radially. The last row and column duplicate the
// seam so that slicing a tile boundary never has to wrap.
//
// # Pole Handling
//
// Divisions performed by a transform go through [Div], which reports
// failure instead of producing NaN or Inf:
//
//	w, ok := mobius.Div(p-z*q, 1-z)
//	if !ok {
//	    // vertex is marked invalid
//	}
package mobius
