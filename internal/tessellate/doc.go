// Package tessellate cuts a mapped grid into checkerboard polygons.
//
// # Layout
//
// The grid is split into cells of XStride rows by YStride columns. Each
// cell is outlined by a closed walk over four boundary segments and
// belongs to band (row/XStride + col/YStride). The layout depends only on
// grid size and strides and is shared across colour changes.
//
// # Colouring
//
// With n colours, band k falls in class k mod n. Class n-1 is never
// drawn, leaving the background (colour 0) showing through; class c is
// painted with colour c+1.
package tessellate
