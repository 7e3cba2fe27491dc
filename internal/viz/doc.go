// Package viz provides terminal output for long renders.
//
//   - [ProgressModel]: Bubble Tea model showing frame progress and timing
//   - [Canvas]: Braille canvas used to preview frame outlines
//
// # Key Bindings
//
//	q, Ctrl+C - cancel the render
package viz
