// Package viz draws integrals in the terminal.
//
// [Braille] renders the curve, the x-axis, dashed bound lines and any
// Riemann rectangles on a [Canvas] of Braille cells. [Graph] plots the
// region with asciigraph. [App] is the Bubble Tea front end:
//
//	tab    - next field (f(x), a, b)
//	^r     - toggle Riemann rectangles
//	[ ]    - fewer/more rectangles (5 to 50)
//	^n ^p  - next/previous example
//	^t     - cycle color themes
//	esc    - quit
package viz
