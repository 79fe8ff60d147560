// Package viz is the terminal frontend for the story.
//
// Scenes render into the same element tree the web frontend serves. [Rasterize]
// projects that tree's svg onto a Braille [Canvas], and [App] wraps it in a
// Bubble Tea program with a side panel for the narrative, legend, filter and
// inspected point.
//
// # Key Bindings
//
//	→ l n   next scene
//	← h p   previous scene
//	1-9     jump to a scene
//	f       cycle the genre filter
//	[ ]     step through explorer points
//	t       cycle color themes
//	?       help overlay
package viz
