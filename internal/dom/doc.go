// Package dom is a small element tree used as the drawing surface.
//
// Renderers build [Element] trees with a chained API (Append, Set, Style,
// SetText) much like a document selection, and frontends turn the tree
// into markup with [Element.Render] or walk it directly. A [Host] pairs a
// title with a content element; it is the single surface the scene navigator
// clears and refills.
package dom
