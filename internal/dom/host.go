package dom

import "strings"

// Host is the display surface: a title region and a content region.
type Host struct {
	title   string
	content *Element
}

// ContentID is the id of the content element.
const ContentID = "vis"

// NewHost creates an empty host.
func NewHost() *Host {
	return &Host{content: New("div").Set("id", ContentID)}
}

// Title returns the current title.
func (h *Host) Title() string { return h.title }

// SetTitle replaces the title.
func (h *Host) SetTitle(title string) { h.title = title }

// Content returns the content element. Renderers append to it.
func (h *Host) Content() *Element { return h.content }

// Clear empties the content region.
func (h *Host) Clear() { h.content.Clear() }

// Markup renders the children of the content region.
func (h *Host) Markup() string {
	var b strings.Builder
	for _, c := range h.content.Children {
		c.render(&b)
	}
	return b.String()
}
