package config

import "sort"

// Layout is a named chart size.
type Layout struct {
	Name        string
	Description string
	Width       float64
	Height      float64
}

var Layouts = map[string]*Layout{
	"standard": {
		Name: "standard", Description: "desktop browser, 960x600",
		Width: 960, Height: 600,
	},
	"compact": {
		Name: "compact", Description: "laptop or split screen, 720x450",
		Width: 720, Height: 450,
	},
	"wide": {
		Name: "wide", Description: "projector or 720p display, 1280x720",
		Width: 1280, Height: 720,
	},
}

func GetLayout(name string) *Layout {
	return Layouts[name]
}

func ListLayouts() []string {
	names := make([]string, 0, len(Layouts))
	for name := range Layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
