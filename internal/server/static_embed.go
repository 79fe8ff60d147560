package server

import (
	"embed"
	"io/fs"
)

//go:embed static/*
var staticEmbed embed.FS

//go:embed templates/*
var templateFS embed.FS

// staticFS exposes a sub-filesystem rooted at static/.
var staticFS fs.FS = func() fs.FS {
	sub, err := fs.Sub(staticEmbed, "static")
	if err != nil {
		return staticEmbed
	}
	return sub
}()
