package main

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed all:ui
var bundle embed.FS

// webClient returns the bundled browser client with ui/ as its root, so
// index.html is served at /.
func webClient() fs.FS {
	sub, err := fs.Sub(bundle, "ui")
	if err != nil {
		panic(fmt.Sprintf("bundled web client: %v", err))
	}
	return sub
}
