package server

import (
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// webClient serves the browser client bundled in fsys. Extension-less paths
// are client-side routes and get index.html; a missing asset is a plain 404
// so the browser never parses the page as a script.
func webClient(fsys fs.FS) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if fsys == nil {
			http.Error(w, "web client not bundled; use the /api endpoints", http.StatusNotFound)
			return
		}

		name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
		if name != "" && isFile(fsys, name) {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			http.ServeFileFS(w, r, fsys, name)
			return
		}
		if path.Ext(name) != "" {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Cache-Control", "no-cache")
		http.ServeFileFS(w, r, fsys, "index.html")
	}
}

func isFile(fsys fs.FS, name string) bool {
	info, err := fs.Stat(fsys, name)
	return err == nil && !info.IsDir()
}
