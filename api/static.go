package api

import (
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// StaticFileServer serves files from dir, falling back to fallbackPath for
// unknown paths so a single-page client can route on its own.
func StaticFileServer(dir string, fallbackPath string) (http.Handler, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("static dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("static dir %s is not a directory", dir)
	}

	fs := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
		if st, err := os.Stat(name); err == nil && !st.IsDir() {
			fs.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, filepath.Join(dir, filepath.FromSlash(fallbackPath)))
	}), nil
}
