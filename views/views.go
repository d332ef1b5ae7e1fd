// Package views holds the HTML templates and static assets, embedded in
// the binary.
package views

import (
	"blog-app/utils"
	"embed"
	"html/template"
	"io/fs"
	"path"
	"strings"
)

//go:embed templates assets
var files embed.FS

var templateFunctions = template.FuncMap{
	"markdown": utils.MarkdownToHTML,
	"truncate": func(s string, length int) string {
		runes := []rune(s)
		if len(runes) > length {
			return string(runes[:length]) + "…"
		}
		return s
	},
	"add": func(a, b int) int {
		return a + b
	},
}

// Load parses every templates/<dir>/<name>.html file as "<dir>/<name>".
func Load() (*template.Template, error) {
	return loadFromFS(files)
}

func loadFromFS(fsys fs.FS) (*template.Template, error) {
	t := template.New("").Funcs(templateFunctions)
	dirs, err := fs.ReadDir(fsys, "templates")
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if !dir.IsDir() {
			continue
		}
		entries, err := fs.ReadDir(fsys, path.Join("templates", dir.Name()))
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
				continue
			}
			contents, err := fs.ReadFile(fsys, path.Join("templates", dir.Name(), entry.Name()))
			if err != nil {
				return nil, err
			}
			name := dir.Name() + "/" + strings.TrimSuffix(entry.Name(), ".html")
			if _, err := t.New(name).Parse(string(contents)); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}

// Assets returns the static files rooted at assets/.
func Assets() fs.FS {
	sub, err := fs.Sub(files, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}
