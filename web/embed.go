package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
)

// Assets holds the feed UI: the index template and its static files.
//
//go:embed templates/*.tmpl static/*
var Assets embed.FS

// StaticFS returns the file system backing /static.
func StaticFS() http.FileSystem {
	sub, err := fs.Sub(Assets, "static")
	if err != nil {
		// Should not happen with an embedded tree; serve nothing.
		return http.FS(embed.FS{})
	}
	return http.FS(sub)
}

// Templates parses the embedded templates.
func Templates() *template.Template {
	return template.Must(template.ParseFS(Assets, "templates/*.tmpl"))
}
