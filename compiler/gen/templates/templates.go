// Package templates holds the embedded resource templates, one per artifact
// kind.
package templates

import (
	"embed"
	"io/fs"
)

//go:embed *.tmpl
var resourceTemplates embed.FS

// FS returns the embedded template files, named <kind>.tmpl.
func FS() fs.FS {
	return resourceTemplates
}

// Source returns the content of the template for kind.
func Source(kind string) (string, error) {
	content, err := resourceTemplates.ReadFile(kind + ".tmpl")
	if err != nil {
		return "", err
	}
	return string(content), nil
}
