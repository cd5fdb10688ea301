package templates

import (
	"embed"
	"io/fs"
)

// catalogFS holds the built-in templates.
//
//go:embed all:catalog
var catalogFS embed.FS

// Builtin returns the store of built-in templates.
func Builtin() *FSStore {
	sub, err := fs.Sub(catalogFS, "catalog")
	if err != nil {
		// fs.Sub only fails on an invalid path literal
		panic(err)
	}
	return NewFSStore(sub)
}
