package site

import (
	"embed"
	"errors"
	"io/fs"
	"os"
)

//go:embed templates
var embedded embed.FS

// DefaultTemplates returns the built-in templates.
func DefaultTemplates() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// overlayFS serves files from upper when present, otherwise from lower.
type overlayFS struct {
	upper fs.FS
	lower fs.FS
}

func (o overlayFS) Open(name string) (fs.File, error) {
	if o.upper != nil {
		f, err := o.upper.Open(name)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return o.lower.Open(name)
}

// Templates returns the built-in templates overridden by the files in dir.
// A missing dir leaves the built-in set untouched.
func Templates(dir string) fs.FS {
	if dir == "" {
		return DefaultTemplates()
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return DefaultTemplates()
	}
	return overlayFS{upper: os.DirFS(dir), lower: DefaultTemplates()}
}
