// Package bundle exposes packaged swagger-ui assets by logical name.
//
// A Bundle is read-only: the resolver only ever asks it to find resources,
// and the contents are assumed not to change while the process runs.
package bundle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// Resource is one named entry of a bundle.
type Resource interface {
	// Name is the logical name relative to the bundle root.
	Name() string
	// Origin identifies the bundle layer the resource came from.
	Origin() string
	Open() (io.ReadCloser, error)
}

// Bundle finds resources by logical name. Find returns every match in
// precedence order; an empty result means the name is not packaged.
type Bundle interface {
	Find(ctx context.Context, name string) ([]Resource, error)
}

// Lister is implemented by bundles that can enumerate their resources.
type Lister interface {
	List(ctx context.Context) ([]string, error)
}

type fsBundle struct {
	fsys   fs.FS
	root   string
	origin string
}

// FS returns a bundle over the files below root in fsys. An empty root
// means the top of fsys.
func FS(fsys fs.FS, root string, origin string) Bundle {
	root = strings.Trim(path.Clean("/"+root), "/")
	if origin == "" {
		origin = "fs"
	}
	return &fsBundle{fsys: fsys, root: root, origin: origin}
}

func (b *fsBundle) Find(ctx context.Context, name string) ([]Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full, err := b.fullName(name)
	if err != nil {
		return nil, err
	}

	info, err := fs.Stat(b.fsys, full)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("%w: stat %s in %s: %v", ErrLookup, name, b.origin, err)
	case info.IsDir():
		return nil, nil
	}
	return []Resource{&fsResource{fsys: b.fsys, full: full, name: name, origin: b.origin}}, nil
}

func (b *fsBundle) List(ctx context.Context) ([]string, error) {
	start := b.root
	if start == "" {
		start = "."
	}
	var names []string
	err := fs.WalkDir(b.fsys, start, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel := p
		if b.root != "" {
			rel = strings.TrimPrefix(p, b.root+"/")
		}
		names = append(names, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %v", ErrLookup, b.origin, err)
	}
	return names, nil
}

func (b *fsBundle) fullName(name string) (string, error) {
	name = strings.TrimPrefix(name, "/")
	full := name
	if b.root != "" {
		full = b.root + "/" + name
	}
	if name == "" || !fs.ValidPath(full) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return full, nil
}

type fsResource struct {
	fsys   fs.FS
	full   string
	name   string
	origin string
}

func (r *fsResource) Name() string   { return r.name }
func (r *fsResource) Origin() string { return r.origin }

func (r *fsResource) Open() (io.ReadCloser, error) {
	f, err := r.fsys.Open(r.full)
	if err != nil {
		return nil, err
	}
	return f, nil
}

type layered []Bundle

// Layered searches every bundle in order and concatenates the matches,
// so the first match belongs to the earliest layer that has the name.
func Layered(bundles ...Bundle) Bundle {
	l := make(layered, 0, len(bundles))
	for _, b := range bundles {
		if b != nil {
			l = append(l, b)
		}
	}
	return l
}

func (l layered) Find(ctx context.Context, name string) ([]Resource, error) {
	var out []Resource
	for _, b := range l {
		found, err := b.Find(ctx, name)
		if err != nil {
			return nil, err
		}
		out = append(out, found...)
	}
	return out, nil
}

// List returns the sorted union of names of every listable layer.
func (l layered) List(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	for _, b := range l {
		lister, ok := b.(Lister)
		if !ok {
			continue
		}
		names, err := lister.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, n := range names {
			seen[n] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out, nil
}
