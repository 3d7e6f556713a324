package bundle

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Dir returns a bundle over the directory dir, rooted at root inside it.
func Dir(dir, root string) (Bundle, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenBundle, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrOpenBundle, dir)
	}
	return FS(os.DirFS(dir), root, dir), nil
}

// Zip opens a zip or jar archive (for example a swagger-ui webjar) as a
// bundle rooted at root inside the archive. The caller closes the archive.
func Zip(file, root string) (Bundle, io.Closer, error) {
	zr, err := zip.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrOpenBundle, err)
	}
	return FS(zr, root, file), zr, nil
}

// Open picks Dir or Zip for p depending on what is on disk. The returned
// closer is nil for directories.
func Open(p, root string) (Bundle, io.Closer, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrOpenBundle, err)
	}
	if info.IsDir() {
		b, err := Dir(p, root)
		return b, nil, err
	}
	switch strings.ToLower(filepath.Ext(p)) {
	case ".zip", ".jar":
		return Zip(p, root)
	default:
		return nil, nil, fmt.Errorf("%w: unsupported bundle %s", ErrOpenBundle, p)
	}
}
