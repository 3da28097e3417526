// Package software is a CPU backend: bitmaps are decoded into image.Image and
// composited onto any draw.Image.
package software

import (
	"fmt"
	"image"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/kryonlabs/kryon-meter/meter"
)

// Bitmap is a decoded image.
type Bitmap struct {
	name string
	img  image.Image
}

// NewBitmap wraps an already decoded image.
func NewBitmap(name string, img image.Image) *Bitmap {
	return &Bitmap{name: name, img: img}
}

func (b *Bitmap) Name() string       { return b.name }
func (b *Bitmap) Image() image.Image { return b.img }

func (b *Bitmap) Size() meter.Size {
	r := b.img.Bounds()
	return meter.Size{W: r.Dx(), H: r.Dy()}
}

// Loader decodes bitmaps from a file system and caches them by name.
// Absolute names bypass the file system and are opened from disk.
type Loader struct {
	fsys  fs.FS
	cache map[string]*Bitmap
}

func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys, cache: make(map[string]*Bitmap)}
}

// NewDirLoader loads bitmaps relative to dir.
func NewDirLoader(dir string) *Loader {
	return NewLoader(os.DirFS(dir))
}

// Load decodes name unless it is cached and force is unset. A failed load
// evicts any cached bitmap of the same name.
func (l *Loader) Load(name string, force bool) (meter.Size, error) {
	key := cacheKey(name)
	if !force {
		if b, ok := l.cache[key]; ok {
			return b.Size(), nil
		}
	}

	img, err := l.decode(name)
	if err != nil {
		delete(l.cache, key)
		return meter.Size{}, err
	}
	b := NewBitmap(name, img)
	l.cache[key] = b
	return b.Size(), nil
}

func (l *Loader) Borrow(name string) (meter.Bitmap, bool) {
	b, ok := l.cache[cacheKey(name)]
	if !ok {
		return nil, false
	}
	return b, true
}

// Purge drops every cached bitmap.
func (l *Loader) Purge() {
	clear(l.cache)
}

func (l *Loader) Len() int { return len(l.cache) }

func (l *Loader) decode(name string) (image.Image, error) {
	var (
		f   io.ReadCloser
		err error
	)
	if filepath.IsAbs(name) {
		f, err = os.Open(name)
	} else {
		f, err = l.fsys.Open(fsPath(name))
	}
	if err != nil {
		return nil, fmt.Errorf("open image %q: %w", name, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %q: %w", name, err)
	}
	return img, nil
}

// fsPath turns a skin-relative name with either separator into an fs.FS path.
func fsPath(name string) string {
	p := path.Clean(strings.ReplaceAll(name, `\`, "/"))
	return strings.TrimPrefix(p, "/")
}

func cacheKey(name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return fsPath(name)
}
