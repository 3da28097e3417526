package raylib

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/kryonlabs/kryon-meter/meter"
)

// textureBitmap is a loaded texture handed out by TextureLoader.Borrow.
type textureBitmap struct {
	name    string
	texture rl.Texture2D
}

func (b *textureBitmap) Size() meter.Size {
	return meter.Size{W: int(b.texture.Width), H: int(b.texture.Height)}
}

type textureEntry struct {
	image  *rl.Image // Decoded pixels waiting for a GL context
	bitmap *textureBitmap
	size   meter.Size
}

// TextureLoader decodes image files with raylib and caches one texture per
// name. Files may be loaded before the window exists; their textures are
// created on first Borrow once a GL context is ready.
type TextureLoader struct {
	baseDir string
	cache   map[string]*textureEntry
}

func NewTextureLoader(baseDir string) *TextureLoader {
	return &TextureLoader{
		baseDir: baseDir,
		cache:   make(map[string]*textureEntry),
	}
}

func (l *TextureLoader) fullPath(name string) string {
	name = filepath.FromSlash(strings.ReplaceAll(name, `\`, "/"))
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(l.baseDir, name)
}

func (l *TextureLoader) Load(name string, force bool) (meter.Size, error) {
	fullPath := l.fullPath(name)
	if entry, exists := l.cache[fullPath]; exists && !force {
		return entry.size, nil
	}
	l.release(fullPath)

	if _, statErr := os.Stat(fullPath); statErr != nil {
		return meter.Size{}, fmt.Errorf("TextureLoader Load: image file %s: %w", fullPath, statErr)
	}
	img := rl.LoadImage(fullPath)
	if img == nil || img.Data == nil || img.Width == 0 || img.Height == 0 {
		if img != nil {
			rl.UnloadImage(img)
		}
		return meter.Size{}, fmt.Errorf("TextureLoader Load: failed to load image data for %s", fullPath)
	}

	entry := &textureEntry{
		image: img,
		size:  meter.Size{W: int(img.Width), H: int(img.Height)},
	}
	l.cache[fullPath] = entry
	if rl.IsWindowReady() {
		l.upload(fullPath, entry)
	}
	return entry.size, nil
}

func (l *TextureLoader) Borrow(name string) (meter.Bitmap, bool) {
	fullPath := l.fullPath(name)
	entry, exists := l.cache[fullPath]
	if !exists {
		return nil, false
	}
	if entry.bitmap == nil && entry.image != nil && rl.IsWindowReady() {
		l.upload(fullPath, entry)
	}
	if entry.bitmap == nil {
		return nil, false
	}
	return entry.bitmap, true
}

// upload turns the entry's pending image into a texture and frees the image.
func (l *TextureLoader) upload(fullPath string, entry *textureEntry) {
	texture := rl.LoadTextureFromImage(entry.image)
	rl.UnloadImage(entry.image)
	entry.image = nil
	if texture.ID == 0 {
		log.Printf("ERROR TextureLoader: Failed to create texture from image for %s", fullPath)
		delete(l.cache, fullPath)
		return
	}
	entry.bitmap = &textureBitmap{name: fullPath, texture: texture}
}

func (l *TextureLoader) release(fullPath string) bool {
	entry, exists := l.cache[fullPath]
	if !exists {
		return false
	}
	delete(l.cache, fullPath)
	if entry.image != nil {
		rl.UnloadImage(entry.image)
	}
	if entry.bitmap != nil && entry.bitmap.texture.ID > 0 {
		rl.UnloadTexture(entry.bitmap.texture)
		return true
	}
	return false
}

// Purge unloads every cached image and texture and returns how many textures were freed.
func (l *TextureLoader) Purge() int {
	unloadedCount := 0
	for fullPath := range l.cache {
		if l.release(fullPath) {
			unloadedCount++
		}
	}
	return unloadedCount
}
