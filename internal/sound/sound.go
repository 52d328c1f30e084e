// Package sound maps free text to sound files in the asset directory.
//
// Nothing is cached: every Resolve, List and Latest call goes back to the
// filesystem, so files dropped into the directory are usable immediately.
package sound

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/keshon/server-soundboard/internal/text"
)

// ErrNotFound is returned when no asset matches the requested name.
var ErrNotFound = errors.New("sound not found")

// extensions are probed in order after the bare name.
var extensions = []string{"", ".ogg", ".mp3"}

// Asset is a file in the sound directory.
type Asset struct {
	Name    string // file name, extension included
	Path    string
	ModTime time.Time
}

// Resolver looks up sounds inside a single directory.
type Resolver struct {
	dir string
}

// NewResolver returns a resolver rooted at dir.
func NewResolver(dir string) *Resolver {
	return &Resolver{dir: dir}
}

// Dir returns the sound directory.
func (r *Resolver) Dir() string {
	return r.dir
}

// Resolve normalizes s and returns the path of the first existing
// candidate among name, name.ogg and name.mp3.
func (r *Resolver) Resolve(s string) (string, error) {
	name := text.Normalize(s)
	if name == "" {
		return "", ErrNotFound
	}

	for _, ext := range extensions {
		candidate := filepath.Join(r.dir, name+ext)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", ErrNotFound
}

// Path returns the path of a file inside the sound directory without
// normalizing or probing extensions.
func (r *Resolver) Path(fileName string) (string, error) {
	candidate := filepath.Join(r.dir, filepath.Base(fileName))
	info, err := os.Stat(candidate)
	if err != nil || info.IsDir() {
		return "", ErrNotFound
	}
	return candidate, nil
}

// List returns the sound names (file names up to the first dot), sorted,
// with duplicates from several extensions collapsed.
func (r *Resolver) List() ([]string, error) {
	assets, err := r.assets()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(assets))
	seen := make(map[string]bool, len(assets))
	for _, a := range assets {
		name, _, _ := strings.Cut(a.Name, ".")
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Latest returns up to n assets, most recently modified first.
func (r *Resolver) Latest(n int) ([]Asset, error) {
	assets, err := r.assets()
	if err != nil {
		return nil, err
	}

	sort.SliceStable(assets, func(i, j int) bool {
		return assets[i].ModTime.After(assets[j].ModTime)
	})
	if n >= 0 && len(assets) > n {
		assets = assets[:n]
	}
	return assets, nil
}

func (r *Resolver) assets() ([]Asset, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read sound directory: %w", err)
	}

	assets := make([]Asset, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		assets = append(assets, Asset{
			Name:    e.Name(),
			Path:    filepath.Join(r.dir, e.Name()),
			ModTime: info.ModTime(),
		})
	}
	return assets, nil
}
