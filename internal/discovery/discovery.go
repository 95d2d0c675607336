package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// AudioFile identifies one discovered input.
type AudioFile struct {
	// Path is the absolute path to the audio file.
	Path string
	// Name is the display name: the base name without extension.
	Name string
	// Ordinal is the 1-based position after natural sorting.
	Ordinal int
}

// Discover lists the audio files in dir whose extension is in extensions
// (without dots, case-insensitive), ordered by natural sort. A missing or
// empty directory yields an empty slice, not an error; the caller decides
// whether that matters.
func Discover(dir string, extensions []string) ([]AudioFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read audio directory %s: %w", dir, err)
	}

	allowed := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}

	files := make([]AudioFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
		if _, ok := allowed[ext]; !ok {
			continue
		}
		files = append(files, AudioFile{
			Path: filepath.Join(dir, name),
			Name: strings.TrimSuffix(name, filepath.Ext(name)),
		})
	}

	sort.SliceStable(files, func(i, j int) bool {
		return naturalLess(filepath.Base(files[i].Path), filepath.Base(files[j].Path))
	})
	for i := range files {
		files[i].Ordinal = i + 1
	}
	return files, nil
}
