package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AnyUserName/miximage-cli/internal/encoder"
)

// Source represents a discovered image file.
type Source struct {
	// AbsPath is the absolute path to the file on disk.
	AbsPath string
	// RelPath is the path relative to the input root.
	RelPath string
	// Key is the image key (relpath without extension).
	Key string
	// Format is the source format (png, jpeg, webp, gif, bmp, tiff).
	Format string
	// Size is the file size in bytes.
	Size int64
}

// imageExtensions lists recognized image file extensions.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
}

// ScanImages returns the image at path, or every image below it when
// path is a directory. Hidden directories and skipDir are not entered.
func ScanImages(path, skipDir string) ([]Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		ext := strings.ToLower(filepath.Ext(path))
		if !imageExtensions[ext] {
			return nil, fmt.Errorf("%s: unsupported image extension %q", path, ext)
		}
		return []Source{newSource(path, filepath.Base(path), ext, info.Size())}, nil
	}

	var sources []Source
	err = filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if p != path && (strings.HasPrefix(info.Name(), ".") || p == skipDir) {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(p))
		if !imageExtensions[ext] {
			return nil
		}

		relPath, err := filepath.Rel(path, p)
		if err != nil {
			return err
		}
		sources = append(sources, newSource(p, relPath, ext, info.Size()))
		return nil
	})

	return sources, err
}

func newSource(absPath, relPath, ext string, size int64) Source {
	// Key: relative path without extension, using forward slashes.
	key := filepath.ToSlash(strings.TrimSuffix(relPath, filepath.Ext(relPath)))
	return Source{
		AbsPath: absPath,
		RelPath: filepath.ToSlash(relPath),
		Key:     key,
		Format:  encoder.NormalizeFormat(ext),
		Size:    size,
	}
}
