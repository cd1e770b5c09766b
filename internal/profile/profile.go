package profile

import "sort"

// Profile defines how transformed images are written.
type Profile struct {
	Name    string
	Format  string // output format, see encoder.Registry
	Quality int    // 1-100; effort for lossless formats
}

// DefaultName is used when no profile is requested.
const DefaultName = "lossless"

// Built-in profiles.
var profiles = map[string]Profile{
	"lossless": {
		Name:    "lossless",
		Format:  "png",
		Quality: 50,
	},
	"lossless-small": {
		Name:    "lossless-small",
		Format:  "png",
		Quality: 100,
	},
	// Matches the MixImage app's save/share path. Lossy.
	"share": {
		Name:    "share",
		Format:  "jpeg",
		Quality: 100,
	},
	"webp": {
		Name:    "webp",
		Format:  "webp",
		Quality: 90,
	},
	"avif": {
		Name:    "avif",
		Format:  "avif",
		Quality: 90,
	},
	"tiff": {
		Name:    "tiff",
		Format:  "tiff",
		Quality: 0,
	},
	"bmp": {
		Name:    "bmp",
		Format:  "bmp",
		Quality: 0,
	},
}

// Get returns a profile by name. Falls back to lossless if unknown.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	p := profiles[DefaultName]
	p.Name = name // preserve requested name
	return p
}

// Known reports whether name is a built-in profile.
func Known(name string) bool {
	_, ok := profiles[name]
	return ok
}

// Names lists the built-in profiles in sorted order.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
