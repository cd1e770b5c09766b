package manifest

// Manifest records one scramble or unscramble run.
type Manifest struct {
	Version     int              `json:"version"`
	GeneratedAt string           `json:"generated_at"`
	RunID       string           `json:"run_id"`
	Mode        string           `json:"mode"` // "scramble" or "unscramble"
	Profile     string           `json:"profile"`
	Seed        int32            `json:"seed"`
	Shift       string           `json:"shift,omitempty"`
	Remainder   string           `json:"remainder"` // "copy" or "blank"
	BuildInfo   *BuildInfo       `json:"build_info,omitempty"`
	Images      map[string]Image `json:"images"`
	Stats       Stats            `json:"stats"`
}

// BuildInfo captures run parameters for diagnostics.
type BuildInfo struct {
	Workers int    `json:"workers"`
	Version string `json:"version,omitempty"`
}

// Image describes one source image and the file produced from it.
type Image struct {
	Source Source `json:"source"`
	Layout Layout `json:"layout"`
	Output Output `json:"output"`
}

// Source holds metadata about the input file.
type Source struct {
	Path      string `json:"path"` // relative to the input root
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Format    string `json:"format"`
	Size      int64  `json:"size"`
	Hash      string `json:"hash"`       // xxhash64 of the file
	PixelHash string `json:"pixel_hash"` // xxhash64 of decoded NRGBA pixels
}

// Layout is the block grid used for the image.
type Layout struct {
	BlockSize int `json:"block_size"`
	BlocksX   int `json:"blocks_x"`
	BlocksY   int `json:"blocks_y"`
	Blocks    int `json:"blocks"`
}

// Output is the written result.
type Output struct {
	Format    string `json:"format"`
	Path      string `json:"path"` // relative to the manifest
	Size      int64  `json:"size"`
	Hash      string `json:"hash"`
	PixelHash string `json:"pixel_hash"`
	Lossless  bool   `json:"lossless"`
}

// Stats aggregates run metrics.
type Stats struct {
	TotalInputBytes  int64 `json:"total_input_bytes"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
	TotalImages      int   `json:"total_images"`
	TotalBlocks      int   `json:"total_blocks"`
	Failed           int   `json:"failed,omitempty"`
}

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1

// DefaultFileName is the manifest name inside an output directory.
const DefaultFileName = "miximage.manifest.json"
