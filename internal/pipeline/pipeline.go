package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/AnyUserName/miximage-cli/internal/encoder"
	"github.com/AnyUserName/miximage-cli/internal/manifest"
	"github.com/AnyUserName/miximage-cli/internal/profile"
	"github.com/AnyUserName/miximage-cli/internal/scrambler"
)

// Mode selects the direction of a run.
type Mode int

const (
	ModeScramble Mode = iota
	ModeUnscramble
)

func (m Mode) String() string {
	if m == ModeUnscramble {
		return "unscramble"
	}
	return "scramble"
}

func (m Mode) transform() Transform {
	if m == ModeUnscramble {
		return scrambler.Unscramble
	}
	return scrambler.Scramble
}

// Config holds all parameters for a pipeline run.
type Config struct {
	Input     string // file or directory
	OutputDir string
	Mode      Mode
	Profile   profile.Profile
	Options   scrambler.Options // Progress is set per image
	Suffix    string            // appended to the key of every output
	Workers   int
	Logger    *log.Logger
	Registry  *encoder.Registry
}

// Pipeline runs a transform over a set of images.
type Pipeline struct {
	cfg Config
}

// New creates a configured pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Registry == nil {
		cfg.Registry = encoder.NewRegistry()
	}
	return &Pipeline{cfg: cfg}
}

// Run executes the pipeline and returns the manifest of everything that
// was written.
func (p *Pipeline) Run(ctx context.Context) (*manifest.Manifest, error) {
	logger := p.cfg.Logger
	logger.Debug(p.cfg.Registry.String())

	enc, err := p.cfg.Registry.Resolve(p.cfg.Profile.Format)
	if err != nil {
		return nil, err
	}
	if enc.Format() != encoder.NormalizeFormat(p.cfg.Profile.Format) {
		logger.Warn("encoder unavailable, falling back", "want", p.cfg.Profile.Format, "using", enc.Format())
	}
	if !enc.Lossless() {
		logger.Warn("output format is not lossless; unscrambled images may not match the original exactly", "format", enc.Format())
	}

	// Step 1: Scan for images.
	sources, err := ScanImages(p.cfg.Input, p.cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no images found in %s", p.cfg.Input)
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].Key < sources[j].Key })
	logger.Debug("found images", "count", len(sources))

	// Step 2: Process images in parallel.
	results := make([]processResult, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Workers)

	for i, src := range sources {
		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			select {
			case sem <- struct{}{}: // acquire
			case <-ctx.Done():
				results[idx] = processResult{key: s.Key, err: ctx.Err()}
				return
			}
			defer func() { <-sem }() // release

			logger.Debug("processing", "image", s.Key)
			results[idx] = processImage(ctx, s, p.cfg, enc, logger)
			if results[idx].err == nil {
				logger.Debug("done", "image", s.Key, "blocks", results[idx].image.Layout.Blocks)
			}
		}(i, src)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Step 3: Collect results into manifest.
	m := manifest.New(p.cfg.Mode.String(), p.cfg.Profile.Name)
	m.Seed = p.cfg.Options.Seed
	m.Shift = p.cfg.Options.Shift.String()
	m.Remainder = p.cfg.Options.Remainder.String()

	var failed int
	for _, r := range results {
		if r.err != nil {
			logger.Error("failed", "image", r.key, "err", r.err)
			failed++
			continue
		}
		m.Images[r.key] = r.image
	}

	// Partial failures are reported but do not fail the run.
	if failed > 0 {
		if failed == len(sources) {
			return nil, fmt.Errorf("all %d images failed to %s", failed, p.cfg.Mode)
		}
		logger.Warn("some images had errors", "failed", failed, "total", len(sources))
	}

	m.BuildInfo = &manifest.BuildInfo{Workers: p.cfg.Workers}
	m.Stats.Failed = failed
	m.ComputeStats()
	return m, nil
}
