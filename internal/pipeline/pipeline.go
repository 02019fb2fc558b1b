package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/AnyUserName/rawpng-cli/internal/encoder"
	"github.com/AnyUserName/rawpng-cli/internal/logging"
	"github.com/AnyUserName/rawpng-cli/internal/manifest"
	"github.com/AnyUserName/rawpng-cli/internal/profile"
)

// Config holds all parameters for a build pipeline run.
type Config struct {
	InputDir  string
	OutputDir string
	Profile   profile.Profile
	Workers   int
	Compare   bool // record best-compression sizes next to each variant
}

// Pipeline orchestrates image processing.
type Pipeline struct {
	cfg      Config
	registry *encoder.Registry
}

// New creates a configured pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return &Pipeline{
		cfg:      cfg,
		registry: encoder.NewRegistry(),
	}
}

// Run executes the full build pipeline and returns the manifest. Once ctx
// is canceled no further images are scheduled and Run returns ctx.Err().
func (p *Pipeline) Run(ctx context.Context) (*manifest.Manifest, error) {
	logging.Debug().Msg(p.registry.String())

	// Step 1: Scan for images.
	sources, skipped, err := ScanImages(p.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	for _, e := range skipped {
		logging.Warn().Err(e).Msg("skipped")
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no images found in %s", p.cfg.InputDir)
	}

	logging.Debug().Int("count", len(sources)).Msg("found images")

	// Step 2: Process images in parallel.
	results := make([]processResult, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Workers)

	for i, src := range sources {
		select {
		case sem <- struct{}{}: // acquire
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			defer func() { <-sem }() // release

			logging.Debug().Str("key", s.Key).Msg("processing")

			results[idx] = processImage(ctx, s, p.cfg, p.registry)

			if results[idx].err == nil {
				logging.Debug().Str("key", s.Key).
					Int("variants", len(results[idx].asset.Variants)).
					Msg("done")
			}
		}(i, src)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Step 3: Collect results into manifest.
	m := manifest.New(p.cfg.Profile.Name)

	var errs []error
	for _, r := range results {
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		m.Assets[r.key] = r.asset
	}

	// Report errors but don't fail the entire build for partial failures.
	if len(errs) > 0 {
		for _, e := range errs {
			logging.Error().Err(e).Msg("image failed")
		}
		if len(errs) == len(sources) {
			return nil, fmt.Errorf("all %d images failed to process", len(errs))
		}
		logging.Warn().Msgf("%d of %d images had errors", len(errs), len(sources))
	}

	m.BuildInfo = &manifest.BuildInfo{
		Workers: p.cfg.Workers,
		Alpha:   p.cfg.Profile.Alpha.String(),
		Compare: p.cfg.Compare,
	}
	m.ComputeStats()
	return m, nil
}
