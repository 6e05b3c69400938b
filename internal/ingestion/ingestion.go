package ingestion

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/coffeepulse/internal/domain/models"
	"github.com/guttosm/coffeepulse/internal/logger"
)

const (
	filePattern      = "*.csv"
	defaultBatchSize = 5000
	maxParallelFiles = 8
)

// ErrNoFiles is returned when the directory holds no tick files.
var ErrNoFiles = errors.New("ingestion: no tick files found")

// LoadDirectory parses every *.csv tick file in dir and returns all ticks
// merged in timestamp order.
//
// Behavior:
//   - Files are parsed concurrently, bounded by parallel (default min(8, NumCPU)).
//   - If any file fails, the rest are cancelled and the first error is returned.
//   - Ticks with equal timestamps keep file-name order, then row order.
func LoadDirectory(ctx context.Context, dir string, parallel int) ([]models.Tick, error) {
	files, err := filepath.Glob(filepath.Join(dir, filePattern))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFiles, dir)
	}
	sort.Strings(files)

	maxParallel := maxParallelFiles
	if parallel > 0 {
		if parallel < maxParallel {
			maxParallel = parallel
		}
	} else if c := runtime.NumCPU(); c < maxParallel {
		maxParallel = c
	}

	logger.L().Info().Int("files", len(files)).Str("dir", dir).Int("max_parallel", maxParallel).Msg("history load start")

	results := make([][]models.Tick, len(files))
	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, maxParallel)

	for i, file := range files {
		idx := i
		f := file
		sem <- struct{}{}

		g.Go(func() error {
			defer func() { <-sem }()
			start := time.Now()
			base := filepath.Base(f)

			var ticks []models.Tick
			total, err := parseFile(gctx, f, func(batch []models.Tick) error {
				ticks = append(ticks, batch...)
				return nil
			}, defaultBatchSize)
			if err != nil {
				logger.L().Error().Str("file", base).Dur("elapsed", time.Since(start)).Err(err).Msg("file failed")
				return fmt.Errorf("file %s: %w", f, err)
			}
			results[idx] = ticks
			logger.L().Info().Int("idx", idx+1).Int("total", len(files)).Str("file", base).Int("rows", total).Dur("elapsed", time.Since(start)).Msg("file done")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	n := 0
	for _, r := range results {
		n += len(r)
	}
	merged := make([]models.Tick, 0, n)
	for _, r := range results {
		merged = append(merged, r...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp.Before(merged[j].Timestamp)
	})
	return merged, nil
}
