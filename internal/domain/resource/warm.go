package resource

import (
	"context"
	"errors"
	"path"
	"strings"
	"sync"

	"github.com/okian/swaggerui/internal/adapters/bundle"
	"github.com/okian/swaggerui/pkg/logger"
)

const defaultWarmWorkers = 4

// WarmResult summarizes a warm-up run.
type WarmResult struct {
	Loaded  int
	Missing []string
}

// Warm loads the given paths into the cache using a bounded pool of
// workers. Entries containing glob metacharacters are expanded against the
// bundle listing when the bundle supports it. Missing paths are reported,
// not treated as errors; read failures are joined into the returned error.
func (r *Resolver) Warm(ctx context.Context, patterns []string, workers int) (WarmResult, error) {
	if workers <= 0 {
		workers = defaultWarmWorkers
	}

	names, err := r.expand(ctx, patterns)
	if err != nil {
		return WarmResult{}, err
	}

	jobs := make(chan string)
	var (
		mu        sync.Mutex
		res       WarmResult
		errs      []error
		wg        sync.WaitGroup
		cancelErr error
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range jobs {
				_, err := r.Resolve(ctx, name)
				mu.Lock()
				switch {
				case err == nil:
					res.Loaded++
				case errors.Is(err, ErrNotFound):
					res.Missing = append(res.Missing, name)
				default:
					errs = append(errs, err)
				}
				mu.Unlock()
			}
		}()
	}

feed:
	for _, name := range names {
		select {
		case <-ctx.Done():
			cancelErr = ctx.Err()
			break feed
		case jobs <- name:
		}
	}
	close(jobs)
	wg.Wait()
	if cancelErr != nil {
		errs = append(errs, cancelErr)
	}

	for _, m := range res.Missing {
		r.logger.Warn(ctx, "preload asset not packaged", logger.String("path", m))
	}
	return res, errors.Join(errs...)
}

func (r *Resolver) expand(ctx context.Context, patterns []string) ([]string, error) {
	var (
		out    []string
		listed []string
		seen   = make(map[string]struct{})
	)
	add := func(n string) {
		if _, ok := seen[n]; !ok {
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}

	for _, p := range patterns {
		p = strings.TrimPrefix(strings.TrimSpace(p), "/")
		if p == "" {
			continue
		}
		if !strings.ContainsAny(p, "*?[") {
			add(p)
			continue
		}
		lister, ok := r.bundle.(bundle.Lister)
		if !ok {
			r.logger.Warn(ctx, "bundle cannot be listed; skipping pattern", logger.String("pattern", p))
			continue
		}
		if listed == nil {
			var err error
			if listed, err = lister.List(ctx); err != nil {
				return nil, err
			}
		}
		for _, n := range listed {
			if ok, _ := path.Match(p, n); ok {
				add(n)
			}
		}
	}
	return out, nil
}
