package duplicates

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/solardesk/solardesk/internal/projects"
	"github.com/solardesk/solardesk/internal/settings"
)

// Scan compares every active project pairwise, classifies candidate
// pairs, and filters out dismissed ones. Read-only and idempotent:
// repeated scans over unchanged inputs produce identical results.
func (r *repo) Scan(ctx context.Context) (*ScanResult, error) {
	cfg, err := r.settings.Scanner(ctx)
	if err != nil {
		return nil, fmt.Errorf("load scanner settings: %w", err)
	}

	records, err := r.projects.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load active projects: %w", err)
	}

	dismissed, err := r.dismissedKeys(ctx)
	if err != nil {
		return nil, err
	}

	started := time.Now()

	groups, err := DetectGroups(ctx, records, dismissed, cfg)
	if err != nil {
		return nil, err
	}

	r.logger.Info("scan complete",
		"projects", len(records),
		"groups", len(groups),
		"dismissed", len(dismissed),
		"elapsed", time.Since(started),
	)

	return &ScanResult{
		Groups:       groups,
		ProjectCount: len(records),
		Settings:     cfg,
		GeneratedAt:  started,
	}, nil
}

// DetectGroups runs the pairwise detection pass over the given records,
// skipping pairs whose canonical key appears in dismissed. Each record
// is normalized once and reused across all its pairs. The pairwise pass
// is split across workers by outer index; classification itself is
// pure, so the result is identical to a sequential pass.
func DetectGroups(
	ctx context.Context,
	records []projects.Project,
	dismissed map[string]struct{},
	cfg settings.Scanner,
) ([]Group, error) {
	normalized := make([]ComparisonRecord, len(records))
	for i := range records {
		normalized[i] = Normalize(records[i])
	}

	var mu sync.Mutex
	groups := make([]Group, 0)

	g, gctx := errgroup.WithContext(ctx)
	indices := make(chan int)

	g.Go(func() error {
		defer close(indices)
		for i := range records {
			select {
			case indices <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for range runtime.GOMAXPROCS(0) {
		g.Go(func() error {
			var local []Group

			for i := range indices {
				for j := i + 1; j < len(records); j++ {
					key := PairKey(records[i].ID, records[j].ID)
					if _, ok := dismissed[key]; ok {
						continue
					}

					score := ScorePair(normalized[i], normalized[j])
					cls := Classify(records[i], records[j], score, cfg)
					if cls == nil {
						continue
					}

					local = append(local, Group{
						PairKey:           key,
						Projects:          [2]projects.Project{records[i], records[j]},
						Confidence:        cls.Confidence,
						MatchedCriteria:   cls.MatchedCriteria,
						UnmatchedCriteria: cls.UnmatchedCriteria,
					})
				}
			}

			mu.Lock()
			groups = append(groups, local...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Confidence descending, pair key ascending within a tier.
	sort.Slice(groups, func(a, b int) bool {
		if groups[a].Confidence.Rank() != groups[b].Confidence.Rank() {
			return groups[a].Confidence.Rank() > groups[b].Confidence.Rank()
		}
		return groups[a].PairKey < groups[b].PairKey
	})

	return groups, nil
}
