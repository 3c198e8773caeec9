package core

import (
	"context"
	"sort"
	"strings"

	"github.com/huangsam/repovalue/core/algo"
	"github.com/huangsam/repovalue/schema"
	"github.com/sourcegraph/conc/pool"
)

// RankRepositories analyzes each "owner/repo" name with at most workers requests in flight,
// scores it with the unicorn hunter and returns the top limit rows by descending score.
// Repositories that fail to load sink to the bottom with their error.
func (s *Service) RankRepositories(ctx context.Context, names []string, workers, limit int) []schema.RankedRepository {
	p := pool.NewWithResults[schema.RankedRepository]().WithMaxGoroutines(max(1, workers))
	for _, name := range names {
		p.Go(func() schema.RankedRepository {
			return s.rankOne(ctx, name)
		})
	}
	return rankRepositories(p.Wait(), limit)
}

func (s *Service) rankOne(ctx context.Context, name string) schema.RankedRepository {
	row := schema.RankedRepository{Repository: strings.TrimSpace(name)}
	probe := schema.RepoData{BasicInfo: schema.BasicInfo{Name: row.Repository}}
	owner, repo, err := probe.OwnerRepo()
	if err != nil {
		row.Error = err.Error()
		return row
	}
	data, err := s.repos.AnalyzeRepository(ctx, owner, repo)
	if err != nil {
		row.Error = err.Error()
		return row
	}
	unicorn := algo.HuntUnicorn(data, nil)
	row.UnicornScore = unicorn.UnicornScore
	row.Tier = unicorn.Tier
	row.Stars = data.Metrics.Stars
	row.Realistic = unicorn.ValuationRanges.Realistic
	return row
}

// rankRepositories sorts rows by score, failures last, names breaking ties,
// numbers them and keeps the top limit.
func rankRepositories(rows []schema.RankedRepository, limit int) []schema.RankedRepository {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if (a.Error == "") != (b.Error == "") {
			return a.Error == ""
		}
		if a.UnicornScore != b.UnicornScore {
			return a.UnicornScore > b.UnicornScore
		}
		return a.Repository < b.Repository
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}
