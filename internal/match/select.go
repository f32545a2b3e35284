package match

import "sort"

// Selection defaults.
const (
	DefaultMinScore    = 40
	DefaultMaxResults  = 8
	DefaultBrowseScore = 70
)

// Options controls the selection policy. Start from DefaultOptions: a zero
// MaxResults or BrowseScore falls back to its default, but a zero MinScore is
// a real threshold that keeps every match.
type Options struct {
	MinScore    int // keep matches scoring at least this (default 40)
	MaxResults  int // truncate to this many (default 8)
	BrowseScore int // score shown for every entry in browse mode (default 70)
}

// DefaultOptions returns the stock selection policy.
func DefaultOptions() Options {
	return Options{
		MinScore:    DefaultMinScore,
		MaxResults:  DefaultMaxResults,
		BrowseScore: DefaultBrowseScore,
	}
}

func (o Options) maxResults() int {
	if o.MaxResults <= 0 {
		return DefaultMaxResults
	}
	return o.MaxResults
}

func (o Options) minScore() int {
	return clampScore(o.MinScore)
}

func (o Options) browseScore() int {
	if o.BrowseScore <= 0 {
		return DefaultBrowseScore
	}
	return clampScore(o.BrowseScore)
}

// Select ranks candidates against q: score, drop those under MinScore, sort by
// score descending (equal scores keep directory order) and keep the first
// MaxResults.
//
// A nil q selects browse mode: the first MaxResults candidates in directory
// order, each tagged with BrowseScore instead of a computed score.
func Select(q *Criteria, candidates []Candidate, opts Options) []ScoredMatch {
	limit := opts.maxResults()

	if q == nil {
		n := min(limit, len(candidates))
		out := make([]ScoredMatch, n)
		for i := range n {
			out[i] = ScoredMatch{Candidate: candidates[i], MatchScore: opts.browseScore()}
		}
		return out
	}

	floor := opts.minScore()
	out := make([]ScoredMatch, 0, len(candidates))
	for _, c := range candidates {
		s := Score(c, *q)
		if s < floor {
			continue
		}
		out = append(out, ScoredMatch{Candidate: c, MatchScore: s})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchScore > out[j].MatchScore
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
