package engine

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lazypower/bangapda/internal/match"
	"github.com/lazypower/bangapda/internal/store"
)

// ErrNoProfile is returned when a profile search is run before the user has
// filled in what they remember.
var ErrNoProfile = errors.New("profile not set up")

// Search ranks the directory against q using the engine's selection policy.
func (e *Engine) Search(q match.Criteria) ([]match.ScoredMatch, error) {
	return e.SearchWith(q, e.Opts)
}

// SearchWith ranks the directory against q using opts. Criteria are
// normalized and validated before any candidate is scored.
func (e *Engine) SearchWith(q match.Criteria, opts match.Options) ([]match.ScoredMatch, error) {
	start := time.Now()

	q = q.Normalize()
	if err := match.ValidateCriteria(q); err != nil {
		return nil, err
	}

	candidates, err := e.DB.ListCandidates()
	if err != nil {
		return nil, fmt.Errorf("load directory: %w", err)
	}

	results := match.Select(&q, candidates, opts)

	e.Log.Debug("search",
		zap.Int("year", q.Year),
		zap.String("period", q.Period),
		zap.String("location", q.Location),
		zap.Strings("keywords", q.Keywords),
		zap.Int("initial", len(candidates)),
		zap.Int("dropped", len(candidates)-len(results)),
		zap.Int("left", len(results)),
	)
	e.Metrics.ObserveSearch("criteria", len(results), time.Since(start))
	return results, nil
}

// Browse lists the head of the directory without scoring it.
func (e *Engine) Browse() ([]match.ScoredMatch, error) {
	start := time.Now()

	candidates, err := e.DB.ListCandidates()
	if err != nil {
		return nil, fmt.Errorf("load directory: %w", err)
	}

	results := match.Select(nil, candidates, e.Opts)
	e.Log.Debug("browse", zap.Int("initial", len(candidates)), zap.Int("left", len(results)))
	e.Metrics.ObserveSearch("browse", len(results), time.Since(start))
	return results, nil
}

// SearchFromProfile runs a search built from the user's saved profile.
func (e *Engine) SearchFromProfile(userID string) ([]match.ScoredMatch, error) {
	u, err := e.DB.GetUser(userID)
	if err != nil {
		return nil, err
	}
	q, err := CriteriaFromProfile(u.Profile)
	if err != nil {
		return nil, err
	}
	return e.Search(q)
}

// CriteriaFromProfile turns a profile into search criteria: the first
// remembered year, the remembered location and the activity keywords.
// Profiles carry no period, so none is requested.
func CriteriaFromProfile(p *store.Profile) (match.Criteria, error) {
	if p == nil || p.RememberedYears.StartYear == 0 {
		return match.Criteria{}, ErrNoProfile
	}
	q := match.Criteria{
		Year:     p.RememberedYears.StartYear,
		Location: p.RememberedLocation,
		Keywords: append([]string(nil), p.ActivityKeywords...),
	}
	return q.Normalize(), nil
}
