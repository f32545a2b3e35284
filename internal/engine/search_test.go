package engine

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/lazypower/bangapda/internal/match"
	"github.com/lazypower/bangapda/internal/store"
)

func matchIDs(ms []match.ScoredMatch) []int64 {
	out := make([]int64, len(ms))
	for i, m := range ms {
		out[i] = m.ID
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSearchRanksSeedDirectory(t *testing.T) {
	e := testEngine(t)

	got, err := e.Search(match.Criteria{
		Year:     2015,
		Period:   "고등학교 2학년",
		Location: "  서울 강남구   압구정동 ",
		Keywords: []string{"반", " "},
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	want := []int64{1, 8, 4, 2, 3, 5}
	if !equalIDs(matchIDs(got), want) {
		t.Errorf("ids = %v, want %v", matchIDs(got), want)
	}
	if got[0].MatchScore != 100 {
		t.Errorf("top score = %d, want 100", got[0].MatchScore)
	}
	if n := testutil.ToFloat64(e.Metrics.Searches.WithLabelValues("criteria")); n != 1 {
		t.Errorf("criteria searches = %v, want 1", n)
	}
}

func TestSearchWithOptions(t *testing.T) {
	e := testEngine(t)

	q := match.Criteria{Year: 2015, Period: "고등학교 2학년", Location: "서울 강남구 압구정동"}
	got, err := e.SearchWith(q, match.Options{MinScore: 50, MaxResults: 2})
	if err != nil {
		t.Fatalf("SearchWith: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	for _, m := range got {
		if m.MatchScore < 50 {
			t.Errorf("candidate %d scored %d, below min", m.ID, m.MatchScore)
		}
	}
}

func TestSearchRejectsInvalidCriteria(t *testing.T) {
	e := testEngine(t)

	tests := []match.Criteria{
		{Location: "서울"},
		{Year: 2015, Location: "   "},
		{Year: 2015, Location: "서울", Period: "군대"},
	}
	for _, q := range tests {
		if _, err := e.Search(q); !errors.Is(err, match.ErrInvalidCriteria) {
			t.Errorf("Search(%+v) err = %v, want ErrInvalidCriteria", q, err)
		}
	}
}

func TestSearchEmptyDirectory(t *testing.T) {
	e := New(testDB(t), nil)

	got, err := e.Search(match.Criteria{Year: 2015, Location: "서울"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty non-nil slice", got)
	}
}

func TestBrowse(t *testing.T) {
	e := testEngine(t)

	got, err := e.Browse()
	if err != nil {
		t.Fatalf("Browse: %v", err)
	}
	want := []int64{1, 2, 3, 4, 5, 6, 7, 8}
	if !equalIDs(matchIDs(got), want) {
		t.Errorf("ids = %v, want %v", matchIDs(got), want)
	}
	for _, m := range got {
		if m.MatchScore != 70 {
			t.Errorf("candidate %d browse score = %d, want 70", m.ID, m.MatchScore)
		}
	}
}

func TestCriteriaFromProfile(t *testing.T) {
	q, err := CriteriaFromProfile(&store.Profile{
		ActivityKeywords:   []string{"농구", "", "밴드"},
		RememberedYears:    store.RememberedYears{StartYear: 2013, EndYear: 2015},
		RememberedLocation: "부산  광안리",
	})
	if err != nil {
		t.Fatalf("CriteriaFromProfile: %v", err)
	}
	if q.Year != 2013 || q.Location != "부산 광안리" || q.Period != "" {
		t.Errorf("criteria = %+v", q)
	}
	if len(q.Keywords) != 2 || q.Keywords[1] != "밴드" {
		t.Errorf("keywords = %v", q.Keywords)
	}

	if _, err := CriteriaFromProfile(nil); !errors.Is(err, ErrNoProfile) {
		t.Errorf("nil profile err = %v, want ErrNoProfile", err)
	}
	if _, err := CriteriaFromProfile(&store.Profile{RememberedLocation: "서울"}); !errors.Is(err, ErrNoProfile) {
		t.Errorf("no start year err = %v, want ErrNoProfile", err)
	}
}

func TestSearchFromProfile(t *testing.T) {
	e := testEngine(t)
	u := registerUser(t, e, "a@example.com")

	if _, err := e.SearchFromProfile(u.ID); !errors.Is(err, ErrNoProfile) {
		t.Fatalf("before setup err = %v, want ErrNoProfile", err)
	}

	_, err := e.UpdateProfile(u.ID, store.Profile{
		ActivityKeywords:   []string{"반"},
		RememberedYears:    store.RememberedYears{StartYear: 2015},
		RememberedLocation: "서울 강남구 압구정동",
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}

	got, err := e.SearchFromProfile(u.ID)
	if err != nil {
		t.Fatalf("SearchFromProfile: %v", err)
	}
	// no period: every label earns the partial 15, candidate 1 tops at 90
	want := []int64{1, 2, 3, 5, 8, 4}
	if !equalIDs(matchIDs(got), want) {
		t.Errorf("ids = %v, want %v", matchIDs(got), want)
	}
	if got[0].MatchScore != 90 {
		t.Errorf("top score = %d, want 90", got[0].MatchScore)
	}
	if last := got[len(got)-1]; last.MatchScore != 45 {
		t.Errorf("last score = %d, want 45", last.MatchScore)
	}
}
