package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lazypower/bangapda/internal/match"
)

func TestDefaultCandidates(t *testing.T) {
	candidates, err := DefaultCandidates()
	if err != nil {
		t.Fatalf("DefaultCandidates: %v", err)
	}
	if len(candidates) != 10 {
		t.Fatalf("len = %d, want 10", len(candidates))
	}

	first := candidates[0]
	if first.ID != 1 || first.Nickname != "추억속그녀" || first.Year != 2015 ||
		first.Period != "고등학교 2학년" || first.Location != "서울 강남구 압구정동" ||
		first.AdditionalInfo != "같은 반 친구" {
		t.Errorf("first candidate = %+v", first)
	}
	for _, c := range candidates {
		if err := match.ValidateCandidate(c); err != nil {
			t.Errorf("seed candidate invalid: %v", err)
		}
	}
}

func TestSeedAndListCandidates(t *testing.T) {
	db := testDB(t)

	n, err := db.SeedCandidates("")
	if err != nil {
		t.Fatalf("SeedCandidates: %v", err)
	}
	if n != 10 {
		t.Errorf("seeded %d, want 10", n)
	}

	got, err := db.ListCandidates()
	if err != nil {
		t.Fatalf("ListCandidates: %v", err)
	}
	if len(got) != 10 {
		t.Fatalf("len = %d, want 10", len(got))
	}
	for i, c := range got {
		if c.ID != int64(i+1) {
			t.Errorf("candidate %d has id %d, want directory order", i, c.ID)
		}
	}
	if got[8].Location != "대전 유성구 관평동" {
		t.Errorf("candidate 9 location = %q", got[8].Location)
	}
}

func TestListCandidatesEmpty(t *testing.T) {
	db := testDB(t)

	got, err := db.ListCandidates()
	if err != nil {
		t.Fatalf("ListCandidates: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty non-nil slice", got)
	}
}

func TestGetCandidate(t *testing.T) {
	db := testDB(t)
	if _, err := db.SeedCandidates(""); err != nil {
		t.Fatalf("SeedCandidates: %v", err)
	}

	c, err := db.GetCandidate(4)
	if err != nil {
		t.Fatalf("GetCandidate: %v", err)
	}
	if c.Nickname != "그때그시절" {
		t.Errorf("Nickname = %q, want 그때그시절", c.Nickname)
	}

	_, err = db.GetCandidate(99)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetCandidate(99) err = %v, want ErrNotFound", err)
	}
}

func TestEnsureCandidatesOnlyWhenEmpty(t *testing.T) {
	db := testDB(t)

	n, err := db.EnsureCandidates("")
	if err != nil {
		t.Fatalf("EnsureCandidates: %v", err)
	}
	if n != 10 {
		t.Errorf("first ensure seeded %d, want 10", n)
	}

	n, err = db.EnsureCandidates("")
	if err != nil {
		t.Fatalf("EnsureCandidates again: %v", err)
	}
	if n != 0 {
		t.Errorf("second ensure seeded %d, want 0", n)
	}
}

func TestSeedCandidatesFromFile(t *testing.T) {
	db := testDB(t)
	if _, err := db.SeedCandidates(""); err != nil {
		t.Fatalf("SeedCandidates: %v", err)
	}
	createTestUser(t, db, "u1", "a@example.com")
	if _, err := db.AddSentRequest("u1", 3); err != nil {
		t.Fatalf("AddSentRequest: %v", err)
	}

	path := filepath.Join(t.TempDir(), "dir.yaml")
	body := `
- id: 1
  nickname: 다시만난친구
  year: 2010
  period: 기타
  location: 제주 제주시
- id: 42
  nickname: 새친구
  year: 2011
  period: 대학교 2학년
  location: 서울 마포구
  bio: 새로 왔어요
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := db.SeedCandidates(path)
	if err != nil {
		t.Fatalf("SeedCandidates(file): %v", err)
	}
	if n != 2 {
		t.Errorf("seeded %d, want 2", n)
	}

	got, _ := db.ListCandidates()
	if len(got) != 2 || got[0].Nickname != "다시만난친구" || got[1].ID != 42 {
		t.Errorf("directory after reseed = %+v", got)
	}

	// requests to candidates that left the directory are pruned
	sent, _ := db.SentRequests("u1")
	if len(sent) != 0 {
		t.Errorf("sent requests = %v, want pruned", sent)
	}
}

func TestReplaceCandidatesRejectsInvalid(t *testing.T) {
	db := testDB(t)
	if _, err := db.SeedCandidates(""); err != nil {
		t.Fatalf("SeedCandidates: %v", err)
	}

	bad := []match.Candidate{
		{ID: 1, Nickname: "a", Year: 2015, Period: "기타", Location: "서울"},
		{ID: 2, Nickname: "b", Year: 2015, Period: "", Location: "서울"},
	}
	err := db.ReplaceCandidates(bad)
	if !errors.Is(err, match.ErrInvalidCandidate) {
		t.Fatalf("err = %v, want ErrInvalidCandidate", err)
	}

	dup := []match.Candidate{
		{ID: 1, Nickname: "a", Year: 2015, Period: "기타", Location: "서울"},
		{ID: 1, Nickname: "b", Year: 2016, Period: "기타", Location: "서울"},
	}
	if err := db.ReplaceCandidates(dup); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}

	// the original directory is untouched
	n, _ := db.CountCandidates()
	if n != 10 {
		t.Errorf("count = %d, want 10", n)
	}
}

func TestParseCandidatesEmpty(t *testing.T) {
	got, err := ParseCandidates(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ParseCandidates: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestDefaultInbox(t *testing.T) {
	entries, err := DefaultInbox()
	if err != nil {
		t.Fatalf("DefaultInbox: %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("len = %d, want 5", len(entries))
	}
	if entries[0].Nickname != "작고 소중한 수현이" || entries[0].YearRange != "2011~2013" {
		t.Errorf("first entry = %+v", entries[0])
	}
}
