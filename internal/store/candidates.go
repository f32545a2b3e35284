package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lazypower/bangapda/internal/match"
)

const candidateColumns = `id, nickname, year, period, location, additional_info, bio`

// ListCandidates returns the whole directory in id order. The slice is a
// snapshot; callers may score it without holding any lock.
func (db *DB) ListCandidates() ([]match.Candidate, error) {
	rows, err := db.Query(`SELECT ` + candidateColumns + ` FROM candidates ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	candidates := []match.Candidate{}
	for rows.Next() {
		var c match.Candidate
		if err := rows.Scan(&c.ID, &c.Nickname, &c.Year, &c.Period, &c.Location, &c.AdditionalInfo, &c.Bio); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// GetCandidate returns one directory entry or ErrNotFound.
func (db *DB) GetCandidate(id int64) (*match.Candidate, error) {
	var c match.Candidate
	err := db.QueryRow(`SELECT `+candidateColumns+` FROM candidates WHERE id = ?`, id).
		Scan(&c.ID, &c.Nickname, &c.Year, &c.Period, &c.Location, &c.AdditionalInfo, &c.Bio)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("candidate %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get candidate: %w", err)
	}
	return &c, nil
}

// CountCandidates returns the directory size.
func (db *DB) CountCandidates() (int, error) {
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM candidates`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count candidates: %w", err)
	}
	return n, nil
}

// ReplaceCandidates validates every record and swaps the directory contents
// in a single transaction. Either all records load or none do.
func (db *DB) ReplaceCandidates(candidates []match.Candidate) error {
	seen := make(map[int64]bool, len(candidates))
	for _, c := range candidates {
		if err := match.ValidateCandidate(c); err != nil {
			return err
		}
		if seen[c.ID] {
			return fmt.Errorf("candidate %d: %w", c.ID, ErrDuplicate)
		}
		seen[c.ID] = true
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin replace candidates: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UnixMilli()
	stmt, err := tx.Prepare(`
		INSERT INTO candidates (` + candidateColumns + `, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			nickname = excluded.nickname,
			year = excluded.year,
			period = excluded.period,
			location = excluded.location,
			additional_info = excluded.additional_info,
			bio = excluded.bio
	`)
	if err != nil {
		return fmt.Errorf("prepare upsert candidate: %w", err)
	}
	defer stmt.Close()

	ids := make([]any, 0, len(candidates))
	for _, c := range candidates {
		if _, err := stmt.Exec(c.ID, c.Nickname, c.Year, c.Period, c.Location, c.AdditionalInfo, c.Bio, now); err != nil {
			return fmt.Errorf("upsert candidate %d: %w", c.ID, err)
		}
		ids = append(ids, c.ID)
	}

	// Drop entries that left the directory, along with requests sent to them.
	keep := "SELECT id FROM candidates WHERE 0"
	if len(ids) > 0 {
		keep = "SELECT id FROM candidates WHERE id IN (" + placeholders(len(ids)) + ")"
	}
	if _, err := tx.Exec(`DELETE FROM sent_requests WHERE candidate_id NOT IN (`+keep+`)`, ids...); err != nil {
		return fmt.Errorf("prune sent requests: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM candidates WHERE id NOT IN (`+keep+`)`, ids...); err != nil {
		return fmt.Errorf("prune candidates: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit candidates: %w", err)
	}
	return nil
}

// placeholders returns "?, ?, ..." for n bind parameters.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
