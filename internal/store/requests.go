package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Request statuses.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusBlocked  = "blocked"
	StatusSkipped  = "skipped"
)

// ReceivedRequest is a friend request waiting in a user's inbox.
type ReceivedRequest struct {
	ID             int64  `json:"id"`
	UserID         string `json:"-"`
	Nickname       string `json:"nickname"`
	YearRange      string `json:"year"`
	Location       string `json:"location"`
	SchoolOrWork   string `json:"school_or_work,omitempty"`
	OldNickname    string `json:"old_nickname,omitempty"`
	AdditionalInfo string `json:"additional_info,omitempty"`
	SentAt         string `json:"sent_at"`
	Status         string `json:"status"`
	UpdatedAt      int64  `json:"updated_at"`
}

// AddSentRequest records that userID sent a request to candidateID.
// Sending twice is a no-op. Returns false when the request already existed.
func (db *DB) AddSentRequest(userID string, candidateID int64) (bool, error) {
	result, err := db.Exec(`
		INSERT INTO sent_requests (user_id, candidate_id, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id, candidate_id) DO NOTHING
	`, userID, candidateID, time.Now().UnixMilli())
	if err != nil {
		return false, fmt.Errorf("add sent request: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// SentRequests returns the candidate ids userID has sent requests to, oldest first.
func (db *DB) SentRequests(userID string) ([]int64, error) {
	rows, err := db.Query(`
		SELECT candidate_id FROM sent_requests
		WHERE user_id = ? ORDER BY created_at, candidate_id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("sent requests: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan sent request: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AddReceivedRequests appends entries to userID's inbox as pending requests.
func (db *DB) AddReceivedRequests(userID string, entries []InboxEntry) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin inbox: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UnixMilli()
	for _, e := range entries {
		_, err := tx.Exec(`
			INSERT INTO received_requests
				(user_id, nickname, year_range, location, school_or_work, old_nickname, additional_info, sent_at, status, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, 'pending', ?)
		`, userID, e.Nickname, e.YearRange, e.Location, e.SchoolOrWork, e.OldNickname, e.AdditionalInfo, e.SentAt, now)
		if err != nil {
			return fmt.Errorf("insert received request: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit inbox: %w", err)
	}
	return nil
}

const receivedColumns = `id, user_id, nickname, year_range, location, school_or_work, old_nickname, additional_info, sent_at, status, updated_at`

// GetReceivedRequest returns one inbox entry owned by userID or ErrNotFound.
func (db *DB) GetReceivedRequest(userID string, id int64) (*ReceivedRequest, error) {
	var r ReceivedRequest
	err := db.QueryRow(`SELECT `+receivedColumns+` FROM received_requests WHERE id = ? AND user_id = ?`, id, userID).
		Scan(&r.ID, &r.UserID, &r.Nickname, &r.YearRange, &r.Location, &r.SchoolOrWork, &r.OldNickname, &r.AdditionalInfo, &r.SentAt, &r.Status, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("request %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get received request: %w", err)
	}
	return &r, nil
}

// ListReceivedRequests returns userID's inbox, newest first. With visibleOnly
// set, blocked and skipped requests are left out.
func (db *DB) ListReceivedRequests(userID string, visibleOnly bool) ([]ReceivedRequest, error) {
	query := `SELECT ` + receivedColumns + ` FROM received_requests WHERE user_id = ?`
	if visibleOnly {
		query += ` AND status NOT IN ('blocked', 'skipped')`
	}
	query += ` ORDER BY sent_at DESC, id`

	rows, err := db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("list received requests: %w", err)
	}
	defer rows.Close()

	out := []ReceivedRequest{}
	for rows.Next() {
		var r ReceivedRequest
		if err := rows.Scan(&r.ID, &r.UserID, &r.Nickname, &r.YearRange, &r.Location, &r.SchoolOrWork, &r.OldNickname, &r.AdditionalInfo, &r.SentAt, &r.Status, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan received request: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SetRequestStatus moves a request from one status to another. It returns
// false when the request was not in status from.
func (db *DB) SetRequestStatus(userID string, id int64, from, to string) (bool, error) {
	result, err := db.Exec(`
		UPDATE received_requests SET status = ?, updated_at = ?
		WHERE id = ? AND user_id = ? AND status = ?
	`, to, time.Now().UnixMilli(), id, userID, from)
	if err != nil {
		return false, fmt.Errorf("set request status: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}
