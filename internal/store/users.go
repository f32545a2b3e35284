package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// User is an account. PasswordHash is never serialized.
type User struct {
	ID           string   `json:"id"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"-"`
	Nickname     string   `json:"nickname"`
	Name         string   `json:"name"`
	BirthYear    int      `json:"birth_year"`
	Gender       string   `json:"gender,omitempty"`
	Profile      *Profile `json:"profile,omitempty"`
	CreatedAt    int64    `json:"created_at"`
	UpdatedAt    int64    `json:"updated_at"`
}

// Profile is what a user remembers about the time and place they are
// searching for.
type Profile struct {
	CurrentLocation    string          `json:"current_location,omitempty"`
	OldNickname        string          `json:"old_nickname,omitempty"`
	MemorablePlaces    []string        `json:"memorable_places"`
	ActivityKeywords   []string        `json:"activity_keywords"`
	RememberedYears    RememberedYears `json:"remembered_years"`
	RememberedLocation string          `json:"remembered_location"`
	SchoolOrWork       string          `json:"school_or_work,omitempty"`
}

// RememberedYears is the span of years a profile refers to.
type RememberedYears struct {
	StartYear       int    `json:"start_year"`
	EndYear         int    `json:"end_year"`
	TimeDescription string `json:"time_description"`
}

const userColumns = `id, email, password_hash, nickname, name, birth_year, gender, profile, created_at, updated_at`

// CreateUser inserts u. Emails are compared case-insensitively; a taken
// email returns ErrDuplicate.
func (db *DB) CreateUser(u *User) error {
	now := time.Now().UnixMilli()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.CreatedAt, u.UpdatedAt = now, now

	profile, err := encodeProfile(u.Profile)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, u.ID, u.Email, u.PasswordHash, u.Nickname, u.Name, u.BirthYear, u.Gender, profile, u.CreatedAt, u.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("user %s: %w", u.Email, ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUser returns the user with the given id or ErrNotFound.
func (db *DB) GetUser(id string) (*User, error) {
	return db.getUser(`id = ?`, id)
}

// GetUserByEmail returns the user with the given email or ErrNotFound.
func (db *DB) GetUserByEmail(email string) (*User, error) {
	return db.getUser(`email = ?`, strings.ToLower(strings.TrimSpace(email)))
}

func (db *DB) getUser(where string, arg any) (*User, error) {
	var (
		u       User
		profile sql.NullString
	)
	err := db.QueryRow(`SELECT `+userColumns+` FROM users WHERE `+where, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Nickname, &u.Name, &u.BirthYear, &u.Gender, &profile, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if profile.Valid && profile.String != "" {
		u.Profile = &Profile{}
		if err := json.Unmarshal([]byte(profile.String), u.Profile); err != nil {
			return nil, fmt.Errorf("decode profile for %s: %w", u.ID, err)
		}
	}
	return &u, nil
}

// UpdateProfile replaces the stored profile of a user.
func (db *DB) UpdateProfile(userID string, p *Profile) error {
	profile, err := encodeProfile(p)
	if err != nil {
		return err
	}
	result, err := db.Exec(`UPDATE users SET profile = ?, updated_at = ? WHERE id = ?`,
		profile, time.Now().UnixMilli(), userID)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	return nil
}

func encodeProfile(p *Profile) (sql.NullString, error) {
	if p == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode profile: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}
