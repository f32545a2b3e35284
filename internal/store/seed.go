package store

import (
	"embed"
	"fmt"
	"io"
	"os"

	"github.com/lazypower/bangapda/internal/match"
	"gopkg.in/yaml.v3"
)

//go:embed seed/*.yaml
var seedFS embed.FS

// InboxEntry is a received friend request before it is assigned to a user.
type InboxEntry struct {
	Nickname       string `yaml:"nickname"`
	YearRange      string `yaml:"year_range"`
	Location       string `yaml:"location"`
	SchoolOrWork   string `yaml:"school_or_work"`
	OldNickname    string `yaml:"old_nickname"`
	AdditionalInfo string `yaml:"additional_info"`
	SentAt         string `yaml:"sent_at"`
}

// ParseCandidates decodes a YAML list of directory records.
func ParseCandidates(r io.Reader) ([]match.Candidate, error) {
	var candidates []match.Candidate
	if err := yaml.NewDecoder(r).Decode(&candidates); err != nil {
		if err == io.EOF {
			return []match.Candidate{}, nil
		}
		return nil, fmt.Errorf("decode candidates: %w", err)
	}
	return candidates, nil
}

// DefaultCandidates returns the built-in directory.
func DefaultCandidates() ([]match.Candidate, error) {
	f, err := seedFS.Open("seed/candidates.yaml")
	if err != nil {
		return nil, fmt.Errorf("open built-in seed: %w", err)
	}
	defer f.Close()
	return ParseCandidates(f)
}

// LoadCandidatesFile reads a directory YAML file from disk.
func LoadCandidatesFile(path string) ([]match.Candidate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return ParseCandidates(f)
}

// DefaultInbox returns the starter requests handed to every new account.
func DefaultInbox() ([]InboxEntry, error) {
	data, err := seedFS.ReadFile("seed/inbox.yaml")
	if err != nil {
		return nil, fmt.Errorf("read built-in inbox: %w", err)
	}
	var entries []InboxEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode inbox: %w", err)
	}
	return entries, nil
}

// SeedCandidates loads the directory from path, or the built-in seed when path
// is empty, and replaces the stored directory with it. Returns the record count.
func (db *DB) SeedCandidates(path string) (int, error) {
	var (
		candidates []match.Candidate
		err        error
	)
	if path == "" {
		candidates, err = DefaultCandidates()
	} else {
		candidates, err = LoadCandidatesFile(path)
	}
	if err != nil {
		return 0, err
	}
	if err := db.ReplaceCandidates(candidates); err != nil {
		return 0, err
	}
	return len(candidates), nil
}

// EnsureCandidates seeds the built-in directory when the table is empty.
func (db *DB) EnsureCandidates(path string) (int, error) {
	n, err := db.CountCandidates()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	return db.SeedCandidates(path)
}
