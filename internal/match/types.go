package match

// Criteria is what a searcher remembers about the friend they are looking for.
// Year and Location are mandatory; Period and Keywords may be empty.
type Criteria struct {
	Year     int      `json:"year" yaml:"year" validate:"required,gt=0"`
	Period   string   `json:"period" yaml:"period" validate:"omitempty,period"`
	Location string   `json:"location" yaml:"location" validate:"required,notblank"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// Candidate is a directory entry: a person who might be the sought-after friend.
type Candidate struct {
	ID             int64  `json:"id" yaml:"id" validate:"required"`
	Nickname       string `json:"nickname" yaml:"nickname" validate:"required"`
	Year           int    `json:"year" yaml:"year" validate:"required,gt=0"`
	Period         string `json:"period" yaml:"period" validate:"required"`
	Location       string `json:"location" yaml:"location" validate:"required,notblank"`
	AdditionalInfo string `json:"additional_info" yaml:"additional_info"`
	Bio            string `json:"bio" yaml:"bio"`
}

// ScoredMatch is a candidate tagged with its score for one search.
// It is never persisted.
type ScoredMatch struct {
	Candidate
	MatchScore int `json:"match_score"`
}

// Breakdown holds the four weighted sub-scores behind a match score.
type Breakdown struct {
	Year     float64 `json:"year"`
	Period   float64 `json:"period"`
	Location float64 `json:"location"`
	Keywords float64 `json:"keywords"`
}

// Total rounds the sum of the sub-scores to the final integer score.
func (b Breakdown) Total() int {
	return clampScore(roundHalfUp(b.Year + b.Period + b.Location + b.Keywords))
}
