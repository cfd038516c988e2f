package models

import "time"

// TournamentStatus represents tournament statuses matching the ENUM in the DB.
type TournamentStatus string

const (
	StatusDraft               TournamentStatus = "draft"
	StatusComingSoon          TournamentStatus = "coming_soon"
	StatusLive                TournamentStatus = "live"
	StatusDelayed             TournamentStatus = "delayed"
	StatusCompleted           TournamentStatus = "completed"
	TournamentStatusCancelled TournamentStatus = "cancelled"
)

type TournamentType string

const (
	TypeSingles TournamentType = "singles"
	TypeDoubles TournamentType = "doubles"
)

type TournamentFormat string

const (
	FormatRoundRobin TournamentFormat = "round_robin"
	FormatGroup      TournamentFormat = "group"
	FormatKnockout   TournamentFormat = "knockout"
	FormatCustom     TournamentFormat = "custom"
)

// TournamentRules holds the scoring configuration applied to every match.
type TournamentRules struct {
	PointsToWin   int    `json:"points_to_win" db:"points_to_win"`
	ScoringSystem string `json:"scoring_system" db:"scoring_system"`
}

// Tournament is a pickleball tournament. LockedRounds lists round labels whose
// results have been consumed by progression; matches in them are read-only.
type Tournament struct {
	ID           int              `json:"id" db:"id"`
	Name         string           `json:"name" db:"name"`
	Type         TournamentType   `json:"type" db:"type"`
	Format       TournamentFormat `json:"format" db:"format"`
	Rules        TournamentRules  `json:"rules"`
	Status       TournamentStatus `json:"status" db:"status"`
	CurrentRound *string          `json:"current_round,omitempty" db:"current_round"`
	IsPublic     bool             `json:"is_public" db:"is_public"`
	LockedRounds []string         `json:"locked_rounds" db:"locked_rounds"`
	CreatorID    int              `json:"creator_id" db:"creator_id"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
	BannerKey    *string          `json:"-" db:"banner_key"`
	BannerURL    *string          `json:"banner_url,omitempty" db:"-"`

	// Optional linked entities, populated by services.
	Participants []Participant `json:"participants,omitempty" db:"-"`
	Matches      []Match       `json:"matches,omitempty" db:"-"`
}

func (t *Tournament) IsRoundLocked(label string) bool {
	for _, locked := range t.LockedRounds {
		if locked == label {
			return true
		}
	}
	return false
}

func ValidTournamentType(tt TournamentType) bool {
	return tt == TypeSingles || tt == TypeDoubles
}

func ValidTournamentFormat(f TournamentFormat) bool {
	switch f {
	case FormatRoundRobin, FormatGroup, FormatKnockout, FormatCustom:
		return true
	}
	return false
}

// PlayersPerSide returns how many player names a participant entry carries.
func (tt TournamentType) PlayersPerSide() int {
	if tt == TypeDoubles {
		return 2
	}
	return 1
}
