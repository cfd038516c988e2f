package models

import "time"

type MatchStatus string

const (
	MatchStatusUpcoming  MatchStatus = "upcoming"
	MatchStatusLive      MatchStatus = "live"
	MatchStatusCompleted MatchStatus = "completed"
	MatchStatusCancelled MatchStatus = "cancelled"
)

// Match is a single game between two participants. A nil participant pointer
// means the slot is TBD and the match cannot be scored until it is resolved.
type Match struct {
	ID             int         `json:"id" db:"id"`
	TournamentID   int         `json:"tournament_id" db:"tournament_id"`
	Round          string      `json:"round" db:"round"`
	RoundKind      RoundKind   `json:"round_kind" db:"round_kind"`
	ParticipantAID *int        `json:"participant_a_id,omitempty" db:"participant_a_id"`
	ParticipantBID *int        `json:"participant_b_id,omitempty" db:"participant_b_id"`
	Status         MatchStatus `json:"status" db:"status"`
	ScoreA         int         `json:"score_a" db:"score_a"`
	ScoreB         int         `json:"score_b" db:"score_b"`
	CourtNumber    *int        `json:"court_number,omitempty" db:"court_number"`
	Order          int         `json:"order" db:"match_order"`
	WinnerID       *int        `json:"winner_id,omitempty" db:"winner_id"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`

	ParticipantA *Participant `json:"participant_a,omitempty" db:"-"`
	ParticipantB *Participant `json:"participant_b,omitempty" db:"-"`
}

// Resolved reports whether both participant slots are filled.
func (m *Match) Resolved() bool {
	return m.ParticipantAID != nil && m.ParticipantBID != nil
}
