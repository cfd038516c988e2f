package models

import "time"

// Participant is one entry in a tournament: a single player or a doubles pair.
// Players carries one name for singles and two for doubles.
type Participant struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	Name         string    `json:"name" db:"name"`
	Players      []string  `json:"players" db:"players"`
	Seed         *int      `json:"seed,omitempty" db:"seed"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
