package models

type HeadToHeadResult string

const (
	HeadToHeadWin  HeadToHeadResult = "win"
	HeadToHeadLoss HeadToHeadResult = "loss"
)

// Standing is a derived ranking entry for one participant. HeadToHead maps
// opponent participant ID to the recorded result of their direct match.
type Standing struct {
	Participant     *Participant             `json:"participant"`
	MatchesPlayed   int                      `json:"matches_played"`
	Wins            int                      `json:"wins"`
	Losses          int                      `json:"losses"`
	PointsFor       int                      `json:"points_for"`
	PointsAgainst   int                      `json:"points_against"`
	PointDifference int                      `json:"point_difference"`
	HeadToHead      map[int]HeadToHeadResult `json:"head_to_head,omitempty"`
	Position        int                      `json:"position"`
}

// GroupStandings is the ranked table for a single group-stage group.
type GroupStandings struct {
	GroupName string      `json:"group_name"`
	Standings []*Standing `json:"standings"`
}
