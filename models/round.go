package models

import (
	"sort"
	"strings"
)

// RoundKind is an explicit tag for what a round is, instead of inferring it
// from the free-text label every time.
type RoundKind string

const (
	RoundKindGroup        RoundKind = "group"
	RoundKindQuarterfinal RoundKind = "quarterfinal"
	RoundKindSemifinal    RoundKind = "semifinal"
	RoundKindFinal        RoundKind = "final"
	RoundKindCustom       RoundKind = "custom"
)

// Next returns the following round in the knockout chain. The second return
// is false for kinds that do not advance (group, custom, final).
func (k RoundKind) Next() (RoundKind, bool) {
	switch k {
	case RoundKindQuarterfinal:
		return RoundKindSemifinal, true
	case RoundKindSemifinal:
		return RoundKindFinal, true
	}
	return "", false
}

func (k RoundKind) Knockout() bool {
	switch k {
	case RoundKindQuarterfinal, RoundKindSemifinal, RoundKindFinal:
		return true
	}
	return false
}

// Label returns the canonical round label for knockout kinds.
func (k RoundKind) Label() string {
	switch k {
	case RoundKindQuarterfinal:
		return "Quarterfinal"
	case RoundKindSemifinal:
		return "Semifinal"
	case RoundKindFinal:
		return "Final"
	}
	return ""
}

// ParseRoundLabel classifies a free-text round label. Kept for importing
// legacy data where only the label was stored.
func ParseRoundLabel(label string) RoundKind {
	lower := strings.ToLower(label)
	switch {
	case strings.HasPrefix(label, "Group "):
		return RoundKindGroup
	case strings.Contains(lower, "quarter"):
		return RoundKindQuarterfinal
	case strings.Contains(lower, "semi"):
		return RoundKindSemifinal
	case strings.Contains(lower, "final"):
		return RoundKindFinal
	}
	return RoundKindCustom
}

// GroupLetter extracts the letter from a "Group X" label, or "" if the label
// has a different shape.
func GroupLetter(label string) string {
	if strings.HasPrefix(label, "Group ") {
		return strings.TrimPrefix(label, "Group ")
	}
	return ""
}

// Round is a derived grouping of matches sharing a label. It is never stored.
type Round struct {
	Label     string    `json:"label"`
	Kind      RoundKind `json:"kind"`
	Total     int       `json:"total"`
	Upcoming  int       `json:"upcoming"`
	Live      int       `json:"live"`
	Completed int       `json:"completed"`
	Cancelled int       `json:"cancelled"`
}

// Complete reports whether every match in the round has reached a terminal
// state. An empty round is never complete.
func (r Round) Complete() bool {
	return r.Total > 0 && r.Completed+r.Cancelled == r.Total
}

// BuildRounds derives per-round stats from a match list, ordered by label.
func BuildRounds(matches []*Match) []Round {
	byLabel := make(map[string]*Round)
	order := make([]string, 0)
	for _, m := range matches {
		r, ok := byLabel[m.Round]
		if !ok {
			r = &Round{Label: m.Round, Kind: m.RoundKind}
			byLabel[m.Round] = r
			order = append(order, m.Round)
		}
		r.Total++
		switch m.Status {
		case MatchStatusUpcoming:
			r.Upcoming++
		case MatchStatusLive:
			r.Live++
		case MatchStatusCompleted:
			r.Completed++
		case MatchStatusCancelled:
			r.Cancelled++
		}
	}
	sort.Strings(order)
	rounds := make([]Round, 0, len(order))
	for _, label := range order {
		rounds = append(rounds, *byLabel[label])
	}
	return rounds
}
