package standings

import (
	"sort"

	"github.com/courtside/pickleball-system/models"
)

// Calculate ranks participants from completed matches. It is a pure
// function: the same participants and matches always produce the same table.
//
// Only matches that are completed and have both slots resolved count. The
// sort is descending on wins, then point difference, then points for, then
// the head-to-head result between the tied pair; anything still tied keeps
// the participant input order. Positions are assigned 1..N after the sort.
func Calculate(participants []*models.Participant, matches []*models.Match) []*models.Standing {
	table := make([]*models.Standing, 0, len(participants))
	byID := make(map[int]*models.Standing, len(participants))
	for _, p := range participants {
		s := &models.Standing{
			Participant: p,
			HeadToHead:  make(map[int]models.HeadToHeadResult),
		}
		table = append(table, s)
		byID[p.ID] = s
	}

	for _, m := range matches {
		if m.Status != models.MatchStatusCompleted || !m.Resolved() {
			continue
		}
		a, okA := byID[*m.ParticipantAID]
		b, okB := byID[*m.ParticipantBID]
		if !okA || !okB {
			continue
		}

		a.MatchesPlayed++
		b.MatchesPlayed++
		a.PointsFor += m.ScoreA
		a.PointsAgainst += m.ScoreB
		b.PointsFor += m.ScoreB
		b.PointsAgainst += m.ScoreA

		if m.ScoreA > m.ScoreB {
			a.Wins++
			b.Losses++
			a.HeadToHead[b.Participant.ID] = models.HeadToHeadWin
			b.HeadToHead[a.Participant.ID] = models.HeadToHeadLoss
		} else {
			b.Wins++
			a.Losses++
			b.HeadToHead[a.Participant.ID] = models.HeadToHeadWin
			a.HeadToHead[b.Participant.ID] = models.HeadToHeadLoss
		}
	}

	for _, s := range table {
		s.PointDifference = s.PointsFor - s.PointsAgainst
	}

	sort.SliceStable(table, func(i, j int) bool {
		a, b := table[i], table[j]
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.PointDifference != b.PointDifference {
			return a.PointDifference > b.PointDifference
		}
		if a.PointsFor != b.PointsFor {
			return a.PointsFor > b.PointsFor
		}
		// Direct result between the tied pair; no recorded match leaves the
		// input order untouched.
		return a.HeadToHead[b.Participant.ID] == models.HeadToHeadWin
	})

	for i, s := range table {
		s.Position = i + 1
	}
	return table
}
