package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/courtside/pickleball-system/brackets"
	"github.com/courtside/pickleball-system/models"
	"github.com/courtside/pickleball-system/repositories"
	"github.com/courtside/pickleball-system/standings"
)

const defaultQualifiersPerGroup = 2

// Progression describes the structural consequences of a completed or
// cancelled match.
type Progression struct {
	RoundComplete      bool    `json:"round_complete"`
	NextRoundGenerated bool    `json:"next_round_generated"`
	NextRound          *string `json:"next_round,omitempty"`
	TournamentComplete bool    `json:"tournament_complete"`
}

type ScoreUpdateResult struct {
	Match        *models.Match `json:"match"`
	Transitioned bool          `json:"transitioned"`
}

type CompletionResult struct {
	Match       *models.Match       `json:"match"`
	Winner      *models.Participant `json:"winner"`
	Progression Progression         `json:"progression"`
}

// ProgressionService is the match state machine: score entry, completion,
// cancellation, round-completion detection, knockout advancement and round
// locking. All mutations on one tournament are serialized through a
// per-tournament lock.
type ProgressionService interface {
	UpdateScore(ctx context.Context, matchID, scoreA, scoreB int) (*ScoreUpdateResult, error)
	CompleteMatch(ctx context.Context, matchID, scoreA, scoreB int) (*CompletionResult, error)
	CancelMatch(ctx context.Context, matchID int) (*models.Match, error)
	ReactivateMatch(ctx context.Context, matchID int) (*models.Match, error)
	DeleteMatch(ctx context.Context, matchID int) error
}

type progressionService struct {
	txRunner           repositories.TxRunner
	tournamentRepo     repositories.TournamentRepository
	participantRepo    repositories.ParticipantRepository
	matchRepo          repositories.MatchRepository
	locker             *TournamentLocker
	hub                EventBroadcaster
	logger             *slog.Logger
	qualifiersPerGroup int
}

func NewProgressionService(
	txRunner repositories.TxRunner,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	locker *TournamentLocker,
	hub EventBroadcaster,
	logger *slog.Logger,
	qualifiersPerGroup int,
) ProgressionService {
	if locker == nil {
		locker = NewTournamentLocker()
	}
	if hub == nil {
		hub = noopBroadcaster{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if qualifiersPerGroup <= 0 {
		qualifiersPerGroup = defaultQualifiersPerGroup
	}
	return &progressionService{
		txRunner:           txRunner,
		tournamentRepo:     tournamentRepo,
		participantRepo:    participantRepo,
		matchRepo:          matchRepo,
		locker:             locker,
		hub:                hub,
		logger:             logger,
		qualifiersPerGroup: qualifiersPerGroup,
	}
}

func (s *progressionService) UpdateScore(ctx context.Context, matchID, scoreA, scoreB int) (*ScoreUpdateResult, error) {
	if scoreA < 0 || scoreB < 0 {
		return nil, ErrScoreNegative
	}

	match, tournament, unlock, err := s.loadForUpdate(ctx, matchID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := s.checkEditable(tournament, match); err != nil {
		return nil, err
	}
	if match.Status == models.MatchStatusCancelled {
		return nil, ErrMatchCancelled
	}
	if !match.Resolved() {
		return nil, ErrMatchSlotUnresolved
	}

	target := tournament.Rules.PointsToWin
	if scoreA >= target || scoreB >= target {
		// Reaching the point target auto-completes the match.
		if scoreA == scoreB {
			return nil, ErrScoresEqual
		}
		result, err := s.complete(ctx, tournament, match, scoreA, scoreB)
		if err != nil {
			return nil, err
		}
		return &ScoreUpdateResult{Match: result.Match, Transitioned: true}, nil
	}

	newStatus := match.Status
	transitioned := false
	if match.Status == models.MatchStatusUpcoming && (scoreA > 0 || scoreB > 0) {
		newStatus = models.MatchStatusLive
		transitioned = true
	}

	if err := s.matchRepo.UpdateScoreStatusWinner(ctx, nil, match.ID, scoreA, scoreB, newStatus, nil); err != nil {
		return nil, fmt.Errorf("failed to update score for match %d: %w", match.ID, err)
	}
	match.ScoreA = scoreA
	match.ScoreB = scoreB
	match.Status = newStatus

	eventType := brackets.EventScoreUpdated
	if transitioned {
		eventType = brackets.EventMatchStarted
	}
	s.hub.BroadcastToRoom(tournamentRoom(tournament.ID), brackets.Event{
		Type:    eventType,
		Payload: match,
		RoomID:  tournamentRoom(tournament.ID),
	})

	return &ScoreUpdateResult{Match: match, Transitioned: transitioned}, nil
}

func (s *progressionService) CompleteMatch(ctx context.Context, matchID, scoreA, scoreB int) (*CompletionResult, error) {
	if scoreA < 0 || scoreB < 0 {
		return nil, ErrScoreNegative
	}
	if scoreA == scoreB {
		return nil, ErrScoresEqual
	}

	match, tournament, unlock, err := s.loadForUpdate(ctx, matchID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := s.checkEditable(tournament, match); err != nil {
		return nil, err
	}
	if match.Status == models.MatchStatusCancelled {
		return nil, ErrMatchCancelled
	}
	if !match.Resolved() {
		return nil, ErrMatchSlotUnresolved
	}

	return s.complete(ctx, tournament, match, scoreA, scoreB)
}

// complete records the result and runs progression in a single transaction:
// either the score, the round lock and the next round all commit, or none do.
func (s *progressionService) complete(ctx context.Context, tournament *models.Tournament, match *models.Match, scoreA, scoreB int) (*CompletionResult, error) {
	winnerID := *match.ParticipantAID
	if scoreB > scoreA {
		winnerID = *match.ParticipantBID
	}

	match.ScoreA = scoreA
	match.ScoreB = scoreB
	match.Status = models.MatchStatusCompleted
	match.WinnerID = &winnerID

	all, err := s.matchesWithOverride(ctx, tournament.ID, match)
	if err != nil {
		return nil, err
	}

	prog, plan, err := s.planAdvancement(ctx, tournament, all, match)
	if err != nil {
		return nil, err
	}

	err = s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.matchRepo.UpdateScoreStatusWinner(ctx, exec, match.ID, scoreA, scoreB, models.MatchStatusCompleted, &winnerID); err != nil {
			return fmt.Errorf("failed to complete match %d: %w", match.ID, err)
		}
		return s.applyPlan(ctx, exec, tournament, plan)
	})
	if err != nil {
		return nil, err
	}

	winner, err := s.participantRepo.GetByID(ctx, winnerID)
	if err != nil && !errors.Is(err, repositories.ErrParticipantNotFound) {
		return nil, fmt.Errorf("failed to load winner %d: %w", winnerID, err)
	}

	result := &CompletionResult{Match: match, Winner: winner, Progression: prog}
	s.hub.BroadcastToRoom(tournamentRoom(tournament.ID), brackets.Event{
		Type:    brackets.EventMatchCompleted,
		Payload: result,
		RoomID:  tournamentRoom(tournament.ID),
	})
	return result, nil
}

func (s *progressionService) CancelMatch(ctx context.Context, matchID int) (*models.Match, error) {
	match, tournament, unlock, err := s.loadForUpdate(ctx, matchID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := s.checkEditable(tournament, match); err != nil {
		return nil, err
	}

	match.ScoreA = 0
	match.ScoreB = 0
	match.Status = models.MatchStatusCancelled
	match.WinnerID = nil

	all, err := s.matchesWithOverride(ctx, tournament.ID, match)
	if err != nil {
		return nil, err
	}

	// A cancellation can be the event that completes a round.
	_, plan, err := s.planAdvancement(ctx, tournament, all, match)
	if err != nil {
		return nil, err
	}

	err = s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.matchRepo.UpdateScoreStatusWinner(ctx, exec, match.ID, 0, 0, models.MatchStatusCancelled, nil); err != nil {
			return fmt.Errorf("failed to cancel match %d: %w", match.ID, err)
		}
		return s.applyPlan(ctx, exec, tournament, plan)
	})
	if err != nil {
		return nil, err
	}
	return match, nil
}

func (s *progressionService) ReactivateMatch(ctx context.Context, matchID int) (*models.Match, error) {
	match, tournament, unlock, err := s.loadForUpdate(ctx, matchID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if tournament.IsRoundLocked(match.Round) {
		return nil, ErrRoundLocked
	}
	if match.Status == models.MatchStatusCompleted {
		return nil, ErrMatchAlreadyCompleted
	}
	if match.Status != models.MatchStatusCancelled {
		return nil, ErrMatchNotCancelled
	}

	// The pre-cancellation score is not restored.
	if err := s.matchRepo.UpdateScoreStatusWinner(ctx, nil, match.ID, 0, 0, models.MatchStatusUpcoming, nil); err != nil {
		return nil, fmt.Errorf("failed to reactivate match %d: %w", match.ID, err)
	}
	match.ScoreA = 0
	match.ScoreB = 0
	match.Status = models.MatchStatusUpcoming
	match.WinnerID = nil
	return match, nil
}

func (s *progressionService) DeleteMatch(ctx context.Context, matchID int) error {
	match, tournament, unlock, err := s.loadForUpdate(ctx, matchID)
	if err != nil {
		return err
	}
	defer unlock()

	if tournament.IsRoundLocked(match.Round) {
		return ErrRoundLocked
	}
	if err := s.matchRepo.Delete(ctx, nil, match.ID); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("failed to delete match %d: %w", match.ID, err)
	}
	return nil
}

// loadForUpdate resolves the match's tournament, takes the per-tournament
// lock and re-reads the match under it. The returned release func must be
// called once the mutation is finished.
func (s *progressionService) loadForUpdate(ctx context.Context, matchID int) (*models.Match, *models.Tournament, func(), error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, nil, nil, ErrMatchNotFound
		}
		return nil, nil, nil, fmt.Errorf("failed to load match %d: %w", matchID, err)
	}

	unlock := s.locker.Lock(match.TournamentID)

	match, err = s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		unlock()
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, nil, nil, ErrMatchNotFound
		}
		return nil, nil, nil, fmt.Errorf("failed to load match %d: %w", matchID, err)
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, match.TournamentID)
	if err != nil {
		unlock()
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, nil, nil, ErrTournamentNotFound
		}
		return nil, nil, nil, fmt.Errorf("failed to load tournament %d: %w", match.TournamentID, err)
	}

	return match, tournament, unlock, nil
}

func (s *progressionService) checkEditable(tournament *models.Tournament, match *models.Match) error {
	if tournament.IsRoundLocked(match.Round) {
		return ErrRoundLocked
	}
	if match.Status == models.MatchStatusCompleted {
		return ErrMatchAlreadyCompleted
	}
	return nil
}

// matchesWithOverride lists the tournament's matches and substitutes the
// in-memory state of the match being mutated, so progression sees the world
// as it will be after the pending write.
func (s *progressionService) matchesWithOverride(ctx context.Context, tournamentID int, changed *models.Match) ([]*models.Match, error) {
	all, err := s.matchRepo.ListByTournament(ctx, tournamentID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %d: %w", tournamentID, err)
	}
	for i, m := range all {
		if m.ID == changed.ID {
			all[i] = changed
		}
	}
	return all, nil
}

// advancementPlan is the set of writes progression wants applied atomically
// alongside the match result.
type advancementPlan struct {
	lockRounds   []string
	newMatches   []*models.Match
	currentRound *string
	status       *models.TournamentStatus
}

func (s *progressionService) applyPlan(ctx context.Context, exec repositories.SQLExecutor, tournament *models.Tournament, plan *advancementPlan) error {
	if plan == nil {
		return nil
	}
	for _, nm := range plan.newMatches {
		if err := s.matchRepo.Create(ctx, exec, nm); err != nil {
			return fmt.Errorf("failed to create match for round %q: %w", nm.Round, err)
		}
	}
	if len(plan.lockRounds) > 0 {
		if err := s.tournamentRepo.AddLockedRounds(ctx, exec, tournament.ID, plan.lockRounds); err != nil {
			return err
		}
	}
	if plan.currentRound != nil {
		if err := s.tournamentRepo.UpdateCurrentRound(ctx, exec, tournament.ID, plan.currentRound); err != nil {
			return err
		}
	}
	if plan.status != nil {
		if err := s.tournamentRepo.UpdateStatus(ctx, exec, tournament.ID, *plan.status); err != nil {
			return err
		}
	}
	return nil
}

// planAdvancement recomputes round completeness after a match reached a
// terminal state and decides what progression has to do about it.
func (s *progressionService) planAdvancement(ctx context.Context, tournament *models.Tournament, all []*models.Match, changed *models.Match) (Progression, *advancementPlan, error) {
	var prog Progression

	if !roundComplete(all, changed.Round) {
		return prog, nil, nil
	}
	prog.RoundComplete = true

	switch changed.RoundKind {
	case models.RoundKindFinal:
		if !roundHasWinner(all, changed.Round) {
			// Every Final match was cancelled. Nothing was decided, so the
			// round stays unlocked and the matches can be reactivated.
			s.logger.Warn("final round ended without a winner, tournament left open",
				slog.Int("tournament_id", tournament.ID), slog.String("round", changed.Round))
			return prog, nil, nil
		}
		status := models.StatusCompleted
		prog.TournamentComplete = true
		return prog, &advancementPlan{
			lockRounds: []string{changed.Round},
			status:     &status,
		}, nil

	case models.RoundKindQuarterfinal, models.RoundKindSemifinal:
		nextKind, _ := changed.RoundKind.Next()
		nextLabel := nextKind.Label()
		if roundExists(all, nextLabel) {
			return prog, nil, nil
		}

		winners, err := s.winnersInOrder(ctx, matchesInRound(all, changed.Round))
		if err != nil {
			return prog, nil, err
		}
		if len(winners) == 0 {
			s.logger.Warn("knockout round completed with no winners, nothing to advance",
				slog.Int("tournament_id", tournament.ID), slog.String("round", changed.Round))
			return prog, nil, nil
		}

		newMatches := fixturesToMatches(tournament.ID, brackets.PairWinners(winners, nextKind))
		prog.NextRoundGenerated = true
		prog.NextRound = &nextLabel
		return prog, &advancementPlan{
			lockRounds:   []string{changed.Round},
			newMatches:   newMatches,
			currentRound: &nextLabel,
		}, nil

	case models.RoundKindGroup:
		return s.planGroupHandoff(ctx, tournament, all, prog)
	}

	// Custom rounds never advance automatically.
	return prog, nil, nil
}

// planGroupHandoff seeds the knockout stage once every group round is
// complete: per-group standings are computed and the top K of each group,
// in group order then rank order, become the knockout field.
func (s *progressionService) planGroupHandoff(ctx context.Context, tournament *models.Tournament, all []*models.Match, prog Progression) (Progression, *advancementPlan, error) {
	groupLabels := make([]string, 0)
	seen := make(map[string]bool)
	for _, m := range all {
		if m.RoundKind != models.RoundKindGroup || seen[m.Round] {
			continue
		}
		seen[m.Round] = true
		groupLabels = append(groupLabels, m.Round)
		if !roundComplete(all, m.Round) {
			return prog, nil, nil
		}
	}
	sort.Strings(groupLabels)

	for _, m := range all {
		if m.RoundKind.Knockout() {
			// Knockout stage already seeded.
			return prog, nil, nil
		}
	}

	participants, err := s.participantRepo.ListByTournament(ctx, tournament.ID)
	if err != nil {
		return prog, nil, fmt.Errorf("failed to list participants for tournament %d: %w", tournament.ID, err)
	}

	groups := standings.CalculateGroups(participants, all)
	qualified := standings.QualifyTopK(groups, s.qualifiersPerGroup)

	entryKind, ok := brackets.KnockoutEntryRound(len(qualified))
	if !ok {
		s.logger.Warn("qualified participant count does not fit a clean bracket, knockout stage must be created manually",
			slog.Int("tournament_id", tournament.ID),
			slog.Int("qualified", len(qualified)))
		return prog, nil, nil
	}

	entryLabel := entryKind.Label()
	newMatches := fixturesToMatches(tournament.ID, brackets.PairWinners(qualified, entryKind))
	prog.NextRoundGenerated = true
	prog.NextRound = &entryLabel
	return prog, &advancementPlan{
		lockRounds:   groupLabels,
		newMatches:   newMatches,
		currentRound: &entryLabel,
	}, nil
}

// winnersInOrder collects the winners of a finished round ascending by match
// order. Cancelled matches contribute no winner.
func (s *progressionService) winnersInOrder(ctx context.Context, roundMatches []*models.Match) ([]*models.Participant, error) {
	ordered := make([]*models.Match, len(roundMatches))
	copy(ordered, roundMatches)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

	winners := make([]*models.Participant, 0, len(ordered))
	for _, m := range ordered {
		if m.Status != models.MatchStatusCompleted || m.WinnerID == nil {
			continue
		}
		p, err := s.participantRepo.GetByID(ctx, *m.WinnerID)
		if err != nil {
			return nil, fmt.Errorf("failed to load winner %d of match %d: %w", *m.WinnerID, m.ID, err)
		}
		winners = append(winners, p)
	}
	return winners, nil
}

func matchesInRound(all []*models.Match, label string) []*models.Match {
	out := make([]*models.Match, 0)
	for _, m := range all {
		if m.Round == label {
			out = append(out, m)
		}
	}
	return out
}

func roundComplete(all []*models.Match, label string) bool {
	total, terminal := 0, 0
	for _, m := range all {
		if m.Round != label {
			continue
		}
		total++
		if m.Status == models.MatchStatusCompleted || m.Status == models.MatchStatusCancelled {
			terminal++
		}
	}
	return total > 0 && terminal == total
}

func roundHasWinner(all []*models.Match, label string) bool {
	for _, m := range all {
		if m.Round == label && m.Status == models.MatchStatusCompleted && m.WinnerID != nil {
			return true
		}
	}
	return false
}

func roundExists(all []*models.Match, label string) bool {
	for _, m := range all {
		if m.Round == label {
			return true
		}
	}
	return false
}

func fixturesToMatches(tournamentID int, fixtures []*brackets.FixtureMatch) []*models.Match {
	matches := make([]*models.Match, 0, len(fixtures))
	for _, fm := range fixtures {
		matches = append(matches, &models.Match{
			TournamentID:   tournamentID,
			Round:          fm.Round,
			RoundKind:      fm.Kind,
			ParticipantAID: fm.ParticipantAID,
			ParticipantBID: fm.ParticipantBID,
			Status:         models.MatchStatusUpcoming,
			Order:          fm.OrderInRound,
		})
	}
	return matches
}
