package services

import (
	"context"
	"sort"
	"sync"

	"github.com/courtside/pickleball-system/models"
	"github.com/courtside/pickleball-system/repositories"
)

// The in-memory repositories below back the service tests. They implement
// the same interfaces as the Postgres repositories, including the sentinel
// errors the services branch on.

type fakeTxRunner struct {
	mu    sync.Mutex
	calls int
}

func (r *fakeTxRunner) RunInTx(_ context.Context, fn func(exec repositories.SQLExecutor) error) error {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	return fn(nil)
}

type fakeTournamentRepo struct {
	mu          sync.Mutex
	tournaments map[int]*models.Tournament
	nextID      int
}

func newFakeTournamentRepo() *fakeTournamentRepo {
	return &fakeTournamentRepo{tournaments: make(map[int]*models.Tournament), nextID: 1}
}

func (r *fakeTournamentRepo) Create(_ context.Context, _ repositories.SQLExecutor, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.tournaments {
		if existing.Name == t.Name {
			return repositories.ErrTournamentNameConflict
		}
	}
	t.ID = r.nextID
	r.nextID++
	copied := *t
	r.tournaments[t.ID] = &copied
	return nil
}

func (r *fakeTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	copied := *t
	copied.LockedRounds = append([]string(nil), t.LockedRounds...)
	return &copied, nil
}

func (r *fakeTournamentRepo) List(_ context.Context, publicOnly bool) ([]*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Tournament, 0, len(r.tournaments))
	for _, t := range r.tournaments {
		if publicOnly && !t.IsPublic {
			continue
		}
		copied := *t
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTournamentRepo) Update(_ context.Context, _ repositories.SQLExecutor, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tournaments[t.ID]; !ok {
		return repositories.ErrTournamentNotFound
	}
	copied := *t
	r.tournaments[t.ID] = &copied
	return nil
}

func (r *fakeTournamentRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.TournamentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = status
	return nil
}

func (r *fakeTournamentRepo) UpdateCurrentRound(_ context.Context, _ repositories.SQLExecutor, id int, round *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.CurrentRound = round
	return nil
}

func (r *fakeTournamentRepo) AddLockedRounds(_ context.Context, _ repositories.SQLExecutor, id int, rounds []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	for _, round := range rounds {
		if !t.IsRoundLocked(round) {
			t.LockedRounds = append(t.LockedRounds, round)
		}
	}
	return nil
}

func (r *fakeTournamentRepo) UpdateBannerKey(_ context.Context, id int, key *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.BannerKey = key
	return nil
}

func (r *fakeTournamentRepo) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tournaments[id]; !ok {
		return repositories.ErrTournamentNotFound
	}
	delete(r.tournaments, id)
	return nil
}

type fakeParticipantRepo struct {
	mu           sync.Mutex
	participants map[int]*models.Participant
	nextID       int
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{participants: make(map[int]*models.Participant), nextID: 1}
}

func (r *fakeParticipantRepo) Create(_ context.Context, _ repositories.SQLExecutor, p *models.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.nextID
	r.nextID++
	copied := *p
	r.participants[p.ID] = &copied
	return nil
}

func (r *fakeParticipantRepo) BatchCreate(ctx context.Context, exec repositories.SQLExecutor, participants []*models.Participant) error {
	for _, p := range participants {
		if err := r.Create(ctx, exec, p); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeParticipantRepo) GetByID(_ context.Context, id int) (*models.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.participants[id]
	if !ok {
		return nil, repositories.ErrParticipantNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakeParticipantRepo) ListByTournament(_ context.Context, tournamentID int) ([]*models.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Participant, 0)
	for _, p := range r.participants {
		if p.TournamentID == tournamentID {
			copied := *p
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeParticipantRepo) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.participants[id]; !ok {
		return repositories.ErrParticipantNotFound
	}
	delete(r.participants, id)
	return nil
}

type fakeMatchRepo struct {
	mu      sync.Mutex
	matches map[int]*models.Match
	nextID  int
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{matches: make(map[int]*models.Match), nextID: 1}
}

func (r *fakeMatchRepo) Create(_ context.Context, _ repositories.SQLExecutor, m *models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = r.nextID
	r.nextID++
	copied := *m
	r.matches[m.ID] = &copied
	return nil
}

func (r *fakeMatchRepo) GetByID(_ context.Context, id int) (*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *fakeMatchRepo) ListByTournament(_ context.Context, tournamentID int, round *string, status *models.MatchStatus) ([]*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Match, 0)
	for _, m := range r.matches {
		if m.TournamentID != tournamentID {
			continue
		}
		if round != nil && m.Round != *round {
			continue
		}
		if status != nil && m.Status != *status {
			continue
		}
		copied := *m
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Round != b.Round {
			return a.Round < b.Round
		}
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.ID < b.ID
	})
	return out, nil
}

func (r *fakeMatchRepo) UpdateScoreStatusWinner(_ context.Context, _ repositories.SQLExecutor, id int, scoreA, scoreB int, status models.MatchStatus, winnerID *int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.ScoreA = scoreA
	m.ScoreB = scoreB
	m.Status = status
	m.WinnerID = winnerID
	return nil
}

func (r *fakeMatchRepo) UpdateParticipants(_ context.Context, _ repositories.SQLExecutor, id int, participantAID, participantBID *int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.ParticipantAID = participantAID
	m.ParticipantBID = participantBID
	return nil
}

func (r *fakeMatchRepo) UpdateCourtNumber(_ context.Context, id int, courtNumber *int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.CourtNumber = courtNumber
	return nil
}

func (r *fakeMatchRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.matches[id]; !ok {
		return repositories.ErrMatchNotFound
	}
	delete(r.matches, id)
	return nil
}

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[int]*models.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int]*models.User), nextID: 1}
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	u.ID = r.nextID
	r.nextID++
	copied := *u
	r.users[u.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}
