package services

import "sync"

// TournamentLocker serializes mutating operations per tournament so that
// "check round completeness, then create the next round" cannot race with a
// concurrent score submission on the same tournament. One instance is shared
// by every service that mutates tournament state.
type TournamentLocker struct {
	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

func NewTournamentLocker() *TournamentLocker {
	return &TournamentLocker{locks: make(map[int]*sync.Mutex)}
}

// Lock acquires the mutex for one tournament and returns its release func.
func (l *TournamentLocker) Lock(tournamentID int) func() {
	l.mu.Lock()
	m, ok := l.locks[tournamentID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[tournamentID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// Forget drops the mutex of a deleted tournament so the map does not grow
// for the lifetime of the process. Callers must hold the tournament's lock
// when forgetting it.
func (l *TournamentLocker) Forget(tournamentID int) {
	l.mu.Lock()
	delete(l.locks, tournamentID)
	l.mu.Unlock()
}
