package services

import "fmt"

// EventBroadcaster publishes a structured event to every viewer of a
// tournament room. Satisfied by *brackets.Hub.
type EventBroadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
}

func tournamentRoom(tournamentID int) string {
	return fmt.Sprintf("tournament_%d", tournamentID)
}

// noopBroadcaster is used when no hub is wired, e.g. in tests.
type noopBroadcaster struct{}

func (noopBroadcaster) BroadcastToRoom(string, interface{}) {}
