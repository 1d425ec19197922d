package app

import "github.com/google/uuid"

func newGameID() string { return uuid.NewString() }

// ValidID reports whether id looks like a game ID issued by the service.
func ValidID(id string) bool {
    _, err := uuid.Parse(id)
    return err == nil
}
