package types

import (
	"time"

	"github.com/google/uuid"
)

// ToggleOutcome is the result of one favorite-toggle call.
type ToggleOutcome string

const (
	ToggleAdded   ToggleOutcome = "added"
	ToggleRemoved ToggleOutcome = "removed"
	ToggleNoop    ToggleOutcome = "noop"
)

// FavoriteCity matches the fav_city_entries table structure.
// (user_id, city, country) is unique; the toggle logic depends on it.
type FavoriteCity struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	City      string    `json:"city"`
	Country   string    `json:"country"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment matches the city_comments table structure.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	City      string    `json:"city"`
	Country   string    `json:"country"`
	AuthorID  uuid.UUID `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
