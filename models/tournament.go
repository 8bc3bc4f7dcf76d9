package models

import "time"

// Tournament groups rounds under one competition. RoundIDs keeps creation
// order and is referential only: a round may exist without a tournament or
// outlive the link.
type Tournament struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	GuildID   string    `json:"guild_id"`
	CreatedAt time.Time `json:"created_at"`
	RoundIDs  []string  `json:"rounds"`
	Active    bool      `json:"active"`
}
