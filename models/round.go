package models

import "time"

// Outcome is the binary result of a match and the value of a prediction.
type Outcome string

const (
	OutcomeTeam1 Outcome = "team1"
	OutcomeTeam2 Outcome = "team2"
)

// Valid reports whether o is one of the two defined outcomes.
func (o Outcome) Valid() bool {
	return o == OutcomeTeam1 || o == OutcomeTeam2
}

// Match is a single two-option contest inside a round. Result stays nil
// until an admin records it and may be overwritten (corrections allowed).
// MessageID binds the match to the chat message users react to; it is set
// in a second step, once the adapter has posted the message.
type Match struct {
	ID        string   `json:"id"`
	Team1     string   `json:"team1"`
	Team2     string   `json:"team2"`
	Result    *Outcome `json:"result"`
	MessageID *string  `json:"message_id"`
}

// Round is a batch of matches sharing one prediction window.
// PredictionsOpen starts true and only ever transitions to false.
type Round struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	GuildID         string    `json:"guild_id"`
	TournamentID    *string   `json:"tournament_id"`
	CreatedAt       time.Time `json:"created_at"`
	Matches         []Match   `json:"matches"`
	Active          bool      `json:"active"`
	PredictionsOpen bool      `json:"predictions_open"`
}
