package models

// Registry is the tournaments/rounds collection as persisted: both entity
// types keyed by id, rounds embedding their match lists.
type Registry struct {
	Tournaments map[string]*Tournament `json:"tournaments"`
	Rounds      map[string]*Round      `json:"rounds"`
}

func NewRegistry() *Registry {
	return &Registry{
		Tournaments: make(map[string]*Tournament),
		Rounds:      make(map[string]*Round),
	}
}

// PredictionLog is the predictions collection: roundID -> userID ->
// matchID -> chosen outcome. At most one outcome per key; a later write
// replaces the previous one.
type PredictionLog map[string]map[string]map[string]Outcome

// Score is a user's derived standing over a round or tournament. It is
// computed on demand and never stored.
type Score struct {
	UserID     string  `json:"user_id"`
	Correct    int     `json:"correct"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}
