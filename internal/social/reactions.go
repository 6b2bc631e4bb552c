package social

import (
	"github.com/anonto42/nano-social/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReactionOutcome says what a toggle did to the caller's reaction.
type ReactionOutcome int

const (
	ReactionAdded ReactionOutcome = iota + 1
	ReactionSwitched
	ReactionRemoved
)

func (o ReactionOutcome) String() string {
	switch o {
	case ReactionAdded:
		return "added"
	case ReactionSwitched:
		return "switched"
	case ReactionRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// ReactionChange describes a toggle. Previous is set for Switched and Removed.
type ReactionChange struct {
	Outcome  ReactionOutcome
	Previous models.ReactionKind
	Kind     models.ReactionKind
}

// ApplyReaction toggles account's reaction of the given kind within current
// and returns the resulting set. The input slice is not modified.
//
// No reaction yet adds one; the same kind again removes it; a different kind
// replaces it in place, so an account never holds more than one entry.
func ApplyReaction(current []models.Reaction, account primitive.ObjectID, kind models.ReactionKind) ([]models.Reaction, ReactionChange) {
	next := make([]models.Reaction, 0, len(current)+1)
	change := ReactionChange{Outcome: ReactionAdded, Kind: kind}

	for _, r := range current {
		if r.User != account {
			next = append(next, r)
			continue
		}
		change.Previous = r.Type
		if r.Type == kind {
			change.Outcome = ReactionRemoved
			continue
		}
		change.Outcome = ReactionSwitched
		next = append(next, models.Reaction{User: account, Type: kind})
	}

	if change.Outcome == ReactionAdded {
		next = append(next, models.Reaction{User: account, Type: kind})
	}
	return next, change
}

// ContainsID reports whether id is present in ids.
func ContainsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// ToggleID adds id to ids when absent and removes it when present. The
// returned flag is true when id ended up in the set. New members are
// prepended, so the set reads newest first.
func ToggleID(ids []primitive.ObjectID, id primitive.ObjectID) ([]primitive.ObjectID, bool) {
	if ContainsID(ids, id) {
		next := make([]primitive.ObjectID, 0, len(ids)-1)
		for _, v := range ids {
			if v != id {
				next = append(next, v)
			}
		}
		return next, false
	}
	next := make([]primitive.ObjectID, 0, len(ids)+1)
	next = append(next, id)
	return append(next, ids...), true
}
