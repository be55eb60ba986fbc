// Package reaction implements like/dislike state for a single content item:
// the reaction type, the transition rules between a customer's reaction
// states, and an embedded-set ledger that keeps denormalized counts equal to
// set sizes.
package reaction

// Type is a customer's reaction to a content item.
type Type string

const (
	// TypeNone means the customer currently has no reaction recorded.
	TypeNone Type = "none"
	// TypeLike is a positive reaction.
	TypeLike Type = "like"
	// TypeDislike is a negative reaction.
	TypeDislike Type = "dislike"
)

// Valid reports whether t is one of none, like, dislike.
func (t Type) Valid() bool {
	switch t {
	case TypeNone, TypeLike, TypeDislike:
		return true
	}
	return false
}

// ParseType converts a request string into a Type. The empty string maps to
// TypeNone; anything else unrecognized is rejected by Valid.
func ParseType(s string) (Type, bool) {
	if s == "" {
		return TypeNone, true
	}
	t := Type(s)
	return t, t.Valid()
}

// RecordOp is the persistence action a transition requires on the
// (customer, post) reaction record.
type RecordOp int

const (
	// OpNone leaves the record untouched (self-transition).
	OpNone RecordOp = iota
	// OpCreate inserts a new record with the desired type.
	OpCreate
	// OpUpdate rewrites the existing record's type.
	OpUpdate
	// OpDelete removes the existing record.
	OpDelete
)

// Transition describes how counters and the reaction record must change when
// a customer moves from one reaction state to another. Counter deltas are
// applied with floor-at-zero semantics by the store.
type Transition struct {
	Op           RecordOp
	LikeDelta    int
	DislikeDelta int
}

// Changed reports whether the transition mutates any state.
func (t Transition) Changed() bool {
	return t.Op != OpNone
}

// Resolve computes the transition from the current reaction state to the
// desired one. Same-state transitions are no-ops; every other pair of states
// is reachable in a single step, so a like→dislike switch moves both counters
// in one transition rather than through an intermediate persisted state.
func Resolve(current, desired Type) Transition {
	if current == desired {
		return Transition{Op: OpNone}
	}

	var t Transition
	switch current {
	case TypeLike:
		t.LikeDelta--
	case TypeDislike:
		t.DislikeDelta--
	}
	switch desired {
	case TypeLike:
		t.LikeDelta++
	case TypeDislike:
		t.DislikeDelta++
	}

	switch {
	case current == TypeNone:
		t.Op = OpCreate
	case desired == TypeNone:
		t.Op = OpDelete
	default:
		t.Op = OpUpdate
	}
	return t
}
