package reaction

// Ledger holds the like/dislike state of a single content item as two
// mutually exclusive membership sets plus denormalized counters.
//
// Invariants after every mutation: a customer appears in at most one of the
// two sets, LikeCount equals the liked set size, DislikeCount equals the
// disliked set size, and neither counter is negative.
type Ledger struct {
	likedBy    map[uint]struct{}
	dislikedBy map[uint]struct{}

	LikeCount    int
	DislikeCount int
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		likedBy:    make(map[uint]struct{}),
		dislikedBy: make(map[uint]struct{}),
	}
}

// Reaction returns the customer's current reaction recorded in the ledger.
func (l *Ledger) Reaction(customerID uint) Type {
	if _, ok := l.likedBy[customerID]; ok {
		return TypeLike
	}
	if _, ok := l.dislikedBy[customerID]; ok {
		return TypeDislike
	}
	return TypeNone
}

// Apply toggles the customer's membership for the desired reaction type and
// returns the customer's resulting reaction:
//
//   - already in the desired set: toggle off (removed, counter decremented)
//   - in the opposite set: moved across, both counters adjusted
//   - in neither: added to the desired set
//
// desired must be TypeLike or TypeDislike; TypeNone removes any reaction.
func (l *Ledger) Apply(customerID uint, desired Type) Type {
	current := l.Reaction(customerID)

	if desired == TypeNone || current == desired {
		l.remove(customerID, current)
		return TypeNone
	}

	l.remove(customerID, current)
	switch desired {
	case TypeLike:
		l.likedBy[customerID] = struct{}{}
		l.LikeCount = len(l.likedBy)
	case TypeDislike:
		l.dislikedBy[customerID] = struct{}{}
		l.DislikeCount = len(l.dislikedBy)
	}
	return desired
}

// Remove withdraws any reaction the customer has, returning the type that was
// removed. Used when a customer account is deleted.
func (l *Ledger) Remove(customerID uint) Type {
	current := l.Reaction(customerID)
	l.remove(customerID, current)
	return current
}

func (l *Ledger) remove(customerID uint, current Type) {
	switch current {
	case TypeLike:
		delete(l.likedBy, customerID)
		l.LikeCount = len(l.likedBy)
	case TypeDislike:
		delete(l.dislikedBy, customerID)
		l.DislikeCount = len(l.dislikedBy)
	}
}

// Counts returns the current like and dislike counts.
func (l *Ledger) Counts() (likes, dislikes int) {
	return l.LikeCount, l.DislikeCount
}
