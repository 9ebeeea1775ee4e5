// Package domain holds the quotation lifecycle rules: states, numbering
// and money math. It has no storage or transport dependencies.
package domain

// Quotation lifecycle states.
const (
	StateDraft    = "draft"
	StateSent     = "sent"
	StateApproved = "approved"
	StateRejected = "rejected"
	StateExpired  = "expired"
)

// allowedTransitions maps each state to the states a user-initiated
// transition may reach. Expiry is not listed: only the sweeper moves a
// quotation to expired.
var allowedTransitions = map[string][]string{
	StateDraft:    {StateSent},
	StateSent:     {StateApproved, StateRejected, StateDraft},
	StateApproved: {StateSent},
	StateRejected: {StateSent},
	StateExpired:  {},
}

// IsValidState reports whether s is a known lifecycle state.
func IsValidState(s string) bool {
	_, ok := allowedTransitions[s]
	return ok
}

// CanTransition reports whether a user-initiated transition from one
// state to another is allowed.
func CanTransition(from, to string) bool {
	for _, t := range allowedTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// TransitionsFrom returns the states reachable from the given state.
func TransitionsFrom(from string) []string {
	return allowedTransitions[from]
}
