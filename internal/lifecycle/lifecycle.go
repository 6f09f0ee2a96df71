// Package lifecycle defines the closed state sets and allowed transitions for
// the entities that move through statuses over time. Services consult one
// table per entity instead of scattering ad hoc status checks, so adding a
// rule means editing one table.
package lifecycle

// Table maps each state to the set of states it may move to. Effects attached
// to a transition run synchronously inside the triggering request.
type Table struct {
	transitions map[string]map[string]struct{}
}

// NewTable builds a transition table from (from, to) pairs.
func NewTable(pairs ...[2]string) Table {
	t := Table{transitions: make(map[string]map[string]struct{})}
	for _, pair := range pairs {
		targets, ok := t.transitions[pair[0]]
		if !ok {
			targets = make(map[string]struct{})
			t.transitions[pair[0]] = targets
		}
		targets[pair[1]] = struct{}{}
	}
	return t
}

// CanTransition reports whether from -> to is in the table. Self transitions
// are never allowed: a no-op status change is a caller error, not a silent
// success.
func (t Table) CanTransition(from, to string) bool {
	if from == to {
		return false
	}
	targets, ok := t.transitions[from]
	if !ok {
		return false
	}
	_, ok = targets[to]
	return ok
}

// Targets returns the states reachable from the given state.
func (t Table) Targets(from string) []string {
	targets := t.transitions[from]
	result := make([]string, 0, len(targets))
	for state := range targets {
		result = append(result, state)
	}
	return result
}
