package generals

// RunResult is what a run hands back to the driver and the external
// verifier: every lieutenant's final decision plus the fault assignment the
// run used.
type RunResult struct {
	// Order is the true order the commander was given.
	Order Order
	// Decisions maps each lieutenant to its final decision.
	Decisions map[ID]Order
	// Loyalty is the per-participant loyalty assignment of the run.
	Loyalty map[ID]bool
}

// Agreement reports the first Byzantine-agreement property: every loyal
// lieutenant decided the same value.
func (r *RunResult) Agreement() bool {
	var first Order
	seen := false
	for id, d := range r.Decisions {
		if !r.Loyalty[id] {
			continue
		}
		if !seen {
			first, seen = d, true
			continue
		}
		if d != first {
			return false
		}
	}
	return true
}

// Validity reports the second property: with a loyal commander, every loyal
// lieutenant decided the commander's true order. For a traitorous commander
// validity is vacuously true, agreement is what remains.
func (r *RunResult) Validity() bool {
	if !r.Loyalty[CommanderID] {
		return true
	}
	for id, d := range r.Decisions {
		if r.Loyalty[id] && d != r.Order {
			return false
		}
	}
	return true
}

// Summary is the run-level tally over all collected decisions.
type Summary struct {
	// Votes counts lieutenant decisions per value.
	Votes Tally
	// Plurality is the most decided value; between equal counts the
	// lexicographically smaller value wins, so the summary is deterministic.
	Plurality Order
	// Count is the number of lieutenants that decided Plurality.
	Count int
	// Consensus is true when Plurality holds a strict majority of all
	// lieutenant decisions.
	Consensus bool
}

// Summary tallies all lieutenant decisions, loyal and traitorous alike.
func (r *RunResult) Summary() Summary {
	votes := NewTally()
	for _, d := range r.Decisions {
		votes.Add(d)
	}
	s := Summary{Votes: votes}
	first := true
	for o, n := range votes {
		if first || n > s.Count || (n == s.Count && o < s.Plurality) {
			s.Plurality, s.Count = o, n
			first = false
		}
	}
	s.Consensus = 2*s.Count > len(r.Decisions)
	return s
}
