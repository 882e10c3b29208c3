package generals

// Tally counts collected orders by value. It is the counting structure the
// decision engine votes over: only multiplicities matter, so the outcome is
// independent of the order values were added in.
type Tally map[Order]int

// NewTally returns an empty tally.
func NewTally() Tally {
	return make(Tally)
}

// Add records one occurrence of o.
func (t Tally) Add(o Order) {
	t[o]++
}

// Total is the number of values recorded.
func (t Tally) Total() int {
	n := 0
	for _, c := range t {
		n += c
	}
	return n
}

// Clone returns an independent copy, used when a tally escapes into an event.
func (t Tally) Clone() Tally {
	c := make(Tally, len(t))
	for o, n := range t {
		c[o] = n
	}
	return c
}

// Majority resolves the tally to a single order. It returns the value
// occurring strictly more than half the time, with strict=true. If no value
// reaches a strict majority (including the empty tally) it returns
// DefaultOrder with strict=false; the caller reports that as a tie event.
//
// A strict majority value is unique when it exists, so the map iteration
// order cannot influence the result.
func (t Tally) Majority() (winner Order, strict bool) {
	total := t.Total()
	for o, n := range t {
		if 2*n > total {
			return o, true
		}
	}
	return DefaultOrder, false
}
